package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/insights/model"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Coffee Roasters</title>
	<meta name="description" content="Fresh roasted coffee beans delivered weekly.">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<script type="application/ld+json">{"@context": "https://schema.org", "@type": "LocalBusiness", "name": "Acme"}</script>
	<script type="application/ld+json">[{"@type": "LocalBusiness", "name": "Acme East"}, {"@type": "Organization"}, "stray"]</script>
	<script type="application/ld+json">{"@type": "WebSite"}</script>
</head>
<body>
	<h1>Coffee</h1>
	<h2>Beans</h2>
	<h2>Beans</h2>
	<img src="/a.png" alt="A bag of beans">
	<img src="/b.png">
	<img alt="no source">
	<a href="https://facebook.com/acme">Facebook</a>
	<a href="https://example.com/about">About</a>
	<a href="https://www.linkedin.com/company/acme">LinkedIn</a>
	<a href="https://facebook.com/acme">Facebook again</a>
	<section id="blog"><p>Coffee news</p></section>
	<iframe src="https://www.google.com/maps/embed?pb=123"></iframe>
</body>
</html>`

func extract(t *testing.T, html, pageURL, keyword string) *model.SEOReport {
	t.Helper()
	report, err := ExtractHTML([]byte(html), pageURL, keyword)
	require.NoError(t, err)
	return report
}

func TestExtractBasicDocument(t *testing.T) {
	report := extract(t, `<html><head><title>Test Title</title></head><body><h1>Header 1</h1></body></html>`, "http://example.com", "")

	assert.Equal(t, "Test Title", report.Title)
	assert.Equal(t, []string{"Header 1"}, report.H1)
	assert.Equal(t, model.NoMetaDescription, report.MetaDescription)
	assert.Empty(t, report.H2)
	assert.Empty(t, report.Images)
	assert.False(t, report.SSL)
	assert.False(t, report.MobileFriendly)
	assert.False(t, report.Blog)
	assert.False(t, report.GoogleMapsEmbed)
	assert.Equal(t, model.NotApplicable, report.KeywordDensity.String())
}

func TestExtractSentinels(t *testing.T) {
	report := extract(t, `<html><body><meta name="description" content=""></body></html>`, "https://example.com", "")

	assert.Equal(t, model.NoTitle, report.Title)
	assert.Equal(t, model.NoMetaDescription, report.MetaDescription)
	assert.True(t, report.SSL)
}

func TestExtractFullPage(t *testing.T) {
	report := extract(t, samplePage, "https://example.com", "coffee")

	assert.Equal(t, "Acme Coffee Roasters", report.Title)
	assert.Equal(t, "Fresh roasted coffee beans delivered weekly.", report.MetaDescription)
	assert.Equal(t, []string{"Coffee"}, report.H1)
	assert.Equal(t, []string{"Beans", "Beans"}, report.H2, "duplicates are kept")
	assert.Equal(t, []model.Image{
		{Alt: "A bag of beans", Src: "/a.png"},
		{Alt: "", Src: "/b.png"},
		{Alt: "no source", Src: ""},
	}, report.Images)
	assert.True(t, report.MobileFriendly)
	assert.True(t, report.SSL)
	assert.True(t, report.Blog)
	assert.True(t, report.GoogleMapsEmbed)
	assert.Equal(t, []string{
		"https://facebook.com/acme",
		"https://www.linkedin.com/company/acme",
		"https://facebook.com/acme",
	}, report.SocialMediaLinks)

	require.Empty(t, report.LocalBusinessSchemas.Err)
	require.Len(t, report.LocalBusinessSchemas.Items, 2)
	assert.Equal(t, "Acme", report.LocalBusinessSchemas.Items[0]["name"])
	assert.Equal(t, "Acme East", report.LocalBusinessSchemas.Items[1]["name"])
	assert.True(t, report.KeywordDensity.Set)
	assert.Greater(t, report.KeywordDensity.Value, 0.0)
}

func TestExtractBlogClass(t *testing.T) {
	report := extract(t, `<html><body><div class="posts blog">x</div></body></html>`, "https://example.com", "")
	assert.True(t, report.Blog)
}

func TestKeywordDensity(t *testing.T) {
	const html = `<html><body>test keyword test keyword</body></html>`

	tests := []struct {
		name    string
		keyword string
		want    string
	}{
		{"present", "keyword", "50"},
		{"case insensitive", "KEYWORD", "50"},
		{"missing", "missing", "0"},
		{"no keyword", "", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := extract(t, html, "https://example.com", tt.keyword)
			assert.Equal(t, tt.want, report.KeywordDensity.String())
		})
	}

	report := extract(t, html, "https://example.com", "keyword")
	assert.Equal(t, 50.0, report.KeywordDensity.Value)
}

func TestKeywordDensityRoundsAndIgnoresScripts(t *testing.T) {
	html := `<html><head><script>var seo = "seo seo seo";</script><style>.seo{}</style></head>
<body>seo one two</body></html>`

	report := extract(t, html, "https://example.com", "seo")
	assert.Equal(t, 33.33, report.KeywordDensity.Value)
}

func TestKeywordDensityEmptyDocument(t *testing.T) {
	report := extract(t, `<html><body></body></html>`, "https://example.com", "seo")
	assert.True(t, report.KeywordDensity.Set)
	assert.Equal(t, 0.0, report.KeywordDensity.Value)
}

func TestMalformedStructuredData(t *testing.T) {
	html := strings.Replace(samplePage,
		`<script type="application/ld+json">{"@type": "WebSite"}</script>`,
		`<script type="application/ld+json">{"@type": "WebSite",</script>`, 1)
	broken := extract(t, html, "https://example.com", "coffee")
	clean := extract(t, samplePage, "https://example.com", "coffee")

	assert.Nil(t, broken.LocalBusinessSchemas.Items)
	assert.True(t, strings.HasPrefix(broken.LocalBusinessSchemas.Err, "Error parsing LocalBusiness schema: "))

	encoded, err := json.Marshal(broken.LocalBusinessSchemas)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `{"error":"Error parsing LocalBusiness schema: `)

	broken.LocalBusinessSchemas = clean.LocalBusinessSchemas
	assert.Equal(t, clean, broken, "all other fields keep their values")
}

func TestExtractIsIdempotent(t *testing.T) {
	first, err := json.Marshal(extract(t, samplePage, "https://example.com", "coffee"))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := json.Marshal(extract(t, samplePage, "https://example.com", "coffee"))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestReportJSONShape(t *testing.T) {
	report := extract(t, `<html><head><title>T</title></head></html>`, "https://example.com", "")

	encoded, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "N/A", decoded["keywordDensity"])
	assert.Equal(t, []any{}, decoded["localBusinessSchemas"])
	assert.Equal(t, []any{}, decoded["h1"])
	assert.Equal(t, []any{}, decoded["socialMediaLinks"])
}
