package analyzer

import (
	"fmt"
	"strings"

	"github.com/seo-optimizer/insights/model"
)

// Recommend files each report signal under a category and derives
// deterministic suggestions from it. No completion endpoint is involved.
func Recommend(report *model.SEOReport) *Recommendations {
	rec := &Recommendations{
		Classifications: make(map[Category][]Signal, len(Categories)),
		Suggestions:     make(map[Category][]string, len(Categories)),
		SEOData:         report,
	}
	for _, c := range Categories {
		rec.Classifications[c] = []Signal{}
		rec.Suggestions[c] = []string{}
	}

	rec.file(OnPage, "Title", report.Title)
	rec.file(OnPage, "Meta Description", report.MetaDescription)
	rec.file(OnPage, "H1 Tags", report.H1)
	rec.file(OnPage, "H2 Tags", report.H2)
	rec.file(Technical, "SSL", report.SSL)
	rec.file(Technical, "Mobile Friendly", report.MobileFriendly)
	rec.file(Technical, "Sitemap", report.Sitemap)
	rec.file(Technical, "Robots.txt", report.RobotsTxt)
	rec.file(Technical, "Local Business Schemas", report.LocalBusinessSchemas)
	rec.file(ContentQuality, "Alt Texts and Image Info", report.Images)
	rec.file(ContentQuality, "Blog", report.Blog)
	rec.file(ContentQuality, "Keyword Density", report.KeywordDensity)
	rec.file(OffPage, "Social Media Links", report.SocialMediaLinks)
	rec.file(OffPage, "Google Maps Embed", report.GoogleMapsEmbed)

	// On-page
	if report.Title == model.NoTitle || strings.TrimSpace(report.Title) == "" {
		rec.suggest(OnPage, "Add a meaningful title to the page.")
	} else if n := len(report.Title); n < 30 {
		rec.suggest(OnPage, "Title tag is too short (should be 30-60 characters).")
	} else if n > 60 {
		rec.suggest(OnPage, "Title tag is too long (should be 30-60 characters).")
	}
	if report.MetaDescription == model.NoMetaDescription {
		rec.suggest(OnPage, "Add a meta description.")
	} else if n := len(report.MetaDescription); n < 120 {
		rec.suggest(OnPage, "Meta description is too short (should be 120-160 characters).")
	} else if n > 160 {
		rec.suggest(OnPage, "Meta description is too long (should be 120-160 characters).")
	}
	switch len(report.H1) {
	case 0:
		rec.suggest(OnPage, "Add an H1 heading.")
	case 1:
	default:
		rec.suggest(OnPage, "Multiple H1 headings found - consider using only one.")
	}
	if len(report.H2) == 0 {
		rec.suggest(OnPage, "Structure the content with H2 subheadings.")
	}

	// Technical
	if !report.SSL {
		rec.suggest(Technical, "Implement SSL for secure connections.")
	}
	if !report.MobileFriendly {
		rec.suggest(Technical, "Optimize the site for mobile devices by adding a viewport meta tag.")
	}
	if strings.HasPrefix(report.Sitemap, "No sitemap found") {
		rec.suggest(Technical, "Publish a sitemap.xml so search engines can discover every page.")
	}
	if strings.HasPrefix(report.RobotsTxt, "No robots.txt found") {
		rec.suggest(Technical, "Add a robots.txt file to guide crawlers.")
	} else if !report.CrawlAllowed {
		rec.suggest(Technical, "robots.txt blocks crawlers from this page; allow it if it should rank.")
	}
	if report.LocalBusinessSchemas.Err != "" {
		rec.suggest(Technical, "Fix the malformed JSON-LD structured data block.")
	}

	// Content quality
	missingAlt := 0
	for _, img := range report.Images {
		if strings.TrimSpace(img.Alt) == "" {
			missingAlt++
		}
	}
	if missingAlt > 0 {
		rec.suggest(ContentQuality, fmt.Sprintf("Add alt text to all images (%d missing).", missingAlt))
	}
	if !report.Blog {
		rec.suggest(ContentQuality, "Consider adding a blog section to publish fresh content.")
	}
	if report.KeywordDensity.Set {
		switch d := report.KeywordDensity.Value; {
		case d == 0:
			rec.suggest(ContentQuality, "The target keyword does not appear in the page content.")
		case d > 3:
			rec.suggest(ContentQuality, "Keyword density is high; avoid keyword stuffing.")
		}
	}

	// Off-page
	if len(report.SocialMediaLinks) == 0 {
		rec.suggest(OffPage, "Link to the site's social media profiles.")
	}

	return rec
}

func (r *Recommendations) file(c Category, element string, value any) {
	r.Classifications[c] = append(r.Classifications[c], Signal{Element: element, Value: value})
}

func (r *Recommendations) suggest(c Category, s string) {
	r.Suggestions[c] = append(r.Suggestions[c], s)
}
