package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seo-optimizer/insights/errs"
	"github.com/seo-optimizer/insights/model"
)

const localBusinessType = "LocalBusiness"

var socialPlatforms = []string{
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"linkedin.com",
}

// ExtractHTML parses html and extracts its report. Probe fields are left empty
// for the caller to fill.
func ExtractHTML(html []byte, pageURL, keyword string) (*model.SEOReport, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, errs.Parse(fmt.Sprintf("parsing HTML: %v", err), err)
	}
	report := Extract(doc, pageURL, keyword)
	return &report, nil
}

// Extract builds a report from a parsed document. It performs no I/O and
// does not modify doc.
func Extract(doc *goquery.Document, pageURL, keyword string) model.SEOReport {
	return model.SEOReport{
		Title:                extractTitle(doc),
		MetaDescription:      extractMetaDescription(doc),
		H1:                   extractTexts(doc, "h1"),
		H2:                   extractTexts(doc, "h2"),
		Images:               extractImages(doc),
		LocalBusinessSchemas: extractLocalBusinessSchemas(doc),
		CrawlAllowed:         true,
		MobileFriendly:       doc.Find("meta[name='viewport']").Length() > 0,
		SSL:                  strings.HasPrefix(pageURL, "https://"),
		SocialMediaLinks:     extractSocialLinks(doc),
		KeywordDensity:       keywordDensity(doc, keyword),
		Blog:                 doc.Find("section#blog, .blog").Length() > 0,
		GoogleMapsEmbed:      doc.Find("iframe[src*='google.com/maps']").Length() > 0,
	}
}

func extractTitle(doc *goquery.Document) string {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return model.NoTitle
	}
	return title.Text()
}

func extractMetaDescription(doc *goquery.Document) string {
	content, _ := doc.Find("meta[name='description']").First().Attr("content")
	if content == "" {
		return model.NoMetaDescription
	}
	return content
}

func extractTexts(doc *goquery.Document, selector string) []string {
	texts := make([]string, 0)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

func extractImages(doc *goquery.Document) []model.Image {
	images := make([]model.Image, 0)
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		alt, _ := s.Attr("alt")
		src, _ := s.Attr("src")
		images = append(images, model.Image{Alt: alt, Src: src})
	})
	return images
}

// extractLocalBusinessSchemas collects LocalBusiness objects from every JSON-LD
// block. The first block that fails to decode replaces the whole result.
func extractLocalBusinessSchemas(doc *goquery.Document) model.Schemas {
	schemas := model.Schemas{Items: make([]map[string]any, 0)}

	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var decoded any
		if err := json.Unmarshal([]byte(s.Text()), &decoded); err != nil {
			schemas = model.Schemas{Err: fmt.Sprintf("Error parsing LocalBusiness schema: %v", err)}
			return false
		}

		switch v := decoded.(type) {
		case map[string]any:
			if v["@type"] == localBusinessType {
				schemas.Items = append(schemas.Items, v)
			}
		case []any:
			for _, item := range v {
				obj, ok := item.(map[string]any)
				if ok && obj["@type"] == localBusinessType {
					schemas.Items = append(schemas.Items, obj)
				}
			}
		}
		return true
	})

	return schemas
}

func extractSocialLinks(doc *goquery.Document) []string {
	links := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		for _, platform := range socialPlatforms {
			if strings.Contains(href, platform) {
				links = append(links, href)
				return
			}
		}
	})
	return links
}

// keywordDensity counts case-insensitive substring occurrences of keyword
// against the whitespace-separated word count of the visible text.
func keywordDensity(doc *goquery.Document, keyword string) model.KeywordDensity {
	if keyword == "" {
		return model.KeywordDensity{}
	}

	visible := doc.Selection.Clone()
	visible.Find("script, style, noscript").Remove()
	text := strings.ToLower(visible.Text())

	words := len(strings.Fields(text))
	if words == 0 {
		return model.KeywordDensity{Value: 0, Set: true}
	}

	count := strings.Count(text, strings.ToLower(keyword))
	density := float64(count) / float64(words) * 100
	return model.KeywordDensity{Value: math.Round(density*100) / 100, Set: true}
}
