// Package model holds the data shapes passed between the extraction, prompt and insight stages.
package model

import "encoding/json"

const (
	NoTitle           = "No title found"
	NoMetaDescription = "No meta description found"
	NotApplicable     = "N/A"
)

// SEOReport is the normalized snapshot of a page's on-page and technical signals.
// Every field is always populated, either with a value or with its sentinel.
type SEOReport struct {
	Title                string         `json:"title" yaml:"title"`
	MetaDescription      string         `json:"metaDescription" yaml:"metaDescription"`
	H1                   []string       `json:"h1" yaml:"h1"`
	H2                   []string       `json:"h2" yaml:"h2"`
	Images               []Image        `json:"images" yaml:"images"`
	LocalBusinessSchemas Schemas        `json:"localBusinessSchemas" yaml:"localBusinessSchemas"`
	Sitemap              string         `json:"sitemap" yaml:"sitemap"`
	RobotsTxt            string         `json:"robotsTxt" yaml:"robotsTxt"`
	CrawlAllowed         bool           `json:"crawlAllowed" yaml:"crawlAllowed"`
	MobileFriendly       bool           `json:"mobileFriendly" yaml:"mobileFriendly"`
	SSL                  bool           `json:"ssl" yaml:"ssl"`
	SocialMediaLinks     []string       `json:"socialMediaLinks" yaml:"socialMediaLinks"`
	KeywordDensity       KeywordDensity `json:"keywordDensity" yaml:"keywordDensity"`
	Blog                 bool           `json:"blog" yaml:"blog"`
	GoogleMapsEmbed      bool           `json:"googleMapsEmbed" yaml:"googleMapsEmbed"`
}

type Image struct {
	Alt string `json:"alt" yaml:"alt"`
	Src string `json:"src" yaml:"src"`
}

// Schemas holds the LocalBusiness JSON-LD objects found on a page, or the
// error that stopped their collection. It encodes as a list or as {"error": ...}.
type Schemas struct {
	Items []map[string]any
	Err   string
}

func (s Schemas) MarshalJSON() ([]byte, error) {
	if s.Err != "" {
		return json.Marshal(map[string]string{"error": s.Err})
	}
	if s.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Items)
}

// MarshalYAML mirrors MarshalJSON for the CLI's yaml output.
func (s Schemas) MarshalYAML() (any, error) {
	if s.Err != "" {
		return map[string]string{"error": s.Err}, nil
	}
	if s.Items == nil {
		return []map[string]any{}, nil
	}
	return s.Items, nil
}

// KeywordDensity is a percentage rounded to two decimals, or N/A when no keyword was given.
type KeywordDensity struct {
	Value float64
	Set   bool
}

func (k KeywordDensity) String() string {
	if !k.Set {
		return NotApplicable
	}
	b, _ := json.Marshal(k.Value)
	return string(b)
}

func (k KeywordDensity) MarshalJSON() ([]byte, error) {
	if !k.Set {
		return json.Marshal(NotApplicable)
	}
	return json.Marshal(k.Value)
}

func (k KeywordDensity) MarshalYAML() (any, error) {
	if !k.Set {
		return NotApplicable, nil
	}
	return k.Value, nil
}

// Kind names one of the supported analysis types.
type Kind string

const (
	ContentOptimization   Kind = "content-optimization"
	TechnicalAudit        Kind = "technical-audit"
	LocalSEOEnhancement   Kind = "local-seo-enhancement"
	CompetitorComparison  Kind = "competitor-comparison"
	EcommerceOptimization Kind = "ecommerce-optimization"
	ContentGapAnalysis    Kind = "content-gap-analysis"
	BacklinkStrategy      Kind = "backlink-strategy"
)

// Kinds lists every analysis kind in a stable order.
var Kinds = []Kind{
	ContentOptimization,
	TechnicalAudit,
	LocalSEOEnhancement,
	CompetitorComparison,
	EcommerceOptimization,
	ContentGapAnalysis,
	BacklinkStrategy,
}

// AnalysisRequest carries the task parameters for one analysis.
type AnalysisRequest struct {
	Kind            Kind     `json:"-"`
	URL             string   `json:"url" yaml:"url"`
	Keyword         string   `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Location        string   `json:"location,omitempty" yaml:"location,omitempty"`
	CompetitorURL   string   `json:"competitor_url,omitempty" yaml:"competitor_url,omitempty"`
	ProductName     string   `json:"product_name,omitempty" yaml:"product_name,omitempty"`
	RelatedKeywords []string `json:"related_keywords,omitempty" yaml:"related_keywords,omitempty"`
}
