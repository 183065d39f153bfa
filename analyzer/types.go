package analyzer

import (
	"github.com/seo-optimizer/insights/insight"
	"github.com/seo-optimizer/insights/model"
)

// Outcome is the result of a completed analysis.
type Outcome struct {
	SEOData  *model.SEOReport `json:"seo_data" yaml:"seo_data"`
	Analysis *insight.Result  `json:"perplexity_analysis" yaml:"perplexity_analysis"`
}

// Category groups report signals the way SEO audits are usually presented.
type Category string

const (
	OnPage         Category = "On-Page SEO"
	Technical      Category = "Technical SEO"
	ContentQuality Category = "Content Quality"
	OffPage        Category = "Off-Page SEO"
)

// Categories lists every category in presentation order.
var Categories = []Category{OnPage, Technical, ContentQuality, OffPage}

// Signal is one report field filed under a category.
type Signal struct {
	Element string `json:"element" yaml:"element"`
	Value   any    `json:"value" yaml:"value"`
}

// Recommendations is the rule-based reading of a report, without a completion call.
type Recommendations struct {
	Classifications map[Category][]Signal `json:"classifications" yaml:"classifications"`
	Suggestions     map[Category][]string `json:"suggestions" yaml:"suggestions"`
	SEOData         *model.SEOReport      `json:"seo_data" yaml:"seo_data"`
}
