package analyzer

import (
	"net/url"

	"github.com/seo-optimizer/insights/errs"
	"github.com/seo-optimizer/insights/model"
)

const invalidURL = "Invalid URL format"

// ValidateURL reports whether raw has both a scheme and a host.
// Malformed input is simply invalid.
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// ValidateRequest checks the fields required by req.Kind. It performs no I/O.
func ValidateRequest(req model.AnalysisRequest) error {
	if req.URL == "" {
		return errs.Input("missing required field: url")
	}
	if !ValidateURL(req.URL) {
		return errs.Input(invalidURL)
	}

	switch req.Kind {
	case model.ContentOptimization:
		if req.Keyword == "" {
			return errs.Input("missing required field: keyword")
		}
	case model.LocalSEOEnhancement:
		if req.Location == "" {
			return errs.Input("missing required field: location")
		}
	case model.CompetitorComparison:
		if req.CompetitorURL == "" {
			return errs.Input("missing required field: competitor_url")
		}
	case model.EcommerceOptimization:
		if req.ProductName == "" {
			return errs.Input("missing required field: product_name")
		}
	case model.ContentGapAnalysis:
		if len(req.RelatedKeywords) == 0 {
			return errs.Input("missing required field: related_keywords")
		}
	case model.TechnicalAudit, model.BacklinkStrategy:
	default:
		return errs.Input("unsupported analysis kind: %q", req.Kind)
	}
	return nil
}
