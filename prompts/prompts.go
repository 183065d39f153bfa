// Package prompts turns an analysis request and its SEO report into the
// instruction sent to the completion endpoint. Builders are pure; the wording
// of each template is part of the public contract.
package prompts

import (
	"fmt"
	"strings"

	"github.com/seo-optimizer/insights/model"
)

// Build dispatches to the builder for req.Kind.
func Build(req model.AnalysisRequest, report *model.SEOReport) (string, error) {
	switch req.Kind {
	case model.ContentOptimization:
		return ContentOptimization(req.URL, report, req.Keyword), nil
	case model.TechnicalAudit:
		return TechnicalAudit(req.URL, report), nil
	case model.LocalSEOEnhancement:
		return LocalSEOEnhancement(req.URL, report, req.Location), nil
	case model.CompetitorComparison:
		return CompetitorComparison(req.URL, report, req.CompetitorURL), nil
	case model.EcommerceOptimization:
		return EcommerceOptimization(req.URL, report, req.ProductName), nil
	case model.ContentGapAnalysis:
		return ContentGapAnalysis(req.URL, report, req.RelatedKeywords), nil
	case model.BacklinkStrategy:
		return BacklinkStrategy(req.URL, report), nil
	default:
		return "", fmt.Errorf("no prompt for analysis kind %q", req.Kind)
	}
}

func ContentOptimization(url string, _ *model.SEOReport, keyword string) string {
	return fmt.Sprintf("Analyze the content on the URL '%s' for the keyword '%s'. "+
		"Identify areas where the content could be better optimized for this keyword, including "+
		"improvements in keyword density, content structure, and relevance.", url, keyword)
}

func TechnicalAudit(url string, _ *model.SEOReport) string {
	return fmt.Sprintf("Perform a technical SEO audit of the URL '%s'. "+
		"Evaluate the website's performance, mobile-friendliness, SSL configuration, sitemap, "+
		"robots.txt, and schema markup. Identify any issues that prevent search engines from properly crawling the site.", url)
}

func LocalSEOEnhancement(url string, _ *model.SEOReport, location string) string {
	return fmt.Sprintf("Analyze the URL '%s' for local SEO optimization in the area '%s'. "+
		"Evaluate the presence of local business schemas, Google My Business integration, "+
		"NAP (Name, Address, Phone Number) consistency, and local keyword usage.", url, location)
}

func CompetitorComparison(url string, _ *model.SEOReport, competitorURL string) string {
	return fmt.Sprintf("Compare the SEO elements of the URL '%s' with the competitor site '%s'. "+
		"Analyze differences in keyword usage, content structure, and backlink profiles.", url, competitorURL)
}

func EcommerceOptimization(url string, _ *model.SEOReport, productName string) string {
	return fmt.Sprintf("Analyze the product page at URL '%s' for the product '%s'. "+
		"Evaluate the page's SEO elements including title tags, meta descriptions, product descriptions, "+
		"alt texts for images, and schema markup. Provide recommendations for optimizing the page for search visibility.", url, productName)
}

// ContentGapAnalysis joins the related keywords with ", " in first-seen order,
// dropping repeats.
func ContentGapAnalysis(url string, _ *model.SEOReport, relatedKeywords []string) string {
	return fmt.Sprintf("Perform a content gap analysis for the URL '%s' with respect to the related keywords '%s'. "+
		"Identify areas where the existing content lacks coverage on important topics or keywords.",
		url, strings.Join(dedupe(relatedKeywords), ", "))
}

func BacklinkStrategy(url string, _ *model.SEOReport) string {
	return fmt.Sprintf("Analyze the URL '%s' and suggest a backlink strategy to improve the site's authority and search rankings. "+
		"Consider the current backlink profile and opportunities for acquiring new high-quality backlinks.", url)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
