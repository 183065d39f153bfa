package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/insights/analyzer"
	"github.com/seo-optimizer/insights/model"
)

func displayOutcome(w io.Writer, out *analyzer.Outcome, format string) error {
	switch format {
	case "json":
		return displayJSON(w, out)
	case "yaml":
		return displayYAML(w, out)
	case "human", "":
		displayReport(w, out.SEOData)
		displayInsights(w, out)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func displayRecommendations(w io.Writer, rec *analyzer.Recommendations, format string) error {
	switch format {
	case "json":
		return displayJSON(w, rec)
	case "yaml":
		return displayYAML(w, rec)
	case "human", "":
		displayReport(w, rec.SEOData)
		displaySuggestions(w, rec)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func displayJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func displayReport(w io.Writer, report *model.SEOReport) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	check := func(ok bool) string {
		if ok {
			return green.Sprint("yes")
		}
		return red.Sprint("no")
	}

	fmt.Fprintln(w)
	cyan.Fprintln(w, "🔍 SEO REPORT")
	fmt.Fprintf(w, "   Title:            %s\n", report.Title)
	fmt.Fprintf(w, "   Meta description: %s\n", report.MetaDescription)
	fmt.Fprintf(w, "   H1 / H2:          %d / %d\n", len(report.H1), len(report.H2))
	fmt.Fprintf(w, "   Images:           %d\n", len(report.Images))
	fmt.Fprintf(w, "   SSL:              %s\n", check(report.SSL))
	fmt.Fprintf(w, "   Mobile friendly:  %s\n", check(report.MobileFriendly))
	fmt.Fprintf(w, "   Sitemap:          %s\n", report.Sitemap)
	fmt.Fprintf(w, "   robots.txt:       %s\n", report.RobotsTxt)
	fmt.Fprintf(w, "   Crawl allowed:    %s\n", check(report.CrawlAllowed))
	fmt.Fprintf(w, "   Blog:             %s\n", check(report.Blog))
	fmt.Fprintf(w, "   Maps embed:       %s\n", check(report.GoogleMapsEmbed))
	fmt.Fprintf(w, "   Social links:     %d\n", len(report.SocialMediaLinks))
	fmt.Fprintf(w, "   Keyword density:  %s\n", report.KeywordDensity)
	if report.LocalBusinessSchemas.Err != "" {
		fmt.Fprintf(w, "   Schemas:          %s\n", color.YellowString(report.LocalBusinessSchemas.Err))
	} else {
		fmt.Fprintf(w, "   Schemas:          %d LocalBusiness\n", len(report.LocalBusinessSchemas.Items))
	}
	fmt.Fprintln(w)
}

func displayInsights(w io.Writer, out *analyzer.Outcome) {
	green := color.New(color.FgGreen, color.Bold)

	green.Fprintln(w, "💡 ACTIONABLE INSIGHTS:")
	if out.Analysis == nil || len(out.Analysis.ActionableInsights) == 0 {
		fmt.Fprintln(w, "   (none)")
		return
	}
	for i, item := range out.Analysis.ActionableInsights {
		fmt.Fprintf(w, "   %d. %s\n", i+1, item.Insight)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func displaySuggestions(w io.Writer, rec *analyzer.Recommendations) {
	yellow := color.New(color.FgYellow, color.Bold)

	for _, category := range analyzer.Categories {
		suggestions := rec.Suggestions[category]
		if len(suggestions) == 0 {
			continue
		}
		yellow.Fprintf(w, "🔧 %s\n", category)
		for _, s := range suggestions {
			fmt.Fprintf(w, "   • %s\n", s)
		}
		fmt.Fprintln(w)
	}
}
