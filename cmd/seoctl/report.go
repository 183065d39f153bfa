package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/seo-optimizer/insights/analyzer"
)

func newReportCmd() *cobra.Command {
	var (
		pageURL      string
		keyword      string
		outputFormat string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Extract a page's SEO signals and rule-based suggestions",
		Long: `Build the SEO report of a page and derive suggestions from it.
No completion endpoint is contacted.

Examples:
  seoctl report --url https://example.com
  seoctl report --url https://example.com --keyword "coffee beans" -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !analyzer.ValidateURL(pageURL) {
				return errors.New("invalid URL format")
			}

			a, err := newPipeline(verbose)
			if err != nil {
				return err
			}

			s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
			s.Suffix = fmt.Sprintf(" Fetching %s...", pageURL)
			s.Writer = cmd.ErrOrStderr()
			s.Start()

			report, err := a.Report(cmd.Context(), pageURL, keyword)
			s.Stop()
			if err != nil {
				return fmt.Errorf("report failed: %w", err)
			}

			return displayRecommendations(cmd.OutOrStdout(), analyzer.Recommend(report), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&pageURL, "url", "u", "", "URL of the page to analyze")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Keyword for the density measurement")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stages")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
