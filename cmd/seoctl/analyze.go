package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/analyzer"
	"github.com/seo-optimizer/insights/config"
	"github.com/seo-optimizer/insights/insight"
	"github.com/seo-optimizer/insights/logging"
	"github.com/seo-optimizer/insights/model"
)

type analyzeOptions struct {
	request      model.AnalysisRequest
	outputFormat string
	verbose      bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze KIND",
		Short: "Analyze a page and ask for actionable insights",
		Long: `Analyze a page for one of the supported kinds:
  ` + kindList() + `

Examples:
  # Content optimization for a keyword
  seoctl analyze content-optimization --url https://example.com --keyword "coffee beans"

  # Content gap analysis
  seoctl analyze content-gap-analysis --url https://example.com -k espresso -k grinder

  # Machine-readable output
  seoctl analyze technical-audit --url https://example.com -o json`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			opts.request.Kind = kind
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.request.URL, "url", "u", "", "URL of the page to analyze")
	cmd.Flags().StringVar(&opts.request.Keyword, "keyword", "", "Target keyword (content-optimization)")
	cmd.Flags().StringVar(&opts.request.Location, "location", "", "Business location (local-seo-enhancement)")
	cmd.Flags().StringVar(&opts.request.CompetitorURL, "competitor-url", "", "Competitor URL (competitor-comparison)")
	cmd.Flags().StringVar(&opts.request.ProductName, "product-name", "", "Product name (ecommerce-optimization)")
	cmd.Flags().StringSliceVarP(&opts.request.RelatedKeywords, "related-keyword", "k", nil, "Related keywords (content-gap-analysis)")
	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline stages")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	if err := analyzer.ValidateRequest(opts.request); err != nil {
		return err
	}

	a, err := newPipeline(opts.verbose)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Analyzing %s...", opts.request.URL)
	s.Writer = cmd.ErrOrStderr()
	s.Start()

	out, err := a.Analyze(cmd.Context(), opts.request)
	s.Stop()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return displayOutcome(cmd.OutOrStdout(), out, opts.outputFormat)
}

// newPipeline wires the analyzer from the environment the way the server does.
func newPipeline(verbose bool) (*analyzer.Analyzer, error) {
	config.LoadEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = logging.New(logging.Config{Level: "debug", Development: true, OutputPaths: []string{"stderr"}})
		if err != nil {
			return nil, err
		}
	}

	client := analyzer.NewHTTPClient()
	fetcher := analyzer.NewHTTPFetcher(client, cfg.Fetch.UserAgent, cfg.Fetch.Timeout)
	prober := analyzer.NewProber(fetcher, cfg.Fetch.UserAgent, cfg.Fetch.ProbeTimeout)
	// The insight client sets its own timeout on the client it is given.
	insights := insight.New(&http.Client{Transport: client.Transport}, insight.Config{
		APIKey:   cfg.Perplexity.APIKey,
		Endpoint: cfg.Perplexity.URL,
		Model:    cfg.Perplexity.Model,
		Timeout:  cfg.Perplexity.Timeout,
	})
	return analyzer.New(fetcher, prober, insights, logger), nil
}

func parseKind(arg string) (model.Kind, error) {
	for _, k := range model.Kinds {
		if string(k) == arg {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown analysis kind %q (expected one of: %s)", arg, kindList())
}

func kindArgs() []string {
	args := make([]string, len(model.Kinds))
	for i, k := range model.Kinds {
		args[i] = string(k)
	}
	return args
}

func kindList() string {
	return strings.Join(kindArgs(), ", ")
}
