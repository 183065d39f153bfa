package analyzer

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/errs"
	"github.com/seo-optimizer/insights/insight"
	"github.com/seo-optimizer/insights/model"
	"github.com/seo-optimizer/insights/prompts"
)

// Stage names a step of the analysis pipeline.
type Stage string

const (
	StageValidating     Stage = "validating"
	StageFetching       Stage = "fetching"
	StageExtracting     Stage = "extracting"
	StageProbing        Stage = "probing"
	StageBuildingPrompt Stage = "building_prompt"
	StageQuerying       Stage = "querying"
	StageDone           Stage = "done"
)

// Querier submits a prompt to the completion endpoint.
type Querier interface {
	Query(ctx context.Context, prompt string) (*insight.Result, error)
}

// Analyzer sequences validation, fetching, extraction, probing, prompt
// construction and the completion query. It holds no per-request state and is
// safe for concurrent use.
type Analyzer struct {
	fetcher  Fetcher
	prober   *Prober
	insights Querier
	logger   *zap.Logger
}

// New creates an Analyzer. A nil logger discards logs.
func New(fetcher Fetcher, prober *Prober, insights Querier, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		fetcher:  fetcher,
		prober:   prober,
		insights: insights,
		logger:   logger,
	}
}

// Report fetches pageURL and builds its SEO report, including the auxiliary
// probes. keyword may be empty.
func (a *Analyzer) Report(ctx context.Context, pageURL, keyword string) (report *model.SEOReport, err error) {
	stage := StageValidating
	defer a.recoverPanic(&stage, pageURL, &err)

	if !ValidateURL(pageURL) {
		return nil, errs.Input(invalidURL)
	}

	a.enter(&stage, StageFetching, pageURL)
	body, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		a.logger.Warn("page fetch failed", zap.String("url", pageURL), zap.Error(err))
		if errs.KindOf(err) != errs.FetchFailed {
			err = errs.Fetch(err.Error(), err)
		}
		return nil, err
	}

	a.enter(&stage, StageExtracting, pageURL)
	report, err = ExtractHTML(body, pageURL, keyword)
	if err != nil {
		return nil, err
	}

	a.enter(&stage, StageProbing, pageURL)
	probe := a.prober.Probe(ctx, pageURL)
	report.Sitemap = probe.Sitemap
	report.RobotsTxt = probe.RobotsTxt
	report.CrawlAllowed = probe.CrawlAllowed

	return report, nil
}

// Analyze runs the full pipeline for req. The first failing stage ends the
// run and its error is returned unchanged.
func (a *Analyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (out *Outcome, err error) {
	stage := StageValidating
	defer a.recoverPanic(&stage, req.URL, &err)

	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	report, err := a.Report(ctx, req.URL, req.Keyword)
	if err != nil {
		return nil, err
	}

	a.enter(&stage, StageBuildingPrompt, req.URL)
	prompt, err := prompts.Build(req, report)
	if err != nil {
		return nil, errs.InternalError(err.Error(), err)
	}

	a.enter(&stage, StageQuerying, req.URL)
	result, err := a.insights.Query(ctx, prompt)
	if err != nil {
		a.logger.Warn("insight query failed",
			zap.String("url", req.URL),
			zap.String("kind", string(req.Kind)),
			zap.Error(err))
		return nil, err
	}

	a.enter(&stage, StageDone, req.URL)
	return &Outcome{SEOData: report, Analysis: result}, nil
}

func (a *Analyzer) enter(stage *Stage, next Stage, pageURL string) {
	*stage = next
	a.logger.Debug("analysis stage", zap.String("url", pageURL), zap.String("stage", string(next)))
}

func (a *Analyzer) recoverPanic(stage *Stage, pageURL string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	a.logger.Error("analysis panicked",
		zap.String("url", pageURL),
		zap.String("stage", string(*stage)),
		zap.Any("panic", r),
		zap.ByteString("stack", debug.Stack()))
	*err = errs.InternalError(fmt.Sprint(r), nil)
}
