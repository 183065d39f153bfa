// Package handlers binds HTTP requests to the analysis pipeline.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/analyzer"
	"github.com/seo-optimizer/insights/errs"
	"github.com/seo-optimizer/insights/middleware"
	"github.com/seo-optimizer/insights/model"
	"github.com/seo-optimizer/insights/stats"
)

// Pipeline is the part of the analyzer the handlers need.
type Pipeline interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*analyzer.Outcome, error)
	Report(ctx context.Context, pageURL, keyword string) (*model.SEOReport, error)
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	pipeline  Pipeline
	metrics   *middleware.Metrics
	traffic   *stats.Traffic
	monthly   *stats.Storage
	devMode   bool
	startedAt time.Time
	logger    *zap.Logger
}

// Options carries the optional collaborators of Handlers.
type Options struct {
	Metrics *middleware.Metrics
	Traffic *stats.Traffic
	Monthly *stats.Storage
	DevMode bool
	Logger  *zap.Logger
}

// New creates the handler set. Collaborators left nil in opts are skipped.
func New(pipeline Pipeline, opts Options) *Handlers {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handlers{
		pipeline:  pipeline,
		metrics:   opts.Metrics,
		traffic:   opts.Traffic,
		monthly:   opts.Monthly,
		devMode:   opts.DevMode,
		startedAt: time.Now(),
		logger:    opts.Logger,
	}
}

// Register mounts every route on r.
func (h *Handlers) Register(r gin.IRouter) {
	seo := r.Group("/seo")
	{
		seo.POST("/analyze/perplexity", h.Combined)
		for path, kind := range Routes {
			seo.POST("/analyze/"+path, h.Analyze(kind))
		}
		seo.POST("/report", h.Report)
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/statistics", h.Statistics)
	}
}

// Routes maps each insight-only route segment to its analysis kind.
var Routes = map[string]model.Kind{
	"content-optimization":  model.ContentOptimization,
	"technical-seo":         model.TechnicalAudit,
	"local-seo":             model.LocalSEOEnhancement,
	"competitor-comparison": model.CompetitorComparison,
	"ecommerce-seo":         model.EcommerceOptimization,
	"content-gap":           model.ContentGapAnalysis,
	"backlink-strategy":     model.BacklinkStrategy,
}

// respondError maps err onto a status code and the {error} body.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var e *errs.Error
	if !errors.As(err, &e) {
		e = errs.InternalError(err.Error(), err)
	}

	switch {
	case errs.IsClientError(e):
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Message})
	case e.Kind == errs.Upstream:
		c.JSON(http.StatusInternalServerError, gin.H{"error": e.Message})
	default:
		h.logger.Error("unexpected analysis failure",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.RequestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "An unexpected error occurred",
			"message": e.Message,
		})
	}
}

func (h *Handlers) record(kind string, err error) {
	if h.monthly != nil {
		h.monthly.Record(kind, err != nil)
	}
	if h.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = errs.KindOf(err).String()
		}
		h.metrics.RecordAnalysis(kind, outcome)
	}
}

// Health answers liveness probes.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Statistics returns traffic statistics and this month's analysis counts.
// Popular URLs and monthly history are only exposed in development mode.
func (h *Handlers) Statistics(c *gin.Context) {
	body := gin.H{}
	if h.traffic != nil {
		for k, v := range h.traffic.Snapshot(h.devMode) {
			body[k] = v
		}
	}
	if h.monthly != nil {
		body["currentMonth"] = h.monthly.GetCurrentStats()
		if h.devMode {
			body["months"] = h.monthly.GetAllMonths()
		}
	}
	c.JSON(http.StatusOK, body)
}
