package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/analyzer"
	"github.com/seo-optimizer/insights/middleware"
	"github.com/seo-optimizer/insights/model"
)

// combinedKind labels combined-endpoint analyses in statistics.
const combinedKind = "perplexity"

func (h *Handlers) bind(c *gin.Context, kind model.Kind) (model.AnalysisRequest, bool) {
	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return req, false
	}
	req.Kind = kind
	c.Set(middleware.AnalyzedURLKey, req.URL)
	return req, true
}

func (h *Handlers) run(c *gin.Context, label string, kind model.Kind) (*analyzer.Outcome, bool) {
	req, ok := h.bind(c, kind)
	if !ok {
		return nil, false
	}

	h.logger.Info("analysis requested",
		zap.String("kind", label),
		zap.String("url", req.URL),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", middleware.RequestID(c)))

	out, err := h.pipeline.Analyze(c.Request.Context(), req)
	h.record(label, err)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return out, true
}

// Combined runs a content optimization analysis and returns the report
// together with the insights.
func (h *Handlers) Combined(c *gin.Context) {
	out, ok := h.run(c, combinedKind, model.ContentOptimization)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, out)
}

// Analyze returns a handler running kind and answering with the insights alone.
func (h *Handlers) Analyze(kind model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, ok := h.run(c, string(kind), kind)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, out.Analysis)
	}
}

// Report builds the SEO report of a page and its rule-based recommendations.
// No completion call is made.
func (h *Handlers) Report(c *gin.Context) {
	req, ok := h.bind(c, "")
	if !ok {
		return
	}

	report, err := h.pipeline.Report(c.Request.Context(), req.URL, req.Keyword)
	h.record("report", err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analyzer.Recommend(report))
}
