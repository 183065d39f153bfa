package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/stats"
)

// AnalyzedURLKey is the context key under which handlers store the URL they
// analysed, so the statistics middleware can rank it.
const AnalyzedURLKey = "analyzed_url"

// saveEvery is the number of analyses between traffic snapshots on disk.
const saveEvery = 100

// StatsMiddleware tracks visitors and the latency of analysis requests.
func StatsMiddleware(traffic *stats.Traffic, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		traffic.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.Method != "POST" || !strings.HasPrefix(c.Request.URL.Path, "/seo/") {
			return
		}

		loadTime := float64(time.Since(start).Milliseconds())
		traffic.TrackAnalysis(c.GetString(AnalyzedURLKey), loadTime, c.Writer.Status() >= 400)

		if traffic.Requests()%saveEvery == 0 {
			go func() {
				if err := traffic.Save(); err != nil {
					logger.Warn("failed to save traffic statistics", zap.Error(err))
				}
			}()
		}
	}
}
