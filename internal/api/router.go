package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"secondbrain/pkg/trace"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(captureHandler *CaptureHandler, brainHandler *BrainHandler, askHandler *AskHandler) *Router {
	r := gin.Default()
	r.Use(TraceMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/capture", captureHandler.Capture)
	r.POST("/capture/queue", captureHandler.QueueCapture)
	r.POST("/ask", askHandler.Ask)

	r.GET("/review", brainHandler.DailyReview)
	r.GET("/focus", brainHandler.TodayFocus)
	r.GET("/decisions", brainHandler.PendingDecisions)
	r.POST("/decisions/resolve", brainHandler.ResolveDecision)
	r.POST("/items/delete", brainHandler.DeleteItem)

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}

// TraceMiddleware attaches an incoming or fresh trace id to the request
// context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName)
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName, traceID)
		c.Next()
	}
}
