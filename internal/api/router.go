package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/scores"
	"github.com/gin-gonic/gin"
)

type Server struct {
	analysis       *analysis.Service
	scores         *scores.Generator
	metricsHandler http.Handler
}

func NewServer(svc *analysis.Service, gen *scores.Generator, metricsHandler http.Handler) *Server {
	if gen == nil {
		gen = scores.NewGenerator()
	}
	return &Server{analysis: svc, scores: gen, metricsHandler: metricsHandler}
}

// Router builds the gin engine. Callers choose the gin mode beforehand.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	r.GET("/healthz", s.handleHealth)
	r.POST("/process", s.handleProcess)

	api := r.Group("/api")
	api.GET("/dashboard", s.handleDashboard)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/signup", s.handleSignup)
	api.GET("/submissions", s.handleSubmissions)

	if s.metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(s.metricsHandler))
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds())
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
