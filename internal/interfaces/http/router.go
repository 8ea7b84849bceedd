package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/smartlex/lexml/internal/infrastructure/monitoring/prometheus"
	"github.com/smartlex/lexml/internal/interfaces/http/handlers"
	"github.com/smartlex/lexml/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Analysis *handlers.AnalysisHandler
	Health   *handlers.HealthHandler
	Metrics  *prommetrics.Metrics

	// Gatherer serves /metrics.  Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	CORSOrigins []string
	Log         logging.Logger
}

// NewRouter assembles the gin engine with the full middleware stack and all
// routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log, deps.Metrics),
		middleware.CORS(deps.CORSOrigins),
	)

	r.GET("/healthz", deps.Health.Live)
	r.GET("/readyz", deps.Health.Ready)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	{
		contracts := v1.Group("/contracts")
		contracts.POST("/analyze", deps.Analysis.Analyze)
		contracts.GET("/history", deps.Analysis.History)
	}

	return r
}
