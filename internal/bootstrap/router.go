package bootstrap

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/campus-wellbeing/survey-graph-backend/internal/api/http"
	"github.com/campus-wellbeing/survey-graph-backend/internal/api/http/middleware"
	surveyhttp "github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/http"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Title          string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	// DB and Cache stay nil when not configured.
	DB      httpapi.Pinger
	Cache   httpapi.Pinger
	Service *service.SurveyService
}

// GraphTitle names rendered graphs after the dataset file.
func GraphTitle(datasetPath string) string {
	base := filepath.Base(datasetPath)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORS(dep.CORSOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Cache, dep.Service.Dataset())
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst).Middleware())

	surveyhttp.New(dep.Service, dep.Title).Register(api.Group("/survey"))

	return r
}
