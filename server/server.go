package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"complianceserver/consolidation/pipeline"
	"complianceserver/database"
	"complianceserver/frameworks"
	"complianceserver/internal/config"
	"complianceserver/server/handlers"
	"complianceserver/server/middleware"
)

// Server HTTP сервер консолидации требований
type Server struct {
	cfg          *config.Config
	db           *database.DB
	orchestrator *pipeline.Orchestrator
	router       *gin.Engine
	httpServer   *http.Server
}

// runRecorder мост между оркестратором и журналом запусков в базе
type runRecorder struct {
	db *database.DB
}

func (r *runRecorder) RecordConsolidationRun(output *pipeline.RunOutput, request pipeline.Request) error {
	return r.db.RecordRun(database.RunRecord{
		Fingerprint:       output.Result.Fingerprint,
		OrganizationID:    request.OrganizationID,
		FrameworkIDs:      request.FrameworkIDs,
		Tier:              request.Filter.Tier,
		Sector:            request.Filter.Sector,
		TotalOriginal:     output.Result.Stats.TotalOriginal,
		TotalUnified:      output.Result.Stats.TotalUnified,
		ReductionRatio:    output.Result.Stats.ReductionRatio,
		OverallScore:      output.Report.OverallScore,
		Valid:             output.Report.Valid,
		PartialFrameworks: output.Result.PartialFrameworks,
		DurationMs:        output.Duration.Milliseconds(),
	})
}

// NewServer создает сервер консолидации.
// Источник требований — локальная база; при настроенном реестре
// фреймворков вместо нее используется HTTP клиент реестра.
func NewServer(cfg *config.Config, db *database.DB) *Server {
	var provider frameworks.Provider = db
	if cfg.Registry != nil {
		provider = frameworks.NewRegistryClient(frameworks.RegistryClientConfig{
			BaseURL:   cfg.Registry.BaseURL,
			Timeout:   cfg.Registry.Timeout,
			RateLimit: rate.Limit(cfg.Registry.RequestsPerSecond),
			CacheTTL:  cfg.Registry.CacheTTL,
		})
		log.Printf("[Server] Using framework registry at %s", cfg.Registry.BaseURL)
	}

	orchestrator := pipeline.NewOrchestrator(provider, db, &runRecorder{db: db}, cfg.BucketCap)

	srv := &Server{
		cfg:          cfg,
		db:           db,
		orchestrator: orchestrator,
	}
	srv.router = srv.setupRouter(provider)
	srv.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return srv
}

// Router возвращает настроенный Gin роутер (тесты)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Orchestrator возвращает оркестратор консолидации
func (s *Server) Orchestrator() *pipeline.Orchestrator {
	return s.orchestrator
}

func (s *Server) setupRouter(provider frameworks.Provider) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())

	consolidationHandler := handlers.NewConsolidationHandler(s.orchestrator, s.db)
	taxonomyHandler := handlers.NewTaxonomyHandler(s.db)
	frameworksHandler := handlers.NewFrameworksHandler(provider)
	healthHandler := handlers.NewHealthHandler(s.db, s.orchestrator)

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.HandleHealthGin)

		api.POST("/consolidation/run", consolidationHandler.HandleConsolidateGin)
		api.GET("/consolidation/results/:fingerprint", consolidationHandler.HandleResultGin)
		api.GET("/consolidation/results/:fingerprint/matrix", consolidationHandler.HandleMatrixExportGin)
		api.GET("/consolidation/results/:fingerprint/report", consolidationHandler.HandleReportGin)
		api.GET("/consolidation/runs", consolidationHandler.HandleRunsGin)

		api.GET("/taxonomy/categories", taxonomyHandler.HandleCategoriesGin)
		api.GET("/taxonomy/categories/:id", taxonomyHandler.HandleSubsectionsGin)

		api.GET("/frameworks", frameworksHandler.HandleListGin)
		api.GET("/frameworks/:id/requirements", frameworksHandler.HandleRequirementsGin)
	}

	handlers.RegisterSwaggerRoutes(router)

	return router
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	log.Printf("[Server] Listening on port %s", s.cfg.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("[Server] Shutting down")
	return s.httpServer.Shutdown(ctx)
}
