package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complianceserver/consolidation/pipeline"
	"complianceserver/database"
	"complianceserver/server/types"
	"complianceserver/taxonomy"
)

// HealthHandler обработчик проверки состояния сервера
type HealthHandler struct {
	db           *database.DB
	orchestrator *pipeline.Orchestrator
}

// NewHealthHandler создает обработчик проверки состояния
func NewHealthHandler(db *database.DB, orchestrator *pipeline.Orchestrator) *HealthHandler {
	return &HealthHandler{db: db, orchestrator: orchestrator}
}

// HandleHealthGin возвращает состояние сервера
// @Summary Проверить состояние сервера
// @Description Возвращает доступность базы данных и размер кеша запусков
// @Tags health
// @Produce json
// @Success 200 {object} types.HealthResponse "Сервер работает"
// @Failure 503 {object} types.HealthResponse "База данных недоступна"
// @Router /api/health [get]
func (h *HealthHandler) HandleHealthGin(c *gin.Context) {
	response := types.HealthResponse{
		Status:     "ok",
		Database:   "ok",
		CachedRuns: h.orchestrator.CacheSize(),
		Version:    taxonomy.KeywordTableVersion,
	}

	status := http.StatusOK
	if err := h.db.Ping(); err != nil {
		response.Status = "degraded"
		response.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	SendJSONResponse(c, status, response)
}
