package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"complianceserver/consolidation"
	"complianceserver/consolidation/pipeline"
	"complianceserver/database"
	"complianceserver/frameworks"
	apperrors "complianceserver/server/errors"
	"complianceserver/server/types"
)

// ConsolidationHandler обработчики запусков консолидации
type ConsolidationHandler struct {
	orchestrator *pipeline.Orchestrator
	db           *database.DB
}

// NewConsolidationHandler создает обработчик консолидации
func NewConsolidationHandler(orchestrator *pipeline.Orchestrator, db *database.DB) *ConsolidationHandler {
	return &ConsolidationHandler{orchestrator: orchestrator, db: db}
}

// HandleConsolidateGin запускает консолидацию требований
// @Summary Запустить консолидацию
// @Description Консолидирует требования выбранных фреймворков в объединенные требования по канонической таксономии
// @Tags consolidation
// @Accept json
// @Produce json
// @Param request body types.ConsolidateRequest true "Параметры запуска"
// @Success 200 {object} types.ConsolidateResponse "Сводка запуска"
// @Failure 400 {object} types.ErrorResponse "Неверный запрос"
// @Failure 422 {object} types.ErrorResponse "Ошибка конфигурации таксономии"
// @Failure 500 {object} types.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/consolidation/run [post]
func (h *ConsolidationHandler) HandleConsolidateGin(c *gin.Context) {
	var req types.ConsolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("неверный формат тела запроса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	output, err := h.orchestrator.Run(c.Request.Context(), pipeline.Request{
		OrganizationID: req.OrganizationID,
		FrameworkIDs:   req.FrameworkIDs,
		Filter: frameworks.RequirementFilter{
			Tier:   req.Tier,
			Sector: req.Sector,
		},
	})
	if err != nil {
		appErr := apperrors.FromError(err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, types.ConsolidateResponse{
		Fingerprint:       output.Result.Fingerprint,
		FromCache:         output.FromCache,
		Stats:             output.Result.Stats,
		Valid:             output.Report.Valid,
		OverallScore:      output.Report.OverallScore,
		CriticalIssues:    output.Report.CriticalIssueCount(),
		PartialFrameworks: output.Result.PartialFrameworks,
		TaxonomyDegraded:  output.Result.TaxonomyDegraded,
		DurationMs:        output.Duration.Milliseconds(),
	})
}

// HandleResultGin возвращает полный результат запуска
// @Summary Получить результат запуска
// @Description Возвращает объединенные требования, матрицу трассируемости и отчет валидации по отпечатку запуска
// @Tags consolidation
// @Produce json
// @Param fingerprint path string true "Отпечаток запуска"
// @Success 200 {object} types.ResultResponse "Полный результат"
// @Failure 404 {object} types.ErrorResponse "Запуск не найден"
// @Router /api/consolidation/results/{fingerprint} [get]
func (h *ConsolidationHandler) HandleResultGin(c *gin.Context) {
	fingerprint := c.Param("fingerprint")

	output, found := h.orchestrator.CachedResult(fingerprint)
	if !found {
		appErr := apperrors.NewNotFoundError("запуск с таким отпечатком не найден", nil)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, types.ResultResponse{
		Result: output.Result,
		Report: output.Report,
	})
}

// HandleMatrixExportGin экспортирует матрицу трассируемости
// @Summary Экспортировать матрицу трассируемости
// @Description Отдает матрицу трассируемости запуска в формате json, csv или excel
// @Tags consolidation
// @Produce json
// @Param fingerprint path string true "Отпечаток запуска"
// @Param format query string false "Формат экспорта: json, csv, excel" default(json)
// @Success 200 {file} file "Файл матрицы"
// @Failure 400 {object} types.ErrorResponse "Неизвестный формат"
// @Failure 404 {object} types.ErrorResponse "Запуск не найден"
// @Router /api/consolidation/results/{fingerprint}/matrix [get]
func (h *ConsolidationHandler) HandleMatrixExportGin(c *gin.Context) {
	fingerprint := c.Param("fingerprint")

	output, found := h.orchestrator.CachedResult(fingerprint)
	if !found {
		appErr := apperrors.NewNotFoundError("запуск с таким отпечатком не найден", nil)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	exporter := consolidation.NewExporter(output.Result)
	format := c.DefaultQuery("format", "json")

	switch consolidation.ExportFormat(format) {
	case consolidation.FormatJSON:
		c.Header("Content-Type", "application/json")
		if err := exporter.WriteJSON(c.Writer); err != nil {
			SendJSONError(c, http.StatusInternalServerError, "не удалось сформировать JSON")
		}
	case consolidation.FormatCSV:
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="traceability_matrix.csv"`)
		if err := exporter.WriteMatrixCSV(c.Writer); err != nil {
			SendJSONError(c, http.StatusInternalServerError, "не удалось сформировать CSV")
		}
	case consolidation.FormatExcel:
		f, err := exporter.BuildExcel()
		if err != nil {
			appErr := apperrors.NewInternalError("failed to build Excel export", err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
			return
		}
		defer f.Close()
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="traceability_matrix.xlsx"`)
		if _, err := f.WriteTo(c.Writer); err != nil {
			SendJSONError(c, http.StatusInternalServerError, "не удалось записать Excel файл")
		}
	default:
		SendJSONError(c, http.StatusBadRequest, "неизвестный формат экспорта: "+format)
	}
}

// HandleReportGin отдает отчет валидации запуска
// @Summary Получить отчет валидации
// @Description Возвращает отчет валидации запуска плоским текстом или JSON
// @Tags consolidation
// @Produce json
// @Param fingerprint path string true "Отпечаток запуска"
// @Param format query string false "Формат отчета: json, text" default(json)
// @Success 200 {object} quality.ValidationReport "Отчет валидации"
// @Failure 404 {object} types.ErrorResponse "Запуск не найден"
// @Router /api/consolidation/results/{fingerprint}/report [get]
func (h *ConsolidationHandler) HandleReportGin(c *gin.Context) {
	fingerprint := c.Param("fingerprint")

	output, found := h.orchestrator.CachedResult(fingerprint)
	if !found {
		appErr := apperrors.NewNotFoundError("запуск с таким отпечатком не найден", nil)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "text":
		c.Header("Content-Type", "text/plain; charset=utf-8")
		if err := output.Report.WriteText(c.Writer); err != nil {
			SendJSONError(c, http.StatusInternalServerError, "не удалось сформировать отчет")
		}
	case "json":
		SendJSONResponse(c, http.StatusOK, output.Report)
	default:
		SendJSONError(c, http.StatusBadRequest, "неизвестный формат отчета")
	}
}

// HandleRunsGin возвращает журнал запусков организации
// @Summary Получить журнал запусков
// @Description Возвращает последние запуски консолидации организации
// @Tags consolidation
// @Produce json
// @Param organization_id query string true "Идентификатор организации"
// @Param limit query int false "Максимум записей" default(20)
// @Success 200 {object} types.RunsResponse "Журнал запусков"
// @Failure 400 {object} types.ErrorResponse "Неверный запрос"
// @Failure 500 {object} types.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/consolidation/runs [get]
func (h *ConsolidationHandler) HandleRunsGin(c *gin.Context) {
	organizationID := c.Query("organization_id")
	if organizationID == "" {
		SendJSONError(c, http.StatusBadRequest, "organization_id is required")
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			appErr := apperrors.NewValidationError("неверный формат limit", err)
			SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
			return
		}
		limit = parsed
	}

	runs, err := h.db.GetRecentRuns(organizationID, limit)
	if err != nil {
		appErr := apperrors.NewInternalError("failed to load consolidation runs", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, types.RunsResponse{
		OrganizationID: organizationID,
		Runs:           runs,
	})
}
