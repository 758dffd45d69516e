package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complianceserver/frameworks"
	apperrors "complianceserver/server/errors"
)

// FrameworksHandler обработчики каталога фреймворков
type FrameworksHandler struct {
	provider frameworks.Provider
}

// NewFrameworksHandler создает обработчик каталога фреймворков
func NewFrameworksHandler(provider frameworks.Provider) *FrameworksHandler {
	return &FrameworksHandler{provider: provider}
}

// HandleListGin возвращает известные фреймворки
// @Summary Получить список фреймворков
// @Description Возвращает фреймворки, доступные для консолидации
// @Tags frameworks
// @Produce json
// @Success 200 {array} frameworks.Framework "Список фреймворков"
// @Failure 500 {object} types.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/frameworks [get]
func (h *FrameworksHandler) HandleListGin(c *gin.Context) {
	list, err := h.provider.GetFrameworks(c.Request.Context())
	if err != nil {
		appErr := apperrors.NewInternalError("failed to load frameworks", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, list)
}

// HandleRequirementsGin возвращает требования фреймворка
// @Summary Получить требования фреймворка
// @Description Возвращает упорядоченный список нормализованных требований фреймворка, с опциональными фильтрами уровня и отрасли
// @Tags frameworks
// @Produce json
// @Param id path string true "Идентификатор фреймворка"
// @Param tier query string false "Уровень внедрения: ig1, ig2, ig3"
// @Param sector query string false "Отраслевой фильтр"
// @Success 200 {array} frameworks.FrameworkRequirement "Требования фреймворка"
// @Failure 404 {object} types.ErrorResponse "Фреймворк не найден"
// @Router /api/frameworks/{id}/requirements [get]
func (h *FrameworksHandler) HandleRequirementsGin(c *gin.Context) {
	requirements, err := h.provider.GetRequirements(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := apperrors.NewNotFoundError("фреймворк не найден", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	filter := frameworks.RequirementFilter{
		Tier:   c.Query("tier"),
		Sector: c.Query("sector"),
	}
	SendJSONResponse(c, http.StatusOK, frameworks.ApplyFilter(requirements, filter))
}
