package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "complianceserver/server/errors"
	"complianceserver/server/types"
	"complianceserver/taxonomy"
)

// TaxonomyHandler обработчики инспекции таксономии
type TaxonomyHandler struct {
	provider taxonomy.Provider
}

// NewTaxonomyHandler создает обработчик таксономии
func NewTaxonomyHandler(provider taxonomy.Provider) *TaxonomyHandler {
	return &TaxonomyHandler{provider: provider}
}

// HandleCategoriesGin возвращает снимок таксономии
// @Summary Получить таксономию
// @Description Возвращает канонические категории с подразделами, ключевыми словами и приоритетами классификации
// @Tags taxonomy
// @Produce json
// @Success 200 {object} types.TaxonomyResponse "Снимок таксономии"
// @Router /api/taxonomy/categories [get]
func (h *TaxonomyHandler) HandleCategoriesGin(c *gin.Context) {
	registry := taxonomy.NewRegistry(c.Request.Context(), h.provider)

	response := types.TaxonomyResponse{
		Version:  registry.Version(),
		Degraded: registry.Degraded(),
	}
	for _, category := range registry.GetCategories() {
		response.Categories = append(response.Categories, toCategorySummary(category))
	}

	SendJSONResponse(c, http.StatusOK, response)
}

// HandleSubsectionsGin возвращает подразделы одной категории
// @Summary Получить подразделы категории
// @Description Возвращает подразделы категории в порядке букв
// @Tags taxonomy
// @Produce json
// @Param id path string true "Идентификатор категории"
// @Success 200 {object} types.CategorySummary "Категория с подразделами"
// @Failure 422 {object} types.ErrorResponse "Неизвестная категория"
// @Router /api/taxonomy/categories/{id} [get]
func (h *TaxonomyHandler) HandleSubsectionsGin(c *gin.Context) {
	registry := taxonomy.NewRegistry(c.Request.Context(), h.provider)

	category, err := registry.GetCategory(c.Param("id"))
	if err != nil {
		appErr := apperrors.FromError(err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	SendJSONResponse(c, http.StatusOK, toCategorySummary(*category))
}

func toCategorySummary(category taxonomy.CanonicalCategory) types.CategorySummary {
	summary := types.CategorySummary{ID: category.ID, Name: category.Name}
	for _, subsection := range category.Subsections {
		summary.Subsections = append(summary.Subsections, types.SubsectionSummary{
			Letter:       subsection.Letter,
			HeadingText:  subsection.HeadingText,
			Topic:        subsection.Topic,
			Keywords:     subsection.Keywords,
			PriorityRank: subsection.PriorityRank,
		})
	}
	return summary
}
