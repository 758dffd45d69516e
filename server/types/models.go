package types

import (
	"complianceserver/consolidation"
	"complianceserver/database"
	"complianceserver/quality"
)

// ConsolidateRequest тело запроса на запуск консолидации
type ConsolidateRequest struct {
	OrganizationID string   `json:"organization_id" binding:"required"`
	FrameworkIDs   []string `json:"framework_ids"`
	// Tier уровень внедрения (ig1/ig2/ig3), пусто — все требования
	Tier string `json:"tier,omitempty"`
	// Sector отраслевой фильтр, пусто — без фильтра
	Sector string `json:"sector,omitempty"`
}

// ConsolidateResponse сводка завершенного запуска; полный результат
// доступен по отпечатку
type ConsolidateResponse struct {
	Fingerprint       string              `json:"fingerprint"`
	FromCache         bool                `json:"from_cache"`
	Stats             consolidation.Stats `json:"stats"`
	Valid             bool                `json:"valid"`
	OverallScore      float64             `json:"overall_score"`
	CriticalIssues    int                 `json:"critical_issues"`
	PartialFrameworks []string            `json:"partial_frameworks,omitempty"`
	TaxonomyDegraded  bool                `json:"taxonomy_degraded,omitempty"`
	DurationMs        int64               `json:"duration_ms"`
}

// ResultResponse полный результат запуска с отчетом валидации
type ResultResponse struct {
	Result *consolidation.ConsolidationResult `json:"result"`
	Report *quality.ValidationReport          `json:"report"`
}

// RunsResponse журнал последних запусков организации
type RunsResponse struct {
	OrganizationID string               `json:"organization_id"`
	Runs           []database.RunRecord `json:"runs"`
}

// CategorySummary категория таксономии для инспекции
type CategorySummary struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Subsections []SubsectionSummary  `json:"subsections"`
}

// SubsectionSummary подраздел категории для инспекции
type SubsectionSummary struct {
	Letter       string   `json:"letter"`
	HeadingText  string   `json:"heading_text"`
	Topic        string   `json:"topic"`
	Keywords     []string `json:"keywords,omitempty"`
	PriorityRank int      `json:"priority_rank"`
}

// TaxonomyResponse снимок таксономии
type TaxonomyResponse struct {
	Version    string            `json:"version"`
	Degraded   bool              `json:"degraded"`
	Categories []CategorySummary `json:"categories"`
}

// HealthResponse состояние сервера
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	CachedRuns  int    `json:"cached_runs"`
	Version     string `json:"version"`
}

// ErrorResponse стандартный формат ошибки API
type ErrorResponse struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
