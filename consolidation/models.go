package consolidation

import (
	"complianceserver/frameworks"
)

// MappingType тип сопоставления исходного требования с объединенным
type MappingType string

const (
	// MappingDirect требование — первый первичный вкладчик подраздела,
	// попавший туда по явному совпадению ключевых слов (проход 1)
	MappingDirect MappingType = "DIRECT"
	// MappingPartial требование делит подраздел с другими первичными
	// вкладчиками прохода 1
	MappingPartial MappingType = "PARTIAL"
	// MappingDerived требование попало в подраздел через переливание
	// излишков или корзину general (проход 2), а не по ключевым словам
	MappingDerived MappingType = "DERIVED"
	// MappingNone защитный путь: классификация не дала подраздела.
	// При корректных входных данных недостижим (general всегда
	// подхватывает); любое появление — проблема качества данных.
	MappingNone MappingType = "NO_MAPPING"
)

// Константы уверенности классификатора. Порядок строгий:
// попадание по ключевым словам всегда выше отката в general.
const (
	ConfidenceKeywordHit = 1.0
	ConfidenceFallback   = 0.5
	ConfidenceEmptyText  = 0.0
)

// ClassifiedRequirement требование с назначенным подразделом.
// Эфемерный объект: живет только внутри одного запуска консолидации.
type ClassifiedRequirement struct {
	Requirement       frameworks.FrameworkRequirement
	SubsectionLetter  string
	Confidence        float64
	MatchedByKeyword  bool
	MatchedKeyword    string
	SubmissionOrdinal int
}

// AllocationPass проход аллокатора, на котором требование получило подраздел
type AllocationPass int

const (
	// PassPrimary жадный проход 1: первичные вкладчики до лимита
	PassPrimary AllocationPass = 1
	// PassOverflow проход 2: переливание излишков round-robin
	PassOverflow AllocationPass = 2
)

// AllocatedRequirement требование, закрепленное за подразделом
type AllocatedRequirement struct {
	Classified ClassifiedRequirement
	Pass       AllocationPass
	// ArrivalIndex порядковый номер прибытия в подраздел, с единицы
	ArrivalIndex int
}

// Allocation результат двухпроходного распределения требований
// по подразделам одной категории
type Allocation struct {
	CategoryID string
	// Buckets требования по буквам подразделов, в порядке прибытия
	Buckets map[string][]AllocatedRequirement
	// Letters буквы подразделов в порядке шаблонов категории
	Letters []string
}

// BucketSize возвращает занятость подраздела
func (a *Allocation) BucketSize(letter string) int {
	return len(a.Buckets[letter])
}

// TotalAllocated возвращает суммарное число распределенных требований
func (a *Allocation) TotalAllocated() int {
	total := 0
	for _, bucket := range a.Buckets {
		total += len(bucket)
	}
	return total
}

// UnifiedRequirement объединенное требование одного занятого подраздела
type UnifiedRequirement struct {
	ID               string `json:"id"`
	CategoryID       string `json:"category_id"`
	SubsectionLetter string `json:"subsection_letter"`
	HeadingText      string `json:"heading_text"`
	ConsolidatedText string `json:"consolidated_text"`
	// Provenance идентификаторы всех исходных требований, свернутых сюда
	Provenance []string `json:"provenance"`
	// ContributingFrameworks имена фреймворков-вкладчиков в порядке выбора
	ContributingFrameworks []string `json:"contributing_frameworks"`
	// NotApplicable и Justification метаданные неприменимости,
	// унаследованные от исходных требований без изменений
	NotApplicable bool   `json:"not_applicable,omitempty"`
	Justification string `json:"justification,omitempty"`
	// TemplateOnly подраздел собран откатом на шаблонный текст после
	// сбоя консолидации; исходные тексты в ConsolidatedText не вошли
	TemplateOnly bool `json:"template_only,omitempty"`
}

// MappingEntry строка матрицы трассируемости
type MappingEntry struct {
	FrameworkID            string      `json:"framework_id"`
	FrameworkRequirementID string      `json:"framework_requirement_id"`
	RequirementCode        string      `json:"requirement_code"`
	UnifiedRequirementID   string      `json:"unified_requirement_id,omitempty"`
	CategoryID             string      `json:"category_id"`
	SubsectionLetter       string      `json:"subsection_letter,omitempty"`
	MappingType            MappingType `json:"mapping_type"`
	Confidence             float64     `json:"confidence"`
}

// Stats агрегированная статистика запуска консолидации
type Stats struct {
	TotalOriginal  int     `json:"total_original"`
	TotalUnified   int     `json:"total_unified"`
	ReductionRatio float64 `json:"reduction_ratio"`
}

// ConsolidationResult полный результат запуска для слоя представления
type ConsolidationResult struct {
	OrganizationID string               `json:"organization_id"`
	Fingerprint    string               `json:"fingerprint"`
	FrameworkIDs   []string             `json:"framework_ids"`
	Categories     []UnifiedRequirement `json:"categories"`
	Matrix         []MappingEntry       `json:"matrix"`
	Stats          Stats                `json:"stats"`
	// PartialFrameworks фреймворки, чьи требования не удалось получить
	// после повторных попыток; запуск продолжен без них
	PartialFrameworks []string `json:"partial_frameworks,omitempty"`
	// TaxonomyDegraded признак работы на встроенных шаблонах таксономии
	TaxonomyDegraded bool `json:"taxonomy_degraded,omitempty"`
}

// UnifiedByID возвращает объединенное требование по идентификатору
func (r *ConsolidationResult) UnifiedByID(id string) (*UnifiedRequirement, bool) {
	for i := range r.Categories {
		if r.Categories[i].ID == id {
			return &r.Categories[i], true
		}
	}
	return nil, false
}
