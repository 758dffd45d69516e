package frameworks

import "context"

// Идентификаторы уровней внедрения (implementation groups) для каталогов
// контролей с профилями, например CIS Controls. Уровни вложены: IG1 ⊂ IG2 ⊂ IG3.
const (
	TierIG1 = "ig1"
	TierIG2 = "ig2"
	TierIG3 = "ig3"
)

// Framework именованный источник атомарных требований:
// стандарт, регламент или каталог контролей
type Framework struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	// Tiered признак каталога с уровневыми профилями (IG1/IG2/IG3)
	Tiered bool `json:"tiered"`
}

// FrameworkRequirement каноническое атомарное требование.
// Разнородные объекты требований из разных фреймворков нормализуются
// в эту структуру при загрузке, что исключает ветвление по форме
// объекта дальше по конвейеру.
type FrameworkRequirement struct {
	ID            string `json:"id"`
	FrameworkID   string `json:"framework_id"`
	FrameworkName string `json:"framework_name"`
	Code          string `json:"code"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	RawText       string `json:"raw_text"`
	// Tier уровень внедрения для каталогов с профилями, пустой для остальных
	Tier string `json:"tier,omitempty"`
	// Sectors отраслевые метки; пустой список означает "все отрасли"
	Sectors []string `json:"sectors,omitempty"`
	// NotApplicable и Justification метаданные неприменимости из
	// вышестоящей системы; проходят конвейер без изменений
	NotApplicable bool   `json:"not_applicable,omitempty"`
	Justification string `json:"justification,omitempty"`
}

// Text возвращает текст требования для классификации:
// заголовок и описание, либо сырой текст, если их нет
func (r *FrameworkRequirement) Text() string {
	if r.Title == "" && r.Description == "" {
		return r.RawText
	}
	if r.Description == "" {
		return r.Title
	}
	if r.Title == "" {
		return r.Description
	}
	return r.Title + ". " + r.Description
}

// RequirementFilter фильтры входного набора требований.
// Не меняют алгоритм консолидации, только сужают вход.
type RequirementFilter struct {
	// Tier выбранный уровень внедрения (ig1/ig2/ig3), пусто — без фильтра
	Tier string `json:"tier,omitempty"`
	// Sector отраслевой фильтр, пусто — без фильтра
	Sector string `json:"sector,omitempty"`
}

// Provider внешний источник требований фреймворка.
// Источники независимы: отказ одного фреймворка не блокирует остальные.
type Provider interface {
	// GetFrameworks возвращает известные фреймворки
	GetFrameworks(ctx context.Context) ([]Framework, error)
	// GetRequirements возвращает упорядоченный список требований фреймворка
	GetRequirements(ctx context.Context, frameworkID string) ([]FrameworkRequirement, error)
}

// tierRank ранг уровня внедрения для проверки вложенности профилей
func tierRank(tier string) int {
	switch tier {
	case TierIG1:
		return 1
	case TierIG2:
		return 2
	case TierIG3:
		return 3
	default:
		return 0
	}
}

// MatchesFilter проверяет, проходит ли требование фильтры входного набора.
// Требование без уровня проходит любой tier-фильтр; требование уровня IG2
// входит в профили IG2 и IG3, но не в IG1.
func (r *FrameworkRequirement) MatchesFilter(filter RequirementFilter) bool {
	if filter.Tier != "" && r.Tier != "" {
		if tierRank(r.Tier) > tierRank(filter.Tier) {
			return false
		}
	}
	if filter.Sector != "" && len(r.Sectors) > 0 {
		found := false
		for _, sector := range r.Sectors {
			if sector == filter.Sector {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ApplyFilter возвращает требования, проходящие фильтры, с сохранением порядка
func ApplyFilter(requirements []FrameworkRequirement, filter RequirementFilter) []FrameworkRequirement {
	if filter.Tier == "" && filter.Sector == "" {
		return requirements
	}
	filtered := make([]FrameworkRequirement, 0, len(requirements))
	for _, req := range requirements {
		if req.MatchesFilter(filter) {
			filtered = append(filtered, req)
		}
	}
	return filtered
}
