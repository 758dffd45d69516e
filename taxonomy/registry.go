package taxonomy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"sort"
)

// Provider источник конфигурации таксономии. Реализуется хранилищем
// конфигурации (database.TaxonomyDB); при его недоступности реестр
// переходит на встроенные шаблоны по умолчанию.
type Provider interface {
	// GetCategories возвращает упорядоченный список канонических категорий
	GetCategories(ctx context.Context) ([]CanonicalCategory, error)
}

// Registry реестр таксономии, доступный только для чтения.
// Загружается один раз на запуск консолидации: каждый запуск владеет
// собственным неизменяемым снимком категорий.
type Registry struct {
	categories  []CanonicalCategory
	byID        map[string]*CanonicalCategory
	version     string
	fingerprint string
	degraded    bool
}

// NewRegistry строит реестр из провайдера конфигурации.
// При ошибке загрузки возвращается реестр на встроенных шаблонах:
// это документированная деградация, а не тихая потеря данных.
func NewRegistry(ctx context.Context, provider Provider) *Registry {
	if provider != nil {
		categories, err := provider.GetCategories(ctx)
		if err == nil && len(categories) > 0 {
			return newRegistryFrom(categories, false)
		}
		if err != nil {
			log.Printf("[Taxonomy] WARN: configuration store unavailable, falling back to built-in templates: %v", err)
		} else {
			log.Printf("[Taxonomy] WARN: configuration store returned no categories, falling back to built-in templates")
		}
	}
	return newRegistryFrom(DefaultCategories(), true)
}

// NewStaticRegistry строит реестр из готового набора категорий (тесты,
// оффлайн-прогоны)
func NewStaticRegistry(categories []CanonicalCategory) *Registry {
	return newRegistryFrom(categories, false)
}

func newRegistryFrom(categories []CanonicalCategory, degraded bool) *Registry {
	reg := &Registry{
		categories:  categories,
		byID:        make(map[string]*CanonicalCategory, len(categories)),
		version:     KeywordTableVersion,
		fingerprint: contentFingerprint(categories),
		degraded:    degraded,
	}
	for i := range reg.categories {
		reg.byID[reg.categories[i].ID] = &reg.categories[i]
	}
	return reg
}

// contentFingerprint хеш фактически загруженной таблицы: категории,
// подразделы, заголовки и ключевые слова. Правка ключевых слов в
// хранилище меняет хеш даже при неизменном числе категорий.
func contentFingerprint(categories []CanonicalCategory) string {
	h := sha256.New()
	for _, category := range categories {
		io.WriteString(h, category.ID)
		io.WriteString(h, "|")
		io.WriteString(h, category.Name)
		io.WriteString(h, "\n")
		for _, subsection := range category.Subsections {
			fmt.Fprintf(h, "%s|%s|%s|%d", subsection.Letter, subsection.Topic, subsection.HeadingText, subsection.PriorityRank)
			for _, keyword := range subsection.Keywords {
				io.WriteString(h, "|")
				io.WriteString(h, keyword)
			}
			io.WriteString(h, "\n")
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetCategories возвращает упорядоченный список категорий
func (r *Registry) GetCategories() []CanonicalCategory {
	return r.categories
}

// GetCategory возвращает категорию по идентификатору
func (r *Registry) GetCategory(categoryID string) (*CanonicalCategory, error) {
	category, ok := r.byID[categoryID]
	if !ok {
		return nil, NewConfigurationError(categoryID, "unknown category id", nil)
	}
	if len(category.Subsections) == 0 {
		return nil, NewConfigurationError(categoryID, "category has no subsections", nil)
	}
	return category, nil
}

// GetSubsections возвращает подразделы категории в порядке букв
func (r *Registry) GetSubsections(categoryID string) ([]SubsectionTemplate, error) {
	category, err := r.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}
	subsections := make([]SubsectionTemplate, len(category.Subsections))
	copy(subsections, category.Subsections)
	sort.SliceStable(subsections, func(i, j int) bool {
		return subsections[i].Letter < subsections[j].Letter
	})
	return subsections, nil
}

// GetSubsectionsByPriority возвращает подразделы категории в порядке
// приоритета классификации (а не в порядке букв). Тема general всегда
// оказывается последней.
func (r *Registry) GetSubsectionsByPriority(categoryID string) ([]SubsectionTemplate, error) {
	subsections, err := r.GetSubsections(categoryID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subsections, func(i, j int) bool {
		return subsections[i].PriorityRank < subsections[j].PriorityRank
	})
	return subsections, nil
}

// Version возвращает версию таблицы ключевых слов реестра
func (r *Registry) Version() string {
	return r.version
}

// Degraded сообщает, работает ли реестр на встроенных шаблонах
// из-за недоступности хранилища конфигурации
func (r *Registry) Degraded() bool {
	return r.degraded
}

// Fingerprint компонент отпечатка запуска: хеш загруженной таблицы
// таксономии. Запуски по разным словарям никогда не делят кеш.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}
