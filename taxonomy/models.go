package taxonomy

import "fmt"

// SubsectionTemplate шаблон подраздела канонической категории.
// Конфигурационные данные: буква, заголовок, набор ключевых слов и
// приоритет классификации. Логика подбора живет в пакете consolidation.
type SubsectionTemplate struct {
	CategoryID   string   `json:"category_id"`
	Letter       string   `json:"letter"`
	HeadingText  string   `json:"heading_text"`
	Topic        string   `json:"topic"`
	Keywords     []string `json:"keywords"`
	PriorityRank int      `json:"priority_rank"`
}

// CanonicalCategory каноническая категория соответствия с упорядоченным
// списком подразделов
type CanonicalCategory struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Subsections []SubsectionTemplate `json:"subsections"`
}

// SubsectionByLetter возвращает шаблон подраздела по букве
func (c *CanonicalCategory) SubsectionByLetter(letter string) (*SubsectionTemplate, bool) {
	for i := range c.Subsections {
		if c.Subsections[i].Letter == letter {
			return &c.Subsections[i], true
		}
	}
	return nil, false
}

// ConfigurationError ошибка конфигурации таксономии.
// Фатальна для текущего запуска: вызывающая сторона должна исправить
// конфигурацию и повторить запуск.
type ConfigurationError struct {
	CategoryID string
	Reason     string
	Err        error
}

// Error реализует интерфейс error
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("taxonomy configuration error for category %q: %s: %v", e.CategoryID, e.Reason, e.Err)
	}
	return fmt.Sprintf("taxonomy configuration error for category %q: %s", e.CategoryID, e.Reason)
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError создает ошибку конфигурации таксономии
func NewConfigurationError(categoryID, reason string, err error) *ConfigurationError {
	return &ConfigurationError{CategoryID: categoryID, Reason: reason, Err: err}
}
