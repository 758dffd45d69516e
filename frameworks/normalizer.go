package frameworks

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer нормализатор разнородных записей требований.
// Внешние реестры отдают требования в произвольной форме (разные имена
// полей, разные кодировки пробелов и юникод-композиции); нормализатор
// приводит их к канонической структуре FrameworkRequirement.
type Normalizer struct {
	folder cases.Caser
}

// NewNormalizer создает нормализатор записей требований
func NewNormalizer() *Normalizer {
	return &Normalizer{folder: cases.Fold()}
}

// Альтернативные имена полей в записях внешних реестров.
// Порядок важен: берется первое заполненное поле.
var (
	codeFields        = []string{"control_id", "code", "requirement_code", "ref"}
	titleFields       = []string{"title", "name", "summary"}
	descriptionFields = []string{"description", "text", "details", "requirement_text"}
	rawTextFields     = []string{"raw_text", "raw", "original_text"}
	tierFields        = []string{"tier", "implementation_group", "ig"}
	idFields          = []string{"id", "requirement_id", "uuid"}
)

// NormalizeRecord приводит произвольную запись реестра к каноническому
// требованию. Запись без кода и без текста считается некорректной.
func (n *Normalizer) NormalizeRecord(framework Framework, record map[string]interface{}) (FrameworkRequirement, error) {
	req := FrameworkRequirement{
		FrameworkID:   framework.ID,
		FrameworkName: framework.Name,
	}

	req.ID = n.firstString(record, idFields)
	req.Code = n.CleanText(n.firstString(record, codeFields))
	req.Title = n.CleanText(n.firstString(record, titleFields))
	req.Description = n.CleanText(n.firstString(record, descriptionFields))
	req.RawText = n.CleanText(n.firstString(record, rawTextFields))
	req.Tier = normalizeTier(n.firstString(record, tierFields))

	if sectors, ok := record["sectors"].([]interface{}); ok {
		for _, s := range sectors {
			if str, ok := s.(string); ok && str != "" {
				req.Sectors = append(req.Sectors, strings.ToLower(strings.TrimSpace(str)))
			}
		}
	}

	if na, ok := record["not_applicable"].(bool); ok {
		req.NotApplicable = na
	}
	if justification, ok := record["justification"].(string); ok {
		req.Justification = strings.TrimSpace(justification)
	}

	if req.ID == "" {
		req.ID = fmt.Sprintf("%s:%s", framework.ID, req.Code)
	}
	if req.Code == "" && req.Title == "" && req.Description == "" && req.RawText == "" {
		return FrameworkRequirement{}, fmt.Errorf("requirement record for framework %s has no code and no text", framework.ID)
	}

	return req, nil
}

// NormalizeBatch нормализует пакет записей, пропуская некорректные.
// Возвращает требования в порядке исходного пакета и число пропусков.
func (n *Normalizer) NormalizeBatch(framework Framework, records []map[string]interface{}) ([]FrameworkRequirement, int) {
	requirements := make([]FrameworkRequirement, 0, len(records))
	skipped := 0
	for _, record := range records {
		req, err := n.NormalizeRecord(framework, record)
		if err != nil {
			skipped++
			continue
		}
		requirements = append(requirements, req)
	}
	return requirements, skipped
}

// CleanText нормализует текст требования: NFKC-композиция,
// схлопывание пробельных последовательностей, обрезка краев.
// Регистр не меняется: текст требования должен сохраниться дословно.
func (n *Normalizer) CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	return strings.Join(strings.Fields(text), " ")
}

// FoldForMatching приводит текст к форме для сопоставления ключевых слов:
// NFKC + case folding. Используется классификатором, не меняет исходный текст.
func (n *Normalizer) FoldForMatching(text string) string {
	return n.folder.String(norm.NFKC.String(text))
}

func (n *Normalizer) firstString(record map[string]interface{}, fields []string) string {
	for _, field := range fields {
		if value, ok := record[field]; ok {
			switch v := value.(type) {
			case string:
				if strings.TrimSpace(v) != "" {
					return v
				}
			case float64:
				return fmt.Sprintf("%v", v)
			case int:
				return fmt.Sprintf("%d", v)
			}
		}
	}
	return ""
}

// normalizeTier приводит обозначение уровня внедрения к каноническому виду
func normalizeTier(tier string) string {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "ig1", "1":
		return TierIG1
	case "ig2", "2":
		return TierIG2
	case "ig3", "3":
		return TierIG3
	default:
		return ""
	}
}
