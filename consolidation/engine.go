package consolidation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"complianceserver/taxonomy"
)

// FrameworkRequirementsDelimiter заголовок блока исходных требований
// внутри объединенного текста
const FrameworkRequirementsDelimiter = "Framework Requirements:"

// ConsolidationEngine сборка объединенного требования подраздела.
// Агрегация без потерь: исходный текст никогда не пересказывается и не
// переписывается, только конкатенируется с провенансом. Семантическое
// сжатие прозы — задача отдельного внешнего сервиса.
type ConsolidationEngine struct{}

// NewConsolidationEngine создает движок консолидации
func NewConsolidationEngine() *ConsolidationEngine {
	return &ConsolidationEngine{}
}

// Consolidate строит объединенное требование подраздела из закрепленных
// за ним требований. Пустой список allocated не порождает объединенного
// требования: подраздел остается шаблонным (вызывающая сторона не должна
// звать Consolidate для пустых подразделов). Отсутствие шаблона —
// ошибка конфигурации, подраздел никогда не синтезируется.
func (e *ConsolidationEngine) Consolidate(
	template *taxonomy.SubsectionTemplate,
	allocated []AllocatedRequirement,
) (*UnifiedRequirement, error) {
	if template == nil {
		return nil, taxonomy.NewConfigurationError("", "missing subsection template, refusing to synthesize one", nil)
	}
	if len(allocated) == 0 {
		return nil, fmt.Errorf("subsection %s/%s has no allocated requirements", template.CategoryID, template.Letter)
	}

	unified := &UnifiedRequirement{
		ID:               uuid.New().String(),
		CategoryID:       template.CategoryID,
		SubsectionLetter: template.Letter,
		HeadingText:      template.HeadingText,
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s) %s", template.Letter, template.HeadingText))
	builder.WriteString("\n\n")
	builder.WriteString(FrameworkRequirementsDelimiter)
	builder.WriteString("\n")

	// Дедупликация побайтно идентичного нормализованного текста:
	// строка пишется один раз, провенанс сохраняется для всех вкладчиков.
	seenText := make(map[string]bool, len(allocated))
	seenFramework := make(map[string]bool)

	for _, item := range allocated {
		requirement := item.Classified.Requirement
		unified.Provenance = append(unified.Provenance, requirement.ID)

		if !seenFramework[requirement.FrameworkName] {
			seenFramework[requirement.FrameworkName] = true
			unified.ContributingFrameworks = append(unified.ContributingFrameworks, requirement.FrameworkName)
		}

		if requirement.NotApplicable {
			unified.NotApplicable = true
			if requirement.Justification != "" {
				if unified.Justification != "" {
					unified.Justification += "; "
				}
				unified.Justification += requirement.Justification
			}
		}

		dedupKey := normalizeForMatching(requirement.Text())
		if dedupKey != "" && seenText[dedupKey] {
			continue
		}
		seenText[dedupKey] = true

		builder.WriteString(fmt.Sprintf("- [%s] %s (%s)\n",
			requirement.Code, requirement.Text(), requirement.FrameworkName))
	}

	unified.ConsolidatedText = builder.String()
	return unified, nil
}

// TemplateFallback строит объединенное требование из одного шаблонного
// текста после сбоя консолидации подраздела. Провенанс и метаданные
// вкладчиков сохраняются, чтобы матрица трассируемости осталась полной;
// валидатор помечает такой подраздел предупреждением.
func (e *ConsolidationEngine) TemplateFallback(
	template *taxonomy.SubsectionTemplate,
	allocated []AllocatedRequirement,
) *UnifiedRequirement {
	unified := &UnifiedRequirement{
		ID:               uuid.New().String(),
		CategoryID:       template.CategoryID,
		SubsectionLetter: template.Letter,
		HeadingText:      template.HeadingText,
		ConsolidatedText: fmt.Sprintf("%s) %s\n", template.Letter, template.HeadingText),
		TemplateOnly:     true,
	}

	seenFramework := make(map[string]bool)
	for _, item := range allocated {
		requirement := item.Classified.Requirement
		unified.Provenance = append(unified.Provenance, requirement.ID)

		if !seenFramework[requirement.FrameworkName] {
			seenFramework[requirement.FrameworkName] = true
			unified.ContributingFrameworks = append(unified.ContributingFrameworks, requirement.FrameworkName)
		}

		if requirement.NotApplicable {
			unified.NotApplicable = true
			if requirement.Justification != "" {
				if unified.Justification != "" {
					unified.Justification += "; "
				}
				unified.Justification += requirement.Justification
			}
		}
	}

	return unified
}
