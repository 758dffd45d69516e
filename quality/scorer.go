package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"complianceserver/consolidation"
	"complianceserver/frameworks"
)

// Severity серьезность проблемы валидации
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue проблема, найденная валидацией запуска консолидации
type Issue struct {
	Severity      Severity `json:"severity"`
	Category      string   `json:"category"`
	Message       string   `json:"message"`
	AffectedCount int      `json:"affected_count"`
	SuggestedFix  string   `json:"suggested_fix,omitempty"`
}

// ClassScore счет сохранности одного класса деталей
type ClassScore struct {
	Total     int     `json:"total"`
	Preserved int     `json:"preserved"`
	Score     float64 `json:"score"`
}

// DetailPreservation сохранность деталей по классам.
// Классы timeframes, named_authorities и numeric_values обязаны
// держать 100%: любая потеря — critical, без смягчений.
type DetailPreservation struct {
	Classes      map[DetailClass]ClassScore `json:"classes"`
	OverallScore float64                    `json:"overall_score"`
}

// StructuralIntegrity структурная целостность результата
type StructuralIntegrity struct {
	LetterOrderPreserved bool    `json:"letter_order_preserved"`
	NoDuplicateLetters   bool    `json:"no_duplicate_letters"`
	HeadingsReferenced   bool    `json:"headings_referenced"`
	Score                float64 `json:"score"`
}

// ComplianceIntegrity целостность комплаенс-метаданных
type ComplianceIntegrity struct {
	FrameworksCovered bool    `json:"frameworks_covered"`
	MetadataPreserved bool    `json:"metadata_preserved"`
	Score             float64 `json:"score"`
}

// QualityMetrics метрики качества консолидированного текста
type QualityMetrics struct {
	// TextReductionPercent процент сокращения текста, всегда >= 0
	TextReductionPercent float64 `json:"text_reduction_percent"`
	// ReadabilityScore эвристика читаемости по средней длине предложения
	ReadabilityScore float64 `json:"readability_score"`
	// LengthVariance дисперсия длин подразделов внутри категории
	LengthVariance   map[string]float64 `json:"length_variance"`
	ConsistencyScore float64            `json:"consistency_score"`
}

// ValidationReport итоговый отчет валидации запуска консолидации
type ValidationReport struct {
	OverallScore        float64             `json:"overall_score"`
	Valid               bool                `json:"valid"`
	DetailPreservation  DetailPreservation  `json:"detail_preservation"`
	StructuralIntegrity StructuralIntegrity `json:"structural_integrity"`
	ComplianceIntegrity ComplianceIntegrity `json:"compliance_integrity"`
	QualityMetrics      QualityMetrics      `json:"quality_metrics"`
	Issues              []Issue             `json:"issues"`
	Recommendations     []string            `json:"recommendations"`
}

// CriticalIssueCount возвращает число critical проблем
func (r *ValidationReport) CriticalIssueCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			count++
		}
	}
	return count
}

// ValidationScorer проверка результата консолидации: сохранность
// деталей, структурная и комплаенс-целостность, метрики качества.
// Валидация никогда не фатальна: результат возвращается всегда,
// проблемы только помечают его для проверки человеком.
type ValidationScorer struct{}

// NewValidationScorer создает валидатор результатов консолидации
func NewValidationScorer() *ValidationScorer {
	return &ValidationScorer{}
}

// Score строит полный отчет валидации для результата запуска.
// sources — все исходные требования, поданные в запуск.
func (s *ValidationScorer) Score(
	result *consolidation.ConsolidationResult,
	sources []frameworks.FrameworkRequirement,
) *ValidationReport {
	report := &ValidationReport{}

	sourceByID := make(map[string]frameworks.FrameworkRequirement, len(sources))
	for _, src := range sources {
		sourceByID[src.ID] = src
	}

	report.DetailPreservation = s.scoreDetailPreservation(result, sourceByID, report)
	report.StructuralIntegrity = s.scoreStructuralIntegrity(result, report)
	report.ComplianceIntegrity = s.scoreComplianceIntegrity(result, sourceByID, report)
	report.QualityMetrics = s.scoreQualityMetrics(result, sourceByID)
	s.checkMatrix(result, report)
	s.checkFallbacks(result, report)

	report.OverallScore = 0.4*report.DetailPreservation.OverallScore +
		0.2*report.StructuralIntegrity.Score +
		0.2*report.ComplianceIntegrity.Score +
		0.2*report.QualityMetrics.ConsistencyScore

	report.Valid = report.DetailPreservation.OverallScore == 100 && report.CriticalIssueCount() == 0
	report.Recommendations = s.buildRecommendations(result, report)

	return report
}

// scoreDetailPreservation проверяет, что каждый токен деталей исходного
// текста дословно присутствует в консолидированном тексте своего
// подраздела. Проверяется, не предполагается.
func (s *ValidationScorer) scoreDetailPreservation(
	result *consolidation.ConsolidationResult,
	sourceByID map[string]frameworks.FrameworkRequirement,
	report *ValidationReport,
) DetailPreservation {
	preservation := DetailPreservation{Classes: make(map[DetailClass]ClassScore, len(DetailClasses))}
	lostByClass := make(map[DetailClass]int)

	for _, class := range DetailClasses {
		preservation.Classes[class] = ClassScore{Score: 100}
	}

	for _, unified := range result.Categories {
		if unified.TemplateOnly {
			// Откат на шаблонный текст: исходники не сливались,
			// дословная проверка неприменима; checkFallbacks помечает
			// подраздел предупреждением
			continue
		}
		for _, sourceID := range unified.Provenance {
			source, found := sourceByID[sourceID]
			if !found {
				continue
			}
			for class, tokens := range ExtractDetails(source.Text()) {
				score := preservation.Classes[class]
				for _, token := range tokens {
					score.Total++
					if ContainsVerbatim(unified.ConsolidatedText, token) {
						score.Preserved++
					} else {
						lostByClass[class]++
					}
				}
				preservation.Classes[class] = score
			}
		}
	}

	sumScore := 0.0
	for _, class := range DetailClasses {
		score := preservation.Classes[class]
		if score.Total > 0 {
			score.Score = 100 * float64(score.Preserved) / float64(score.Total)
		}
		preservation.Classes[class] = score
		sumScore += score.Score

		if lost := lostByClass[class]; lost > 0 {
			severity := SeverityWarning
			if CriticalDetailClasses[class] {
				// Потеря чисел, органов или сроков не смягчается никогда
				severity = SeverityCritical
			}
			report.Issues = append(report.Issues, Issue{
				Severity:      severity,
				Category:      "detail_preservation",
				Message:       fmt.Sprintf("%d %s token(s) from source requirements are missing from consolidated text", lost, class),
				AffectedCount: lost,
				SuggestedFix:  "review the consolidation output of the affected subsections manually",
			})
		}
	}
	preservation.OverallScore = sumScore / float64(len(DetailClasses))

	return preservation
}

func (s *ValidationScorer) scoreStructuralIntegrity(
	result *consolidation.ConsolidationResult,
	report *ValidationReport,
) StructuralIntegrity {
	integrity := StructuralIntegrity{
		LetterOrderPreserved: true,
		NoDuplicateLetters:   true,
		HeadingsReferenced:   true,
	}

	lettersByCategory := make(map[string][]string)
	for _, unified := range result.Categories {
		lettersByCategory[unified.CategoryID] = append(lettersByCategory[unified.CategoryID], unified.SubsectionLetter)

		if unified.HeadingText != "" && !strings.Contains(unified.ConsolidatedText, unified.HeadingText) {
			integrity.HeadingsReferenced = false
			report.Issues = append(report.Issues, Issue{
				Severity:      SeverityWarning,
				Category:      "structural_integrity",
				Message:       fmt.Sprintf("unified requirement %s does not reference its template heading", unified.ID),
				AffectedCount: 1,
			})
		}
	}

	for categoryID, letters := range lettersByCategory {
		if !sort.StringsAreSorted(letters) {
			integrity.LetterOrderPreserved = false
			report.Issues = append(report.Issues, Issue{
				Severity:      SeverityWarning,
				Category:      "structural_integrity",
				Message:       fmt.Sprintf("subsection letters of category %s are out of order", categoryID),
				AffectedCount: len(letters),
			})
		}
		seen := make(map[string]bool, len(letters))
		for _, letter := range letters {
			if seen[letter] {
				integrity.NoDuplicateLetters = false
				report.Issues = append(report.Issues, Issue{
					Severity:      SeverityCritical,
					Category:      "structural_integrity",
					Message:       fmt.Sprintf("duplicate subsection letter %s in category %s", letter, categoryID),
					AffectedCount: 1,
				})
			}
			seen[letter] = true
		}
	}

	passed := 0
	for _, ok := range []bool{integrity.LetterOrderPreserved, integrity.NoDuplicateLetters, integrity.HeadingsReferenced} {
		if ok {
			passed++
		}
	}
	integrity.Score = 100 * float64(passed) / 3

	return integrity
}

// scoreComplianceIntegrity проверяет, что каждый фреймворк-вкладчик
// категории виден в ее тексте и что метаданные неприменимости
// дошли без изменений
func (s *ValidationScorer) scoreComplianceIntegrity(
	result *consolidation.ConsolidationResult,
	sourceByID map[string]frameworks.FrameworkRequirement,
	report *ValidationReport,
) ComplianceIntegrity {
	integrity := ComplianceIntegrity{FrameworksCovered: true, MetadataPreserved: true}

	for _, unified := range result.Categories {
		for _, sourceID := range unified.Provenance {
			source, found := sourceByID[sourceID]
			if !found {
				continue
			}
			if source.FrameworkName != "" && !unified.TemplateOnly && !strings.Contains(unified.ConsolidatedText, source.FrameworkName) {
				integrity.FrameworksCovered = false
				report.Issues = append(report.Issues, Issue{
					Severity:      SeverityWarning,
					Category:      "compliance_integrity",
					Message:       fmt.Sprintf("framework %s contributed to %s/%s but is absent from its text block", source.FrameworkName, unified.CategoryID, unified.SubsectionLetter),
					AffectedCount: 1,
				})
			}
			if source.NotApplicable {
				if !unified.NotApplicable || (source.Justification != "" && !strings.Contains(unified.Justification, source.Justification)) {
					integrity.MetadataPreserved = false
					report.Issues = append(report.Issues, Issue{
						Severity:      SeverityCritical,
						Category:      "compliance_integrity",
						Message:       fmt.Sprintf("applicability metadata of requirement %s was not carried into %s/%s", source.ID, unified.CategoryID, unified.SubsectionLetter),
						AffectedCount: 1,
						SuggestedFix:  "re-run the consolidation; applicability justifications must survive unchanged",
					})
				}
			}
		}
	}

	passed := 0
	for _, ok := range []bool{integrity.FrameworksCovered, integrity.MetadataPreserved} {
		if ok {
			passed++
		}
	}
	integrity.Score = 100 * float64(passed) / 2

	return integrity
}

func (s *ValidationScorer) scoreQualityMetrics(
	result *consolidation.ConsolidationResult,
	sourceByID map[string]frameworks.FrameworkRequirement,
) QualityMetrics {
	metrics := QualityMetrics{LengthVariance: make(map[string]float64)}

	totalSource := 0
	totalConsolidated := 0
	lengthsByCategory := make(map[string][]float64)
	for _, unified := range result.Categories {
		totalConsolidated += len(unified.ConsolidatedText)
		lengthsByCategory[unified.CategoryID] = append(lengthsByCategory[unified.CategoryID], float64(len(unified.ConsolidatedText)))
		for _, sourceID := range unified.Provenance {
			if source, found := sourceByID[sourceID]; found {
				totalSource += len(source.Text())
			}
		}
	}

	if totalSource > 0 {
		reduction := 1 - float64(totalConsolidated)/float64(totalSource)
		if reduction < 0 {
			// Консолидация добавляет заголовки и провенанс: текст может
			// вырасти, но отрицательное сокращение не отчитывается
			reduction = 0
		}
		metrics.TextReductionPercent = 100 * reduction
	}

	metrics.ReadabilityScore = readabilityScore(result)

	variances := 0.0
	for categoryID, lengths := range lengthsByCategory {
		metrics.LengthVariance[categoryID] = variance(lengths)
		variances += normalizedConsistency(lengths)
	}
	if len(lengthsByCategory) > 0 {
		metrics.ConsistencyScore = 100 * variances / float64(len(lengthsByCategory))
	} else {
		metrics.ConsistencyScore = 100
	}

	return metrics
}

// checkMatrix помечает защитные пути матрицы: NO_MAPPING при корректном
// входе недостижим, любое появление — проблема качества данных
func (s *ValidationScorer) checkMatrix(result *consolidation.ConsolidationResult, report *ValidationReport) {
	noMapping := 0
	for _, entry := range result.Matrix {
		if entry.MappingType == consolidation.MappingNone {
			noMapping++
		}
	}
	if noMapping > 0 {
		report.Issues = append(report.Issues, Issue{
			Severity:      SeverityCritical,
			Category:      "traceability",
			Message:       fmt.Sprintf("%d requirement(s) received NO_MAPPING", noMapping),
			AffectedCount: noMapping,
			SuggestedFix:  "inspect source requirement data; the general fallback should make this unreachable",
		})
	}
}

// checkFallbacks помечает подразделы, собранные откатом на шаблонный
// текст после сбоя консолидации. Сбой изолирован и не фатален:
// предупреждение, не critical
func (s *ValidationScorer) checkFallbacks(result *consolidation.ConsolidationResult, report *ValidationReport) {
	for _, unified := range result.Categories {
		if !unified.TemplateOnly {
			continue
		}
		report.Issues = append(report.Issues, Issue{
			Severity:      SeverityWarning,
			Category:      "consolidation",
			Message:       fmt.Sprintf("subsection %s/%s fell back to template-only text; source requirements were not merged", unified.CategoryID, unified.SubsectionLetter),
			AffectedCount: len(unified.Provenance),
			SuggestedFix:  "re-run the consolidation for the affected category",
		})
	}
}

func (s *ValidationScorer) buildRecommendations(result *consolidation.ConsolidationResult, report *ValidationReport) []string {
	var recommendations []string

	derived := 0
	for _, entry := range result.Matrix {
		if entry.MappingType == consolidation.MappingDerived {
			derived++
		}
	}
	if len(result.Matrix) > 0 && float64(derived)/float64(len(result.Matrix)) > 0.5 {
		recommendations = append(recommendations,
			"more than half of the requirements were placed by overflow drain; extend the keyword table to improve direct classification")
	}
	if len(result.PartialFrameworks) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("frameworks %s could not be fetched; re-run once their providers recover", strings.Join(result.PartialFrameworks, ", ")))
	}
	if result.TaxonomyDegraded {
		recommendations = append(recommendations,
			"the run used the built-in default taxonomy; restore the taxonomy store and re-run")
	}
	if report.CriticalIssueCount() > 0 {
		recommendations = append(recommendations,
			"critical issues present: review the flagged subsections before publishing the consolidated requirements")
	}

	return recommendations
}

// readabilityScore эвристика читаемости: штраф за среднюю длину
// предложения сверх 25 слов
func readabilityScore(result *consolidation.ConsolidationResult) float64 {
	words := 0
	sentences := 0
	for _, unified := range result.Categories {
		words += len(strings.Fields(unified.ConsolidatedText))
		sentences += strings.Count(unified.ConsolidatedText, ".")
	}
	if sentences == 0 {
		return 100
	}
	avg := float64(words) / float64(sentences)
	score := 100 - math.Max(0, avg-25)*2
	if score < 0 {
		return 0
	}
	return score
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}

// normalizedConsistency согласованность длин в [0,1]: 1 при равных
// длинах, падает с ростом отклонения относительно среднего
func normalizedConsistency(values []float64) float64 {
	if len(values) < 2 {
		return 1
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean == 0 {
		return 1
	}
	cv := math.Sqrt(variance(values)) / mean
	if cv > 1 {
		return 0
	}
	return 1 - cv
}
