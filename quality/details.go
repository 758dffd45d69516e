package quality

import (
	"regexp"
	"strings"
)

// DetailClass класс регуляторно-значимых деталей исходного текста
type DetailClass string

const (
	DetailTimeframes      DetailClass = "timeframes"
	DetailAuthorities     DetailClass = "named_authorities"
	DetailStandardIDs     DetailClass = "standard_identifiers"
	DetailNumericValues   DetailClass = "numeric_values"
	DetailCrossReferences DetailClass = "cross_references"
)

// DetailClasses все классы деталей в порядке отчета
var DetailClasses = []DetailClass{
	DetailTimeframes,
	DetailAuthorities,
	DetailStandardIDs,
	DetailNumericValues,
	DetailCrossReferences,
}

// CriticalDetailClasses классы, потеря которых всегда critical:
// числа, именованные органы и сроки обязаны сохраняться дословно
var CriticalDetailClasses = map[DetailClass]bool{
	DetailTimeframes:    true,
	DetailAuthorities:   true,
	DetailNumericValues: true,
}

// Паттерны сроков: число + единица времени ("72 hours", "30 days",
// "twelve months" не ловим — только числовые формы)
var timeframePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+\s*(?:hours?|days?|weeks?|months?|years?)\b`),
	regexp.MustCompile(`(?i)\b(?:annually|quarterly|monthly|weekly|daily)\b`),
}

// Паттерны именованных органов и регуляторов
var authorityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:supervisory authority|competent authority|regulatory (?:body|authority)|data protection officer|certification body)\b`),
	regexp.MustCompile(`\b(?:ENISA|NIST|BSI|FSTEC|ICO|EDPB)\b`),
}

// Паттерны идентификаторов стандартов: "ISO/IEC 27001", "ISO 9001:2015",
// "NIST SP 800-53", "CIS Control 4.1", "GDPR Art. 33"
var standardIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bISO(?:/IEC)?\s*\d{4,5}(?:-\d+)?(?::\d{4})?\b`),
	regexp.MustCompile(`\bNIST\s+SP\s+\d{3}-\d+\b`),
	regexp.MustCompile(`\bCIS\s+Control\s+\d+(?:\.\d+)?\b`),
	regexp.MustCompile(`\bGDPR\s+Art\.?\s*\d+\b`),
}

// Паттерн числовых значений с единицей или процентом; голые числа
// без единиц не считаются деталью
var numericValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:%|percent|bits?|bytes?|characters?|attempts?|copies|km|meters?)\b`),
	regexp.MustCompile(`(?i)\b\d+\s*(?:hours?|days?|weeks?|months?|years?)\b`),
}

// Паттерны перекрестных ссылок на разделы и приложения
var crossReferencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:clause|section|annex|appendix|control)\s+[A-Z]?\d+(?:\.\d+)*\b`),
	regexp.MustCompile(`(?i)\bsee\s+(?:also\s+)?\d+(?:\.\d+)+\b`),
}

var detailPatterns = map[DetailClass][]*regexp.Regexp{
	DetailTimeframes:      timeframePatterns,
	DetailAuthorities:     authorityPatterns,
	DetailStandardIDs:     standardIDPatterns,
	DetailNumericValues:   numericValuePatterns,
	DetailCrossReferences: crossReferencePatterns,
}

// ExtractDetails извлекает из текста все детали по классам.
// Токены внутри класса дедуплицируются, порядок появления сохраняется.
func ExtractDetails(text string) map[DetailClass][]string {
	details := make(map[DetailClass][]string, len(DetailClasses))
	for _, class := range DetailClasses {
		if tokens := extractClass(text, detailPatterns[class]); len(tokens) > 0 {
			details[class] = tokens
		}
	}
	return details
}

func extractClass(text string, patterns []*regexp.Regexp) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllString(text, -1) {
			match = strings.TrimSpace(match)
			key := strings.ToLower(match)
			if match == "" || seen[key] {
				continue
			}
			seen[key] = true
			tokens = append(tokens, match)
		}
	}
	return tokens
}

// ContainsVerbatim проверяет дословное присутствие токена в тексте.
// Сравнение нечувствительно к регистру, но не к пробелам: "72 hours"
// и "72hours" — разные токены.
func ContainsVerbatim(text, token string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(token))
}
