package consolidation

import (
	"sort"
	"strings"

	"complianceserver/frameworks"
	"complianceserver/taxonomy"
)

// RequirementClassifier детерминированный классификатор требований по
// подразделам категории. Перебирает подразделы в фиксированном порядке
// приоритетов; выигрывает первый подраздел с любым текстовым попаданием
// по ключевым словам — первое совпадение, а не лучшее, чтобы результат
// оставался воспроизводимым и объяснимым. Классификация никогда не
// завершается ошибкой: в худшем случае требование уходит в general.
type RequirementClassifier struct {
	stemmer *EnglishStemmer
}

// NewRequirementClassifier создает классификатор требований
func NewRequirementClassifier() *RequirementClassifier {
	return &RequirementClassifier{stemmer: NewEnglishStemmer()}
}

// Classify назначает требованию подраздел категории.
// subsections должны быть отсортированы по приоритету классификации
// (см. taxonomy.Registry.GetSubsectionsByPriority); general обязан
// присутствовать и идти последним.
func (c *RequirementClassifier) Classify(
	requirement frameworks.FrameworkRequirement,
	subsections []taxonomy.SubsectionTemplate,
) ClassifiedRequirement {
	classified := ClassifiedRequirement{Requirement: requirement}

	text := normalizeForMatching(requirement.Text())
	if text == "" {
		classified.SubsectionLetter = generalLetter(subsections)
		classified.Confidence = ConfidenceEmptyText
		return classified
	}

	stems := c.stemmer.StemSet(text)

	for _, subsection := range subsections {
		if subsection.Topic == taxonomy.TopicGeneral {
			continue
		}
		if keyword, hit := c.matchKeywords(text, stems, subsection.Keywords); hit {
			classified.SubsectionLetter = subsection.Letter
			classified.Confidence = ConfidenceKeywordHit
			classified.MatchedByKeyword = true
			classified.MatchedKeyword = keyword
			return classified
		}
	}

	classified.SubsectionLetter = generalLetter(subsections)
	classified.Confidence = ConfidenceFallback
	return classified
}

// ClassifyAcrossCategories назначает требованию категорию и подраздел
// по всей таксономии. Подразделы всех категорий перебираются в едином
// порядке приоритетов тем (leadership > scope > ... > project); первое
// попадание по ключевым словам определяет и категорию, и подраздел.
// Без единого попадания требование уходит в general первой категории
// таксономии.
func (c *RequirementClassifier) ClassifyAcrossCategories(
	requirement frameworks.FrameworkRequirement,
	registry *taxonomy.Registry,
) (string, ClassifiedRequirement) {
	categories := registry.GetCategories()
	if len(categories) == 0 {
		return "", ClassifiedRequirement{Requirement: requirement}
	}

	type candidate struct {
		categoryID string
		subsection taxonomy.SubsectionTemplate
	}
	var candidates []candidate
	for _, category := range categories {
		for _, subsection := range category.Subsections {
			if subsection.Topic == taxonomy.TopicGeneral {
				continue
			}
			candidates = append(candidates, candidate{category.ID, subsection})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].subsection.PriorityRank < candidates[j].subsection.PriorityRank
	})

	classified := ClassifiedRequirement{Requirement: requirement}

	text := normalizeForMatching(requirement.Text())
	if text != "" {
		stems := c.stemmer.StemSet(text)
		for _, cand := range candidates {
			if keyword, hit := c.matchKeywords(text, stems, cand.subsection.Keywords); hit {
				classified.SubsectionLetter = cand.subsection.Letter
				classified.Confidence = ConfidenceKeywordHit
				classified.MatchedByKeyword = true
				classified.MatchedKeyword = keyword
				return cand.categoryID, classified
			}
		}
	}

	fallback := categories[0]
	classified.SubsectionLetter = generalLetter(fallback.Subsections)
	if text == "" {
		classified.Confidence = ConfidenceEmptyText
	} else {
		classified.Confidence = ConfidenceFallback
	}
	return fallback.ID, classified
}

// matchKeywords проверяет попадание текста в набор ключевых слов.
// Сначала точное вхождение фразы, затем совпадение по основам всех
// слов фразы. Оба пути детерминированы; порядок ключевых слов фиксирован
// таблицей taxonomy.
func (c *RequirementClassifier) matchKeywords(text string, stems map[string]bool, keywords []string) (string, bool) {
	for _, keyword := range keywords {
		normalized := normalizeForMatching(keyword)
		if normalized == "" {
			continue
		}
		if strings.Contains(text, normalized) {
			return keyword, true
		}
		if c.stemsContainPhrase(stems, normalized) {
			return keyword, true
		}
	}
	return "", false
}

// stemsContainPhrase проверяет, что основы всех слов фразы присутствуют
// среди основ слов текста
func (c *RequirementClassifier) stemsContainPhrase(stems map[string]bool, phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return false
	}
	for _, stem := range c.stemmer.StemTokens(words) {
		if !stems[stem] {
			return false
		}
	}
	return true
}

// matchingNormalizer фолдинг текста и ключевых слов перед сопоставлением
var matchingNormalizer = frameworks.NewNormalizer()

// normalizeForMatching нормализует текст для сопоставления:
// NFKC + case folding, схлопывание пробелов
func normalizeForMatching(text string) string {
	return strings.Join(strings.Fields(matchingNormalizer.FoldForMatching(text)), " ")
}

// generalLetter возвращает букву подраздела general; если конфигурация
// его не содержит, используется последний подраздел категории
func generalLetter(subsections []taxonomy.SubsectionTemplate) string {
	for _, subsection := range subsections {
		if subsection.Topic == taxonomy.TopicGeneral {
			return subsection.Letter
		}
	}
	if len(subsections) > 0 {
		return subsections[len(subsections)-1].Letter
	}
	return ""
}
