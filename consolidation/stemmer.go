package consolidation

import (
	"strings"
	"sync"

	"github.com/kljensen/snowball"
)

// EnglishStemmer стеммер английских слов на алгоритме Snowball.
// Используется классификатором, чтобы "assessing risks" попадало в
// ключевые слова "risk assessment" независимо от словоформ.
type EnglishStemmer struct {
	cache map[string]string
	mu    sync.RWMutex
}

// NewEnglishStemmer создает стеммер с кэшем словоформ
func NewEnglishStemmer() *EnglishStemmer {
	return &EnglishStemmer{cache: make(map[string]string)}
}

// Stem возвращает основу слова
func (s *EnglishStemmer) Stem(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return ""
	}

	s.mu.RLock()
	if cached, found := s.cache[normalized]; found {
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	stemmed, err := snowball.Stem(normalized, "english", true)
	if err != nil {
		stemmed = normalized
	}

	s.mu.Lock()
	s.cache[normalized] = stemmed
	s.mu.Unlock()

	return stemmed
}

// StemTokens возвращает основы всех слов
func (s *EnglishStemmer) StemTokens(tokens []string) []string {
	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		stemmed[i] = s.Stem(token)
	}
	return stemmed
}

// StemSet возвращает множество основ слов текста
func (s *EnglishStemmer) StemSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,;:()[]\"'")
		if stem := s.Stem(word); stem != "" {
			set[stem] = true
		}
	}
	return set
}
