package taxonomy

import (
	"context"
	"errors"
	"testing"
)

type failingProvider struct{}

func (f *failingProvider) GetCategories(ctx context.Context) ([]CanonicalCategory, error) {
	return nil, errors.New("configuration store unreachable")
}

func TestDefaultCategories_Structure(t *testing.T) {
	categories := DefaultCategories()
	if len(categories) == 0 {
		t.Fatal("DefaultCategories() returned no categories")
	}

	for _, category := range categories {
		if len(category.Subsections) == 0 {
			t.Errorf("category %q has no subsections", category.ID)
		}

		// Буквы подразделов должны идти по порядку без дубликатов
		seen := map[string]bool{}
		for i, sub := range category.Subsections {
			expected := string(rune('a' + i))
			if sub.Letter != expected {
				t.Errorf("category %q subsection %d letter = %q, want %q", category.ID, i, sub.Letter, expected)
			}
			if seen[sub.Letter] {
				t.Errorf("category %q has duplicate letter %q", category.ID, sub.Letter)
			}
			seen[sub.Letter] = true
			if sub.CategoryID != category.ID {
				t.Errorf("subsection %s/%s has category_id %q", category.ID, sub.Letter, sub.CategoryID)
			}
		}

		// general должен присутствовать и иметь низший приоритет в категории
		general, ok := findTopic(category, TopicGeneral)
		if !ok {
			t.Errorf("category %q has no general subsection", category.ID)
			continue
		}
		for _, sub := range category.Subsections {
			if sub.Topic != TopicGeneral && sub.PriorityRank >= general.PriorityRank {
				t.Errorf("category %q: topic %q rank %d not above general rank %d",
					category.ID, sub.Topic, sub.PriorityRank, general.PriorityRank)
			}
		}
	}
}

func findTopic(category CanonicalCategory, topic string) (SubsectionTemplate, bool) {
	for _, sub := range category.Subsections {
		if sub.Topic == topic {
			return sub, true
		}
	}
	return SubsectionTemplate{}, false
}

func TestRegistry_UnknownCategory(t *testing.T) {
	reg := NewStaticRegistry(DefaultCategories())

	_, err := reg.GetSubsections("no-such-category")
	if err == nil {
		t.Fatal("expected ConfigurationError for unknown category")
	}

	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
	if confErr.CategoryID != "no-such-category" {
		t.Errorf("CategoryID = %q, want %q", confErr.CategoryID, "no-such-category")
	}
}

func TestRegistry_EmptySubsections(t *testing.T) {
	reg := NewStaticRegistry([]CanonicalCategory{{ID: "empty", Name: "Empty"}})

	_, err := reg.GetCategory("empty")
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error = %v, want *ConfigurationError", err)
	}
}

func TestRegistry_FallbackOnProviderFailure(t *testing.T) {
	reg := NewRegistry(context.Background(), &failingProvider{})

	if !reg.Degraded() {
		t.Error("registry should report degraded mode after provider failure")
	}
	if len(reg.GetCategories()) == 0 {
		t.Error("degraded registry should serve built-in categories")
	}
}

func TestRegistry_FingerprintTracksContent(t *testing.T) {
	base := NewStaticRegistry(DefaultCategories())
	same := NewStaticRegistry(DefaultCategories())

	if base.Fingerprint() != same.Fingerprint() {
		t.Error("identical taxonomies must share a fingerprint")
	}
	if base.Fingerprint() == "" {
		t.Fatal("fingerprint must not be empty")
	}

	// Правка одного ключевого слова при том же числе категорий и
	// подразделов обязана сменить отпечаток: кеш запусков по старому
	// словарю не должен обслуживать новый
	edited := DefaultCategories()
	edited[0].Subsections[0].Keywords = append([]string{"amended keyword"}, edited[0].Subsections[0].Keywords...)
	if NewStaticRegistry(edited).Fingerprint() == base.Fingerprint() {
		t.Error("keyword edit must change the registry fingerprint")
	}

	// То же для заголовка подраздела
	renamed := DefaultCategories()
	renamed[0].Subsections[0].HeadingText = "Renamed heading"
	if NewStaticRegistry(renamed).Fingerprint() == base.Fingerprint() {
		t.Error("heading edit must change the registry fingerprint")
	}
}

func TestRegistry_PriorityOrder(t *testing.T) {
	reg := NewStaticRegistry(DefaultCategories())

	tests := []struct {
		name       string
		categoryID string
		firstTopic string
		lastTopic  string
	}{
		{"управление: leadership первый", "governance", TopicLeadership, TopicGeneral},
		{"риски: risk первый", "risk-management", TopicRisk, TopicGeneral},
		{"поддержка: resource первый", "support", TopicResource, TopicGeneral},
		{"оценка: performance первый", "evaluation", TopicPerformance, TopicGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subsections, err := reg.GetSubsectionsByPriority(tt.categoryID)
			if err != nil {
				t.Fatalf("GetSubsectionsByPriority(%q) error: %v", tt.categoryID, err)
			}
			if subsections[0].Topic != tt.firstTopic {
				t.Errorf("first topic = %q, want %q", subsections[0].Topic, tt.firstTopic)
			}
			if subsections[len(subsections)-1].Topic != tt.lastTopic {
				t.Errorf("last topic = %q, want %q", subsections[len(subsections)-1].Topic, tt.lastTopic)
			}
		})
	}
}
