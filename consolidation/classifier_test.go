package consolidation

import (
	"testing"

	"complianceserver/frameworks"
	"complianceserver/taxonomy"
)

func riskSubsections(t *testing.T) []taxonomy.SubsectionTemplate {
	t.Helper()
	reg := taxonomy.NewStaticRegistry(taxonomy.DefaultCategories())
	subsections, err := reg.GetSubsectionsByPriority("risk-management")
	if err != nil {
		t.Fatalf("GetSubsectionsByPriority() error: %v", err)
	}
	return subsections
}

func TestClassifier_KeywordHit(t *testing.T) {
	classifier := NewRequirementClassifier()
	subsections := riskSubsections(t)

	tests := []struct {
		name       string
		text       string
		wantTopic  string
		wantMatch  bool
		confidence float64
	}{
		{
			"прямое попадание по риску",
			"The organization shall define and apply an information security risk assessment process within 90 days.",
			taxonomy.TopicRisk, true, ConfidenceKeywordHit,
		},
		{
			"попадание по основам слов",
			"Assessing risks across all business units shall be performed annually.",
			taxonomy.TopicRisk, true, ConfidenceKeywordHit,
		},
		{
			"поставщики",
			"Review supplier agreements and vendor contracts annually.",
			taxonomy.TopicThirdParty, true, ConfidenceKeywordHit,
		},
		{
			"без совпадений — в general",
			"Lorem ipsum dolor sit amet.",
			taxonomy.TopicGeneral, false, ConfidenceFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := frameworks.FrameworkRequirement{ID: "r1", Code: "X.1", Description: tt.text}
			classified := classifier.Classify(req, subsections)

			var wantLetter string
			for _, sub := range subsections {
				if sub.Topic == tt.wantTopic {
					wantLetter = sub.Letter
				}
			}

			if classified.SubsectionLetter != wantLetter {
				t.Errorf("letter = %q, want %q", classified.SubsectionLetter, wantLetter)
			}
			if classified.MatchedByKeyword != tt.wantMatch {
				t.Errorf("MatchedByKeyword = %v, want %v", classified.MatchedByKeyword, tt.wantMatch)
			}
			if classified.Confidence != tt.confidence {
				t.Errorf("Confidence = %v, want %v", classified.Confidence, tt.confidence)
			}
		})
	}
}

func TestClassifier_UnicodeFolding(t *testing.T) {
	classifier := NewRequirementClassifier()
	subsections := riskSubsections(t)

	// Полноширинные формы и регистр сводятся NFKC + case folding,
	// а не только strings.ToLower
	tests := []struct {
		name string
		text string
	}{
		{"полноширинные символы", "The organization shall apply a ｒｉｓｋ ａｓｓｅｓｓｍｅｎｔ process."},
		{"верхний регистр", "THE ORGANIZATION SHALL APPLY A RISK ASSESSMENT PROCESS."},
	}

	risk, _ := findSubsection(subsections, taxonomy.TopicRisk)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := frameworks.FrameworkRequirement{ID: "u1", Description: tt.text}
			classified := classifier.Classify(req, subsections)
			if classified.SubsectionLetter != risk.Letter {
				t.Errorf("letter = %q, want %q", classified.SubsectionLetter, risk.Letter)
			}
			if !classified.MatchedByKeyword {
				t.Error("folded text must still hit the keyword set")
			}
		})
	}
}

func findSubsection(subsections []taxonomy.SubsectionTemplate, topic string) (taxonomy.SubsectionTemplate, bool) {
	for _, sub := range subsections {
		if sub.Topic == topic {
			return sub, true
		}
	}
	return taxonomy.SubsectionTemplate{}, false
}

func TestClassifier_EmptyText(t *testing.T) {
	classifier := NewRequirementClassifier()
	subsections := riskSubsections(t)

	classified := classifier.Classify(frameworks.FrameworkRequirement{ID: "empty"}, subsections)

	general, _ := findSubsection(subsections, taxonomy.TopicGeneral)
	if classified.SubsectionLetter != general.Letter {
		t.Errorf("empty text should go to general, got %q", classified.SubsectionLetter)
	}
	if classified.Confidence != ConfidenceEmptyText {
		t.Errorf("Confidence = %v, want %v", classified.Confidence, ConfidenceEmptyText)
	}
}

func TestClassifier_ConfidenceOrdering(t *testing.T) {
	// Строгий порядок: попадание по ключевым словам > откат в general > пустой текст
	if !(ConfidenceKeywordHit > ConfidenceFallback && ConfidenceFallback > ConfidenceEmptyText) {
		t.Fatalf("confidence ordering broken: hit=%v fallback=%v empty=%v",
			ConfidenceKeywordHit, ConfidenceFallback, ConfidenceEmptyText)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	classifier := NewRequirementClassifier()
	subsections := riskSubsections(t)
	req := frameworks.FrameworkRequirement{
		ID:          "det-1",
		Description: "Establish and maintain an accurate asset inventory, review risk treatment results.",
	}

	first := classifier.Classify(req, subsections)
	for i := 0; i < 10; i++ {
		again := classifier.Classify(req, subsections)
		if again.SubsectionLetter != first.SubsectionLetter || again.Confidence != first.Confidence {
			t.Fatalf("classification not deterministic: run %d gave %+v, first %+v", i, again, first)
		}
	}
}

func TestClassifier_FirstMatchNotBestMatch(t *testing.T) {
	classifier := NewRequirementClassifier()
	subsections := riskSubsections(t)

	// Текст упоминает и risk (приоритет выше), и supplier (ниже):
	// выигрывает первый по порядку приоритетов, сколько бы ключевых
	// слов ни совпало дальше
	req := frameworks.FrameworkRequirement{
		ID:          "both",
		Description: "Supplier contracts shall include a risk clause for every vendor and service provider.",
	}
	classified := classifier.Classify(req, subsections)

	risk, _ := findSubsection(subsections, taxonomy.TopicRisk)
	if classified.SubsectionLetter != risk.Letter {
		t.Errorf("first-match rule violated: letter = %q, want %q", classified.SubsectionLetter, risk.Letter)
	}
}

func TestClassifier_AcrossCategories(t *testing.T) {
	classifier := NewRequirementClassifier()
	reg := taxonomy.NewStaticRegistry(taxonomy.DefaultCategories())

	tests := []struct {
		name         string
		text         string
		wantCategory string
	}{
		{"лидерство в governance", "Top management shall demonstrate leadership and commitment.", "governance"},
		{"аудит в evaluation", "Conduct internal audit at planned intervals.", "evaluation"},
		{"обучение в support", "Personnel shall receive security training and certification.", "support"},
		{"риск в risk-management", "Apply a risk assessment process.", "risk-management"},
		{"нет совпадений — general первой категории", "Completely unrelated text.", "governance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := frameworks.FrameworkRequirement{ID: "x", Description: tt.text}
			categoryID, classified := classifier.ClassifyAcrossCategories(req, reg)
			if categoryID != tt.wantCategory {
				t.Errorf("category = %q, want %q", categoryID, tt.wantCategory)
			}
			if classified.SubsectionLetter == "" {
				t.Error("classification must always resolve to a subsection")
			}
		})
	}
}
