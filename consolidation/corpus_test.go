package consolidation

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"complianceserver/frameworks"
	"complianceserver/taxonomy"
)

// syntheticCorpus собирает большой набор требований: доменные формулировки
// вперемешку с шумовым текстом, который уходит в general
func syntheticCorpus(size int) []frameworks.FrameworkRequirement {
	gofakeit.Seed(1)

	phrases := []string{
		"Top management shall demonstrate leadership and commitment to the program",
		"The organization shall maintain an inventory of information assets",
		"Apply a documented risk assessment and risk treatment process",
		"Personnel shall receive security awareness training annually",
		"Supplier and vendor agreements shall include security requirements",
		"Conduct internal audit of the management system at planned intervals",
		"Documented information shall be controlled and retained",
		"Corrective actions shall address detected nonconformities",
	}

	corpus := make([]frameworks.FrameworkRequirement, 0, size)
	for i := 0; i < size; i++ {
		text := gofakeit.RandomString(phrases)
		if i%5 == 0 {
			// каждое пятое требование — шум без ключевых слов
			text = gofakeit.Sentence(8)
		}
		corpus = append(corpus, frameworks.FrameworkRequirement{
			ID:          fmt.Sprintf("syn-%d", i),
			FrameworkID: "synthetic",
			Code:        fmt.Sprintf("%d.%d", i/10+1, i%10+1),
			Description: text,
		})
	}
	return corpus
}

// Свойство «без потерь» на большом наборе: каждое требование закрепляется
// ровно за одним подразделом, распределение детерминировано между прогонами.
func TestAllocation_LargeSyntheticCorpus(t *testing.T) {
	const corpusSize = 400

	classifier := NewRequirementClassifier()
	allocator := NewBucketAllocator(DefaultBucketCap)
	registry := taxonomy.NewStaticRegistry(taxonomy.DefaultCategories())

	run := func() (int, map[string]string) {
		corpus := syntheticCorpus(corpusSize)

		classifiedByCategory := make(map[string][]ClassifiedRequirement)
		for i, req := range corpus {
			categoryID, classified := classifier.ClassifyAcrossCategories(req, registry)
			classified.SubmissionOrdinal = i
			classifiedByCategory[categoryID] = append(classifiedByCategory[categoryID], classified)
		}

		total := 0
		placement := make(map[string]string, corpusSize)
		for categoryID, classified := range classifiedByCategory {
			subsections, err := registry.GetSubsections(categoryID)
			if err != nil {
				t.Fatalf("failed to load subsections of %s: %v", categoryID, err)
			}
			allocation := allocator.Allocate(categoryID, classified, subsections)
			total += allocation.TotalAllocated()

			for letter, bucket := range allocation.Buckets {
				for _, item := range bucket {
					id := item.Classified.Requirement.ID
					if prev, seen := placement[id]; seen {
						t.Fatalf("requirement %s allocated twice: %s and %s/%s", id, prev, categoryID, letter)
					}
					placement[id] = categoryID + "/" + letter
				}
			}
		}
		return total, placement
	}

	total, first := run()
	if total != corpusSize {
		t.Fatalf("total allocated = %d, want %d (no requirement may be dropped)", total, corpusSize)
	}

	_, second := run()
	for id, where := range first {
		if second[id] != where {
			t.Fatalf("allocation not deterministic: %s placed at %s then %s", id, where, second[id])
		}
	}
}
