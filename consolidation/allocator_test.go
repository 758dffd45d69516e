package consolidation

import (
	"testing"

	"complianceserver/frameworks"
	"complianceserver/taxonomy"
)

// testSubsections упрощенная категория: два тематических подраздела и general
func testSubsections() []taxonomy.SubsectionTemplate {
	return []taxonomy.SubsectionTemplate{
		{CategoryID: "cat", Letter: "a", Topic: taxonomy.TopicRisk, HeadingText: "Risk assessment and treatment", Keywords: []string{"risk"}, PriorityRank: 4},
		{CategoryID: "cat", Letter: "b", Topic: taxonomy.TopicAsset, HeadingText: "Asset management", Keywords: []string{"asset"}, PriorityRank: 12},
		{CategoryID: "cat", Letter: "c", Topic: taxonomy.TopicGeneral, HeadingText: "General requirements", PriorityRank: 15},
	}
}

func classifiedTo(id, letter string, matched bool) ClassifiedRequirement {
	confidence := ConfidenceFallback
	if matched {
		confidence = ConfidenceKeywordHit
	}
	return ClassifiedRequirement{
		Requirement:      frameworks.FrameworkRequirement{ID: id, Code: id, FrameworkID: "f1"},
		SubsectionLetter: letter,
		Confidence:       confidence,
		MatchedByKeyword: matched,
	}
}

func TestAllocator_PrimaryUnderCap(t *testing.T) {
	allocator := NewBucketAllocator(3)

	classified := []ClassifiedRequirement{
		classifiedTo("r1", "a", true),
		classifiedTo("r2", "a", true),
		classifiedTo("r3", "b", true),
	}

	allocation := allocator.Allocate("cat", classified, testSubsections())

	if got := allocation.BucketSize("a"); got != 2 {
		t.Errorf("bucket a size = %d, want 2", got)
	}
	if got := allocation.BucketSize("b"); got != 1 {
		t.Errorf("bucket b size = %d, want 1", got)
	}
	for _, item := range allocation.Buckets["a"] {
		if item.Pass != PassPrimary {
			t.Errorf("requirement %s pass = %d, want primary", item.Classified.Requirement.ID, item.Pass)
		}
	}
	// Порядок подачи сохраняется
	if allocation.Buckets["a"][0].Classified.Requirement.ID != "r1" {
		t.Error("submission order not preserved in bucket a")
	}
	if allocation.Buckets["a"][0].ArrivalIndex != 1 || allocation.Buckets["a"][1].ArrivalIndex != 2 {
		t.Error("arrival indexes must count from 1 in submission order")
	}
}

func TestAllocator_OverflowRoundRobin(t *testing.T) {
	allocator := NewBucketAllocator(2)

	// 4 требования в подраздел a при лимите 2: r3 и r4 уходят в пул
	// переливания и сливаются round-robin по подразделам с местом
	classified := []ClassifiedRequirement{
		classifiedTo("r1", "a", true),
		classifiedTo("r2", "a", true),
		classifiedTo("r3", "a", true),
		classifiedTo("r4", "a", true),
	}

	allocation := allocator.Allocate("cat", classified, testSubsections())

	if got := allocation.TotalAllocated(); got != 4 {
		t.Fatalf("total allocated = %d, want 4 (no requirement may be dropped)", got)
	}
	if got := allocation.BucketSize("a"); got != 2 {
		t.Errorf("bucket a size = %d, want cap 2", got)
	}
	// r3 уходит в b (первый подраздел с местом), r4 — в c
	if allocation.Buckets["b"][0].Classified.Requirement.ID != "r3" {
		t.Errorf("bucket b got %s, want r3", allocation.Buckets["b"][0].Classified.Requirement.ID)
	}
	if allocation.Buckets["c"][0].Classified.Requirement.ID != "r4" {
		t.Errorf("bucket c got %s, want r4", allocation.Buckets["c"][0].Classified.Requirement.ID)
	}
	for _, letter := range []string{"b", "c"} {
		if allocation.Buckets[letter][0].Pass != PassOverflow {
			t.Errorf("overflow item in %s must be pass 2", letter)
		}
	}
}

func TestAllocator_GeneralFallbackStays(t *testing.T) {
	allocator := NewBucketAllocator(1)

	// Все подразделы заполнены, остаток пула закрепляется за general
	// сверх лимита: требования не теряются никогда
	classified := []ClassifiedRequirement{
		classifiedTo("r1", "a", true),
		classifiedTo("r2", "b", true),
		classifiedTo("g1", "c", false),
		classifiedTo("g2", "c", false),
		classifiedTo("g3", "c", false),
	}

	allocation := allocator.Allocate("cat", classified, testSubsections())

	if got := allocation.TotalAllocated(); got != 5 {
		t.Fatalf("total allocated = %d, want 5", got)
	}
	// g1 занимает единственное место general, g2 и g3 остаются там же сверх лимита
	if got := allocation.BucketSize("c"); got != 3 {
		t.Errorf("general bucket size = %d, want 3", got)
	}
}

func TestAllocator_EmptyInput(t *testing.T) {
	allocator := NewBucketAllocator(0)

	allocation := allocator.Allocate("cat", nil, testSubsections())

	if allocation.TotalAllocated() != 0 {
		t.Error("empty input must produce empty allocation")
	}
	if allocator.Cap() != DefaultBucketCap {
		t.Errorf("cap = %d, want default %d", allocator.Cap(), DefaultBucketCap)
	}
}

func TestAllocator_Deterministic(t *testing.T) {
	allocator := NewBucketAllocator(2)
	classified := []ClassifiedRequirement{
		classifiedTo("r1", "a", true),
		classifiedTo("r2", "a", true),
		classifiedTo("r3", "a", true),
		classifiedTo("g1", "c", false),
	}

	first := allocator.Allocate("cat", classified, testSubsections())
	for i := 0; i < 5; i++ {
		again := allocator.Allocate("cat", classified, testSubsections())
		for letter, bucket := range first.Buckets {
			other := again.Buckets[letter]
			if len(bucket) != len(other) {
				t.Fatalf("run %d: bucket %s size differs", i, letter)
			}
			for j := range bucket {
				if bucket[j].Classified.Requirement.ID != other[j].Classified.Requirement.ID {
					t.Fatalf("run %d: bucket %s order differs", i, letter)
				}
			}
		}
	}
}
