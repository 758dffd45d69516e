package consolidation

import (
	"log"
)

// TraceabilityMatrixBuilder построение матрицы трассируемости:
// ровно одна строка сопоставления на каждое поданное требование,
// без тихих потерь.
type TraceabilityMatrixBuilder struct{}

// NewTraceabilityMatrixBuilder создает построитель матрицы
func NewTraceabilityMatrixBuilder() *TraceabilityMatrixBuilder {
	return &TraceabilityMatrixBuilder{}
}

// Build строит строки матрицы для одной категории.
// allocation — распределение требований категории, unified — объединенные
// требования по буквам занятых подразделов.
//
// Типы сопоставления:
//   - DIRECT: первый первичный вкладчик подраздела, попавший по ключевым словам;
//   - PARTIAL: прочие первичные вкладчики того же подраздела;
//   - DERIVED: попавшие через переливание (проход 2);
//   - NO_MAPPING: защитный путь, при корректном входе недостижим.
//
// Уверенность: classifierConfidence * (1 / min(occupancy, 3)), где
// occupancy — занятость подраздела на момент прибытия требования.
// Монотонно не растет с заполнением подраздела при фиксированном
// способе классификации.
func (b *TraceabilityMatrixBuilder) Build(
	allocation *Allocation,
	unified map[string]*UnifiedRequirement,
) []MappingEntry {
	var entries []MappingEntry

	for _, letter := range allocation.Letters {
		bucket := allocation.Buckets[letter]
		if len(bucket) == 0 {
			continue
		}

		unifiedReq, hasUnified := unified[letter]
		if !hasUnified {
			// Занятый подраздел без объединенного требования — сбой
			// консолидации этого подраздела; требования получают NO_MAPPING
			// и будут помечены валидатором как проблема качества данных.
			log.Printf("[Matrix] WARN: subsection %s/%s occupied but has no unified requirement",
				allocation.CategoryID, letter)
		}

		primarySeen := 0
		for _, item := range bucket {
			entry := MappingEntry{
				FrameworkID:            item.Classified.Requirement.FrameworkID,
				FrameworkRequirementID: item.Classified.Requirement.ID,
				RequirementCode:        item.Classified.Requirement.Code,
				CategoryID:             allocation.CategoryID,
			}

			if !hasUnified {
				entry.MappingType = MappingNone
				entry.Confidence = 0
				entries = append(entries, entry)
				continue
			}

			entry.UnifiedRequirementID = unifiedReq.ID
			entry.SubsectionLetter = letter

			switch {
			case item.Pass == PassPrimary && primarySeen == 0:
				entry.MappingType = MappingDirect
				primarySeen++
			case item.Pass == PassPrimary:
				entry.MappingType = MappingPartial
				primarySeen++
			default:
				entry.MappingType = MappingDerived
			}

			entry.Confidence = clipConfidence(
				item.Classified.Confidence * occupancyFactor(item.ArrivalIndex))
			entries = append(entries, entry)
		}
	}

	return entries
}

// occupancyFactor множитель уверенности по занятости подраздела
// на момент прибытия: 1/min(occupancy, 3)
func occupancyFactor(arrivalIndex int) float64 {
	if arrivalIndex < 1 {
		arrivalIndex = 1
	}
	if arrivalIndex > 3 {
		arrivalIndex = 3
	}
	return 1.0 / float64(arrivalIndex)
}

func clipConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
