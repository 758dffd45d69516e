package consolidation

import (
	"complianceserver/taxonomy"
)

// DefaultBucketCap лимит первичных вкладчиков подраздела по умолчанию
const DefaultBucketCap = 3

// BucketAllocator двухпроходное детерминированное распределение
// классифицированных требований по подразделам категории.
//
// Проход 1 (жадный лимит): каждый подраздел принимает до cap требований,
// совпавших с ним по ключевым словам, в порядке подачи — это первичные
// вкладчики. Проход 2 (слив излишков): требования сверх лимита и
// требования из корзины general образуют пул переливания; пул сливается
// round-robin по подразделам с незаполненным лимитом в порядке букв
// категории; не поместившиеся остаются закрепленными за general.
//
// Это политика выравнивания нагрузки, а не ошибка: каждое требование
// в итоге закреплено ровно за одним подразделом.
type BucketAllocator struct {
	cap int
}

// NewBucketAllocator создает аллокатор с заданным лимитом первичных
// вкладчиков; cap <= 0 означает лимит по умолчанию
func NewBucketAllocator(cap int) *BucketAllocator {
	if cap <= 0 {
		cap = DefaultBucketCap
	}
	return &BucketAllocator{cap: cap}
}

// Cap возвращает лимит первичных вкладчиков подраздела
func (a *BucketAllocator) Cap() int {
	return a.cap
}

// Allocate распределяет классифицированные требования по подразделам.
// classified ожидается в порядке подачи; subsections — в порядке букв
// категории.
func (a *BucketAllocator) Allocate(
	categoryID string,
	classified []ClassifiedRequirement,
	subsections []taxonomy.SubsectionTemplate,
) *Allocation {
	allocation := &Allocation{
		CategoryID: categoryID,
		Buckets:    make(map[string][]AllocatedRequirement, len(subsections)),
		Letters:    make([]string, 0, len(subsections)),
	}
	generalByLetter := make(map[string]bool, len(subsections))
	for _, subsection := range subsections {
		allocation.Letters = append(allocation.Letters, subsection.Letter)
		allocation.Buckets[subsection.Letter] = nil
		generalByLetter[subsection.Letter] = subsection.Topic == taxonomy.TopicGeneral
	}

	// Проход 1: первичные вкладчики до лимита, в порядке подачи.
	// Требования из general и излишки сверх лимита уходят в пул переливания.
	var overflow []ClassifiedRequirement
	for _, req := range classified {
		letter := req.SubsectionLetter
		if _, known := allocation.Buckets[letter]; !known {
			// Подраздел не из этой категории: защитный путь, в пул
			overflow = append(overflow, req)
			continue
		}
		if req.MatchedByKeyword && !generalByLetter[letter] && len(allocation.Buckets[letter]) < a.cap {
			allocation.Buckets[letter] = append(allocation.Buckets[letter], AllocatedRequirement{
				Classified:   req,
				Pass:         PassPrimary,
				ArrivalIndex: len(allocation.Buckets[letter]) + 1,
			})
			continue
		}
		overflow = append(overflow, req)
	}

	// Проход 2: слив пула round-robin по подразделам с незаполненным
	// лимитом, в порядке букв категории.
	for len(overflow) > 0 {
		placed := false
		for _, letter := range allocation.Letters {
			if len(overflow) == 0 {
				break
			}
			if len(allocation.Buckets[letter]) >= a.cap {
				continue
			}
			req := overflow[0]
			overflow = overflow[1:]
			allocation.Buckets[letter] = append(allocation.Buckets[letter], AllocatedRequirement{
				Classified:   req,
				Pass:         PassOverflow,
				ArrivalIndex: len(allocation.Buckets[letter]) + 1,
			})
			placed = true
		}
		if !placed {
			break
		}
	}

	// Остаток пула закрепляется за general независимо от лимита:
	// ни одно требование не теряется.
	if len(overflow) > 0 {
		letter := generalLetterOf(allocation.Letters, generalByLetter)
		for _, req := range overflow {
			allocation.Buckets[letter] = append(allocation.Buckets[letter], AllocatedRequirement{
				Classified:   req,
				Pass:         PassOverflow,
				ArrivalIndex: len(allocation.Buckets[letter]) + 1,
			})
		}
	}

	return allocation
}

func generalLetterOf(letters []string, generalByLetter map[string]bool) string {
	for _, letter := range letters {
		if generalByLetter[letter] {
			return letter
		}
	}
	return letters[len(letters)-1]
}
