package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"complianceserver/consolidation"
	"complianceserver/frameworks"
	"complianceserver/quality"
	"complianceserver/taxonomy"
)

// Request параметры одного запуска консолидации для пары
// (организация, набор фреймворков)
type Request struct {
	OrganizationID string                       `json:"organization_id"`
	FrameworkIDs   []string                     `json:"framework_ids"`
	Filter         frameworks.RequirementFilter `json:"filter"`
}

// RunOutput полный выход запуска: результат консолидации, отчет
// валидации и исходные требования для слоя представления
type RunOutput struct {
	Result  *consolidation.ConsolidationResult
	Report  *quality.ValidationReport
	Sources []frameworks.FrameworkRequirement
	// FromCache запуск обслужен из кеша по отпечатку, без пересчета
	FromCache bool
	Duration  time.Duration
}

// RunRecorder журнал завершенных запусков; nil отключает журналирование
type RunRecorder interface {
	RecordConsolidationRun(output *RunOutput, request Request) error
}

// Orchestrator управляет конвейером консолидации от получения
// требований до отчета валидации.
//
// Каждый запуск — чистое синхронное преобразование над собственным
// неизменяемым снимком таксономии: запуски разных организаций идут
// параллельно без общего изменяемого состояния. Единственная граница
// ввода-вывода — получение требований и конфигурации; только она
// повторяется при сбоях. Кеш результатов — целиком на запуск, по
// отпечатку входа; частичной инвалидации нет, потому что переливание
// излишков имеет глобальные зависимости внутри запуска.
type Orchestrator struct {
	frameworkProvider frameworks.Provider
	taxonomyProvider  taxonomy.Provider
	recorder          RunRecorder

	classifier *consolidation.RequirementClassifier
	allocator  *consolidation.BucketAllocator
	engine     *consolidation.ConsolidationEngine
	builder    *consolidation.TraceabilityMatrixBuilder
	scorer     *quality.ValidationScorer

	retryConfig consolidation.RetryConfig

	// cache отпечаток запуска -> *RunOutput
	cache sync.Map
}

// NewOrchestrator создает оркестратор консолидации.
// recorder может быть nil.
func NewOrchestrator(
	frameworkProvider frameworks.Provider,
	taxonomyProvider taxonomy.Provider,
	recorder RunRecorder,
	bucketCap int,
) *Orchestrator {
	return &Orchestrator{
		frameworkProvider: frameworkProvider,
		taxonomyProvider:  taxonomyProvider,
		recorder:          recorder,
		classifier:        consolidation.NewRequirementClassifier(),
		allocator:         consolidation.NewBucketAllocator(bucketCap),
		engine:            consolidation.NewConsolidationEngine(),
		builder:           consolidation.NewTraceabilityMatrixBuilder(),
		scorer:            quality.NewValidationScorer(),
		retryConfig:       consolidation.DefaultRetryConfig(),
	}
}

// Run выполняет полный запуск консолидации.
// Отмена контекста проверяется только на границах категорий: частично
// собранный набор объединенных требований наружу не выходит никогда.
func (o *Orchestrator) Run(ctx context.Context, request Request) (*RunOutput, error) {
	started := time.Now()

	// Шаг 1/5: снимок таксономии
	log.Printf("[Step 1/5] Loading taxonomy snapshot for organization %s", request.OrganizationID)
	registry := taxonomy.NewRegistry(ctx, o.taxonomyProvider)

	fingerprint := Fingerprint(request, registry)
	if cached, ok := o.cache.Load(fingerprint); ok {
		log.Printf("[Cache] Serving run %s from cache", fingerprint[:12])
		output := cached.(*RunOutput)
		return &RunOutput{
			Result:    output.Result,
			Report:    output.Report,
			Sources:   output.Sources,
			FromCache: true,
			Duration:  time.Since(started),
		}, nil
	}

	// Шаг 2/5: получение требований, независимо по фреймворкам
	log.Printf("[Step 2/5] Fetching requirements for %d framework(s)", len(request.FrameworkIDs))
	sources, partial := o.fetchRequirements(ctx, request)

	result := &consolidation.ConsolidationResult{
		OrganizationID:    request.OrganizationID,
		Fingerprint:       fingerprint,
		FrameworkIDs:      sortedCopy(request.FrameworkIDs),
		PartialFrameworks: partial,
		TaxonomyDegraded:  registry.Degraded(),
	}

	// Граница: ноль фреймворков или ноль требований — пустой результат,
	// ноль объединенных требований и ноль строк матрицы, без ошибки
	if len(sources) == 0 {
		result.Stats = consolidation.Stats{}
		output := o.finishRun(result, sources, request, started)
		return output, nil
	}

	// Шаг 3/5: классификация по всей таксономии, порядок подачи сохраняется
	log.Printf("[Step 3/5] Classifying %d requirement(s)", len(sources))
	classifiedByCategory := make(map[string][]consolidation.ClassifiedRequirement)
	for i, source := range sources {
		categoryID, classified := o.classifier.ClassifyAcrossCategories(source, registry)
		classified.SubmissionOrdinal = i
		classifiedByCategory[categoryID] = append(classifiedByCategory[categoryID], classified)
	}

	// Шаг 4/5: покатегорийный конвейер с проверкой отмены на границах
	log.Printf("[Step 4/5] Consolidating %d categor(ies)", len(classifiedByCategory))
	totalSourceLen := 0
	totalUnifiedLen := 0
	for _, category := range registry.GetCategories() {
		classified, occupied := classifiedByCategory[category.ID]
		if !occupied {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("consolidation cancelled before category %s: %w", category.ID, err)
		}

		subsections, err := registry.GetSubsections(category.ID)
		if err != nil {
			return nil, err
		}

		allocation := o.allocator.Allocate(category.ID, classified, subsections)

		unified := make(map[string]*consolidation.UnifiedRequirement)
		for _, letter := range allocation.Letters {
			bucket := allocation.Buckets[letter]
			if len(bucket) == 0 {
				// Подраздел без требований остается шаблонным,
				// объединенное требование не порождается
				continue
			}
			template := subsectionByLetter(subsections, letter)
			unifiedReq, err := o.engine.Consolidate(template, bucket)
			if err != nil {
				// Сбой одного подраздела изолирован: категория
				// продолжается с шаблонным текстом, валидатор помечает
				// откат предупреждением
				log.Printf("[Step 4/5] WARN: consolidation of %s/%s failed, keeping template-only text: %v", category.ID, letter, err)
				if template == nil {
					// Без шаблона подраздел не синтезируется; строки
					// матрицы уйдут в NO_MAPPING
					continue
				}
				unifiedReq = o.engine.TemplateFallback(template, bucket)
			}
			unified[letter] = unifiedReq
			result.Categories = append(result.Categories, *unifiedReq)
			totalUnifiedLen += len(unifiedReq.ConsolidatedText)
			for _, item := range bucket {
				totalSourceLen += len(item.Classified.Requirement.Text())
			}
		}

		result.Matrix = append(result.Matrix, o.builder.Build(allocation, unified)...)
	}

	result.Stats = consolidation.Stats{
		TotalOriginal:  len(sources),
		TotalUnified:   len(result.Categories),
		ReductionRatio: reductionRatio(totalSourceLen, totalUnifiedLen),
	}

	// Шаг 5/5: валидация и кеширование
	log.Printf("[Step 5/5] Validating run %s", fingerprint[:12])
	output := o.finishRun(result, sources, request, started)
	return output, nil
}

// finishRun валидирует результат, журналирует запуск и кладет его в кеш
func (o *Orchestrator) finishRun(
	result *consolidation.ConsolidationResult,
	sources []frameworks.FrameworkRequirement,
	request Request,
	started time.Time,
) *RunOutput {
	output := &RunOutput{
		Result:   result,
		Report:   o.scorer.Score(result, sources),
		Sources:  sources,
		Duration: time.Since(started),
	}
	o.cache.Store(result.Fingerprint, output)

	if o.recorder != nil {
		if err := o.recorder.RecordConsolidationRun(output, request); err != nil {
			log.Printf("[Audit] WARN: failed to record consolidation run: %v", err)
		}
	}
	return output
}

// fetchRequirements получает требования всех выбранных фреймворков.
// Каждый фреймворк независим: сбой после повторов помечает его
// частичным, запуск продолжается с успевшими.
func (o *Orchestrator) fetchRequirements(
	ctx context.Context,
	request Request,
) ([]frameworks.FrameworkRequirement, []string) {
	var sources []frameworks.FrameworkRequirement
	var partial []string

	for _, frameworkID := range request.FrameworkIDs {
		var fetched []frameworks.FrameworkRequirement
		err := consolidation.RetryWithContext(ctx, func() error {
			var fetchErr error
			fetched, fetchErr = o.frameworkProvider.GetRequirements(ctx, frameworkID)
			return fetchErr
		}, o.retryConfig, fmt.Sprintf("fetch requirements of %s", frameworkID))

		if err != nil {
			log.Printf("[Fetch] WARN: framework %s marked partial after retries: %v", frameworkID, err)
			partial = append(partial, frameworkID)
			continue
		}
		sources = append(sources, frameworks.ApplyFilter(fetched, request.Filter)...)
	}

	return sources, partial
}

// CachedResult возвращает закешированный выход запуска по отпечатку
func (o *Orchestrator) CachedResult(fingerprint string) (*RunOutput, bool) {
	cached, ok := o.cache.Load(fingerprint)
	if !ok {
		return nil, false
	}
	return cached.(*RunOutput), true
}

// CacheSize возвращает число закешированных запусков
func (o *Orchestrator) CacheSize() int {
	size := 0
	o.cache.Range(func(_, _ interface{}) bool {
		size++
		return true
	})
	return size
}

// InvalidateCache сбрасывает кеш результатов целиком.
// Частичной инвалидации нет намеренно.
func (o *Orchestrator) InvalidateCache() {
	o.cache.Range(func(key, _ interface{}) bool {
		o.cache.Delete(key)
		return true
	})
}

// Fingerprint отпечаток запуска: SHA-256 от организации, отсортированных
// фреймворков, фильтра и версии таксономии
func Fingerprint(request Request, registry *taxonomy.Registry) string {
	parts := []string{
		request.OrganizationID,
		strings.Join(sortedCopy(request.FrameworkIDs), ","),
		request.Filter.Tier,
		request.Filter.Sector,
		registry.Fingerprint(),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func sortedCopy(values []string) []string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return sorted
}

func subsectionByLetter(subsections []taxonomy.SubsectionTemplate, letter string) *taxonomy.SubsectionTemplate {
	for i := range subsections {
		if subsections[i].Letter == letter {
			return &subsections[i]
		}
	}
	return nil
}

// reductionRatio доля сокращения текста, не ниже нуля
func reductionRatio(sourceLen, unifiedLen int) float64 {
	if sourceLen == 0 {
		return 0
	}
	ratio := 1 - float64(unifiedLen)/float64(sourceLen)
	if ratio < 0 {
		return 0
	}
	return ratio
}
