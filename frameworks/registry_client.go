package frameworks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RegistryClient HTTP-клиент внешнего реестра требований.
// Реализует Provider поверх REST API: ответы кэшируются по ключу запроса,
// частота запросов ограничивается rate limiter'ом.
type RegistryClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	normalizer *Normalizer

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	requirements []FrameworkRequirement
	frameworks   []Framework
	storedAt     time.Time
}

// RegistryClientConfig конфигурация клиента реестра
type RegistryClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
	CacheTTL  time.Duration
}

// NewRegistryClient создает клиент внешнего реестра требований
func NewRegistryClient(config RegistryClientConfig) *RegistryClient {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(200 * time.Millisecond)
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 15 * time.Minute
	}

	return &RegistryClient{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter:    rate.NewLimiter(config.RateLimit, 1),
		normalizer: NewNormalizer(),
		cache:      make(map[string]cacheEntry),
		ttl:        config.CacheTTL,
	}
}

// GetFrameworks возвращает список фреймворков реестра
func (c *RegistryClient) GetFrameworks(ctx context.Context) ([]Framework, error) {
	cacheKey := generateCacheKey("frameworks")
	if entry, ok := c.cachedEntry(cacheKey); ok {
		return entry.frameworks, nil
	}

	var frameworks []Framework
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/frameworks", c.baseURL), &frameworks); err != nil {
		return nil, fmt.Errorf("failed to fetch frameworks: %w", err)
	}

	c.storeEntry(cacheKey, cacheEntry{frameworks: frameworks, storedAt: time.Now()})
	return frameworks, nil
}

// GetRequirements возвращает упорядоченный список требований фреймворка.
// Записи реестра нормализуются в канонический FrameworkRequirement;
// некорректные записи пропускаются с сохранением порядка остальных.
func (c *RegistryClient) GetRequirements(ctx context.Context, frameworkID string) ([]FrameworkRequirement, error) {
	cacheKey := generateCacheKey("requirements:" + frameworkID)
	if entry, ok := c.cachedEntry(cacheKey); ok {
		return entry.requirements, nil
	}

	framework, err := c.findFramework(ctx, frameworkID)
	if err != nil {
		return nil, err
	}

	var records []map[string]interface{}
	url := fmt.Sprintf("%s/api/frameworks/%s/requirements", c.baseURL, frameworkID)
	if err := c.getJSON(ctx, url, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch requirements for %s: %w", frameworkID, err)
	}

	requirements, _ := c.normalizer.NormalizeBatch(framework, records)

	c.storeEntry(cacheKey, cacheEntry{requirements: requirements, storedAt: time.Now()})
	return requirements, nil
}

func (c *RegistryClient) findFramework(ctx context.Context, frameworkID string) (Framework, error) {
	frameworks, err := c.GetFrameworks(ctx)
	if err != nil {
		return Framework{}, err
	}
	for _, fw := range frameworks {
		if fw.ID == frameworkID {
			return fw, nil
		}
	}
	return Framework{}, fmt.Errorf("framework %s not found in registry", frameworkID)
}

func (c *RegistryClient) getJSON(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ComplianceServer/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *RegistryClient) cachedEntry(key string) (cacheEntry, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || time.Since(entry.storedAt) > c.ttl {
		return cacheEntry{}, false
	}
	return entry, true
}

func (c *RegistryClient) storeEntry(key string, entry cacheEntry) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.cache[key] = entry
}

// generateCacheKey генерирует ключ кэша для запроса
func generateCacheKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return hex.EncodeToString(hash[:])
}
