package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
)

// MaxSuggestions caps the autocomplete results.
const MaxSuggestions = 10

// SurahOption is one autocomplete suggestion.
type SurahOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

func surahLabel(s model.Surah) string {
	return fmt.Sprintf("%d. %s (%s)", s.ID, s.Name, s.NameArabic)
}

// FilterSurahs returns up to limit chapters whose name or Arabic name
// contains q, ignoring case, in list order.
func FilterSurahs(all []model.Surah, q string, limit int) []SurahOption {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	var out []SurahOption
	for _, s := range all {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.NameArabic), q) {
			out = append(out, SurahOption{ID: s.ID, Label: surahLabel(s)})
		}
	}
	return out
}

// Catalog is the chapter list used by the add form.
type Catalog struct {
	api SurahLister

	mu     sync.RWMutex
	surahs []model.Surah
	loaded bool
}

type SurahLister interface {
	Surahs(ctx context.Context) ([]model.Surah, error)
}

func NewCatalog(api SurahLister) *Catalog {
	return &Catalog{api: api}
}

// Load fetches the list unless it is already loaded.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches the list again. On failure the previous list is kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	surahs, err := c.api.Surahs(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.surahs = surahs
	c.loaded = true
	c.mu.Unlock()
	log.Debug().Int("count", len(surahs)).Msg("surah catalog loaded")
	return nil
}

// Search loads the list if needed and filters it.
func (c *Catalog) Search(ctx context.Context, q string) ([]SurahOption, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FilterSurahs(c.surahs, q, MaxSuggestions), nil
}

// Catalogs keeps one catalog per visitor for ttl.
type Catalogs struct {
	api   SurahLister
	mu    sync.Mutex
	cache *expirable.LRU[string, *Catalog]
}

func NewCatalogs(api SurahLister, size int, ttl time.Duration) *Catalogs {
	return &Catalogs{
		api:   api,
		cache: expirable.NewLRU[string, *Catalog](size, nil, ttl),
	}
}

func (c *Catalogs) For(visitor string) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cat, ok := c.cache.Get(visitor); ok {
		return cat
	}
	cat := NewCatalog(c.api)
	c.cache.Add(visitor, cat)
	return cat
}
