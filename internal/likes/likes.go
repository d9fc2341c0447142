// Package likes remembers which recitations a browser has liked.
//
// Each browser owns one serialized list of recitation IDs stored under a
// fixed key. The list is read fully and rewritten fully on every mutation
// and is never pruned: an ID present here must never be liked again from
// the same browser.
package likes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// StorageKey is the fixed key the liked list lives under.
const StorageKey = "likedRecitations"

var ErrEmptyID = errors.New("likes: empty recitation id")

// Set is a set of canonical recitation IDs.
type Set map[string]struct{}

// Has reports whether id, in any accepted form, is in the set.
func (s Set) Has(id any) bool {
	_, ok := s[CanonicalID(id)]
	return ok
}

func (s Set) Len() int { return len(s) }

// CanonicalID converts a recitation ID to the string form used for storage
// and comparison, so 5, int64(5), json.Number("5") and "5" are the same ID.
func CanonicalID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case json.Number:
		return strings.TrimSpace(v.String())
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

const lockStripes = 64

// Repository hands out per-browser stores over one backend.
// Mutations of the same key are serialized in-process.
type Repository struct {
	backend Backend
	locks   [lockStripes]sync.Mutex
	claims  singleflight.Group
}

func NewRepository(backend Backend) *Repository {
	return &Repository{backend: backend}
}

// For returns the store of one browser scope (usually a visitor ID).
// An empty scope addresses the bare StorageKey.
func (r *Repository) For(scope string) *Store {
	key := StorageKey
	if scope != "" {
		key = StorageKey + ":" + scope
	}
	return &Store{repo: r, key: key}
}

func (r *Repository) Close() error {
	return r.backend.Close()
}

func (r *Repository) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &r.locks[h.Sum32()%lockStripes]
}

// Store is the liked list of a single browser.
type Store struct {
	repo *Repository
	key  string
}

func (s *Store) Key() string { return s.key }

// LikedIDs returns the current set.
func (s *Store) LikedIDs(ctx context.Context) (Set, error) {
	ids, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	set := make(Set, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// IsLiked reports whether id was liked from this browser.
func (s *Store) IsLiked(ctx context.Context, id any) (bool, error) {
	set, err := s.LikedIDs(ctx)
	if err != nil {
		return false, err
	}
	return set.Has(id), nil
}

// Claim runs like for id unless a call for the same browser and id is
// already running, in which case it waits for that call and shares its
// result. like never runs twice at once for one browser and id.
func (s *Store) Claim(id any, like func() (any, error)) (any, error) {
	canon := CanonicalID(id)
	if canon == "" {
		return nil, ErrEmptyID
	}
	v, err, shared := s.repo.claims.Do(s.key+"\x00"+canon, like)
	if shared {
		log.Debug().Str("key", s.key).Str("id", canon).Msg("joined pending like")
	}
	return v, err
}

// Add records id as liked. Adding a present ID is a no-op.
func (s *Store) Add(ctx context.Context, id any) error {
	canon := CanonicalID(id)
	if canon == "" {
		return ErrEmptyID
	}

	mu := s.repo.lock(s.key)
	mu.Lock()
	defer mu.Unlock()

	ids, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == canon {
			return nil
		}
	}
	ids = append(ids, canon)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode liked ids: %w", err)
	}
	if err := s.repo.backend.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save liked ids: %w", err)
	}
	log.Debug().Str("key", s.key).Str("id", canon).Int("count", len(ids)).Msg("recitation liked")
	return nil
}

func (s *Store) load(ctx context.Context) ([]string, error) {
	data, err := s.repo.backend.Load(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load liked ids: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode liked ids: %w", err)
	}
	return ids, nil
}
