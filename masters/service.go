package masters

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/opsfloor/mfgops_backend/config"
	"github.com/opsfloor/mfgops_backend/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ListResult carries a collection snapshot. Stale means the records are the
// last-known copy because the refetch failed; the caller shows them anyway
// with an error flag.
type ListResult struct {
	Records   []Record  `json:"records"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
}

// Option is one normalized entry for a selection control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Service is the master-data access layer: uniform CRUD over named
// collections with a per-collection cache, invalidation on mutation, and
// deduplicated fail-soft refetches.
type Service struct {
	registry *Registry
	backing  Backing
	cache    Cache
	notifier *Notifier
	logger   *logrus.Logger
	group    singleflight.Group
}

func NewService(registry *Registry, backing Backing, cache Cache, notifier *Notifier, logger *logrus.Logger) *Service {
	return &Service{
		registry: registry,
		backing:  backing,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) Registry() *Registry {
	return s.registry
}

func (s *Service) Notifier() *Notifier {
	return s.notifier
}

// List returns the collection's records. Fresh cache entries are served
// directly; otherwise a refetch runs (deduplicated across concurrent callers,
// one automatic retry). When the refetch fails the last-known records are
// returned with Stale=true alongside the error; the list may be empty if
// nothing was ever fetched.
func (s *Service) List(ctx context.Context, name string) (*ListResult, error) {
	col, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}

	skipCache, _ := utils.GetSkipCacheFromContext(ctx)

	entry, cacheErr := s.cache.Get(ctx, name)
	if cacheErr != nil {
		config.LogError(s.logger, "masters/service.go", "List", "cache.Get", name, cacheErr)
	}
	if entry != nil && !entry.Stale && !skipCache {
		return &ListResult{Records: entry.Records, FetchedAt: entry.FetchedAt}, nil
	}

	// concurrent identical requests share one backing fetch
	v, fetchErr, _ := s.group.Do(name, func() (interface{}, error) {
		return s.refetch(ctx, col)
	})
	if fetchErr != nil {
		// fail soft: last-known data plus the error
		result := &ListResult{Records: []Record{}, Stale: true}
		if entry != nil {
			result.Records = entry.Records
			result.FetchedAt = entry.FetchedAt
		}
		return result, fetchErr
	}

	fresh := v.(*Entry)
	return &ListResult{Records: fresh.Records, FetchedAt: fresh.FetchedAt}, nil
}

// refetch loads the collection from the backing store (one retry) and
// replaces the cache entry. A best-effort redis lock keeps multiple instances
// from refetching the same collection at once; if the lock cannot be obtained
// the refetch proceeds anyway.
func (s *Service) refetch(ctx context.Context, col Collection) (*Entry, error) {
	if redisLock := config.GetRedisLock(); redisLock != nil {
		lock, lockErr := redisLock.Obtain(ctx, "lock:masters:"+col.Name, 10*time.Second, nil)
		if lockErr == nil {
			defer func() {
				if releaseErr := lock.Release(ctx); releaseErr != nil && releaseErr != redislock.ErrLockNotHeld {
					config.LogError(s.logger, "masters/service.go", "refetch", "lock.Release", col.Name, releaseErr)
				}
			}()
		}
	}

	records, err := s.backing.FetchAll(ctx, col)
	if err != nil {
		// one automatic retry before surfacing the error
		records, err = s.backing.FetchAll(ctx, col)
	}
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}

	entry := &Entry{
		Collection: col.Name,
		Records:    records,
		FetchedAt:  time.Now().UTC(),
	}
	if cacheErr := s.cache.Set(ctx, col.Name, entry); cacheErr != nil {
		config.LogError(s.logger, "masters/service.go", "refetch", "cache.Set", col.Name, cacheErr)
	}
	return entry, nil
}

// Create inserts the record and invalidates the collection's cache entry.
// The record is not validated here; that happened upstream in the form/handler.
func (s *Service) Create(ctx context.Context, name string, rec Record) (Record, error) {
	col, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	created, err := s.backing.Insert(ctx, col, rec)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, col, "create", created.Id(col.KeyField))
	return created, nil
}

// Update replaces the record identified by id. A missing id surfaces
// ErrorRecordNotFound from the backing store and leaves the cache untouched.
func (s *Service) Update(ctx context.Context, name string, id string, rec Record) (Record, error) {
	col, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	updated, err := s.backing.Replace(ctx, col, id, rec)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, col, "update", id)
	return updated, nil
}

// Delete removes the record; deleting a missing id is a no-op.
func (s *Service) Delete(ctx context.Context, name string, id string) error {
	col, err := s.registry.Get(name)
	if err != nil {
		return err
	}
	if err := s.backing.Remove(ctx, col, id); err != nil {
		return err
	}
	s.invalidate(ctx, col, "delete", id)
	return nil
}

// ListOptions returns normalized option records for selection controls.
// The result is always a non-nil slice, even when the backing fetch fails:
// callers must not special-case absence.
func (s *Service) ListOptions(ctx context.Context, name string) ([]Option, error) {
	options := []Option{}

	col, err := s.registry.Get(name)
	if err != nil {
		return options, err
	}

	result, err := s.List(ctx, name)
	if result == nil {
		return options, err
	}

	valueField := col.OptionValue
	if valueField == "" {
		valueField = col.KeyField
	}
	labelField := col.OptionLabel
	if labelField == "" {
		labelField = "name"
	}
	for _, rec := range result.Records {
		options = append(options, Option{
			Value: rec.StringField(valueField),
			Label: rec.StringField(labelField),
		})
	}
	return options, err
}

// InvalidateRemote marks a collection stale in response to an invalidation
// broadcast from another instance. Unknown collections are ignored.
func (s *Service) InvalidateRemote(ctx context.Context, name string) {
	if _, err := s.registry.Get(name); err != nil {
		return
	}
	if err := s.cache.MarkStale(ctx, name); err != nil {
		config.LogError(s.logger, "masters/service.go", "InvalidateRemote", "cache.MarkStale", name, err)
	}
}

// Purge drops a collection's cache entry entirely, last-known data included.
// Ops tooling only: a purged collection cannot fail soft until the next
// successful refetch.
func (s *Service) Purge(ctx context.Context, name string) error {
	if _, err := s.registry.Get(name); err != nil {
		return err
	}
	return s.cache.Purge(ctx, name)
}

// invalidate marks the collection's cache entry stale and emits the event.
// Only the mutated collection is touched: denormalized lookups against other
// collections may stay stale until their own refetch.
func (s *Service) invalidate(ctx context.Context, col Collection, action string, recordId string) {
	if err := s.cache.MarkStale(ctx, col.Name); err != nil {
		config.LogError(s.logger, "masters/service.go", "invalidate", "cache.MarkStale", col.Name, err)
	}
	if s.notifier != nil {
		s.notifier.Publish(ctx, Event{
			Collection: col.Name,
			Action:     action,
			RecordId:   recordId,
		})
	}
}
