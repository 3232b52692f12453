package masters

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opsfloor/mfgops_backend/config"
	"github.com/opsfloor/mfgops_backend/utils"
)

// fakeBacking is an in-memory Backing with a fetch counter, failure controls
// and an optional fetch delay, so tests can observe caching, retry and
// deduplication behavior.
type fakeBacking struct {
	mu           sync.Mutex
	records      map[string][]Record
	nextId       int
	fetches      int32
	failing      bool
	failuresLeft int
	delay        time.Duration
}

func newFakeBacking() *fakeBacking {
	return &fakeBacking{records: make(map[string][]Record), nextId: 1}
}

func (b *fakeBacking) FetchAll(ctx context.Context, col Collection) ([]Record, error) {
	atomic.AddInt32(&b.fetches, 1)
	b.mu.Lock()
	delay := b.delay
	b.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return nil, errors.New("backing unavailable")
	}
	if b.failuresLeft > 0 {
		b.failuresLeft--
		return nil, errors.New("backing unavailable")
	}
	return CloneAll(b.records[col.Name]), nil
}

func (b *fakeBacking) Insert(ctx context.Context, col Collection, rec Record) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return nil, errors.New("backing unavailable")
	}
	created := rec.Clone()
	created[col.KeyField] = fmt.Sprint(b.nextId)
	b.nextId++
	b.records[col.Name] = append(b.records[col.Name], created)
	return created, nil
}

func (b *fakeBacking) Replace(ctx context.Context, col Collection, id string, rec Record) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.records[col.Name] {
		if existing.Id(col.KeyField) == id {
			updated := rec.Clone()
			updated[col.KeyField] = id
			b.records[col.Name][i] = updated
			return updated, nil
		}
	}
	return nil, utils.ErrorRecordNotFound
}

func (b *fakeBacking) Remove(ctx context.Context, col Collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := make([]Record, 0, len(b.records[col.Name]))
	for _, rec := range b.records[col.Name] {
		if rec.Id(col.KeyField) != id {
			kept = append(kept, rec)
		}
	}
	b.records[col.Name] = kept
	return nil
}

func (b *fakeBacking) setFailing(failing bool) {
	b.mu.Lock()
	b.failing = failing
	b.mu.Unlock()
}

func (b *fakeBacking) setFailures(n int) {
	b.mu.Lock()
	b.failuresLeft = n
	b.mu.Unlock()
}

func (b *fakeBacking) setDelay(d time.Duration) {
	b.mu.Lock()
	b.delay = d
	b.mu.Unlock()
}

func testRegistry() *Registry {
	return NewRegistry(
		Collection{Name: "machine", Table: "machines", StatusField: "current_status", OptionLabel: "name"},
		Collection{Name: "operator", Table: "operators", StatusField: "current_status", OptionLabel: "name"},
	)
}

func newTestService(backing Backing) *Service {
	logger := config.GetLogger()
	return NewService(testRegistry(), backing, NewMemoryCache(), NewNotifier(logger), logger)
}

func TestListUnknownCollection(t *testing.T) {
	svc := newTestService(newFakeBacking())
	if _, err := svc.List(context.Background(), "nonsense"); !errors.Is(err, utils.ErrorUnknownCollection) {
		t.Fatalf("expected ErrorUnknownCollection, got %v", err)
	}
}

func TestCreateThenListShowsRecord(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	created, err := svc.Create(ctx, "machine", Record{"name": "VMC-1", "current_status": "Running"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Id("id") == "" {
		t.Fatalf("created record has no id: %v", created)
	}

	result, err := svc.List(ctx, "machine")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if got := result.Records[0].StringField("name"); got != "VMC-1" {
		t.Fatalf("expected name VMC-1, got %q", got)
	}
	if result.Stale {
		t.Fatal("fresh list must not be stale")
	}
}

func TestListServesFromCache(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("first List: %v", err)
	}
	before := atomic.LoadInt32(&backing.fetches)
	for i := 0; i < 5; i++ {
		if _, err := svc.List(ctx, "machine"); err != nil {
			t.Fatalf("List %d: %v", i, err)
		}
	}
	if after := atomic.LoadInt32(&backing.fetches); after != before {
		t.Fatalf("cached lists must not refetch: %d fetches before, %d after", before, after)
	}
}

func TestSkipCacheForcesRefetch(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("first List: %v", err)
	}
	before := atomic.LoadInt32(&backing.fetches)
	if _, err := svc.List(utils.SetSkipCacheInContext(ctx, true), "machine"); err != nil {
		t.Fatalf("skip-cache List: %v", err)
	}
	if after := atomic.LoadInt32(&backing.fetches); after == before {
		t.Fatal("skip_cache list must hit the backing store")
	}
}

func TestConcurrentListsShareOneFetch(t *testing.T) {
	backing := newFakeBacking()
	backing.setDelay(50 * time.Millisecond)
	svc := newTestService(backing)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.List(context.Background(), "machine")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
	}
	if got := atomic.LoadInt32(&backing.fetches); got != 1 {
		t.Fatalf("concurrent lists must share one backing fetch, got %d", got)
	}
}

func TestListRetriesOnceBeforeFailing(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	if _, err := svc.Create(ctx, "machine", Record{"name": "VMC-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	backing.setFailures(1)

	result, err := svc.List(ctx, "machine")
	if err != nil {
		t.Fatalf("a single failure must be absorbed by the retry: %v", err)
	}
	if result.Stale {
		t.Fatal("retried list must come back fresh")
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record from the retry, got %d", len(result.Records))
	}
	if got := atomic.LoadInt32(&backing.fetches); got != 2 {
		t.Fatalf("expected the failed fetch plus one retry, got %d", got)
	}

	// two consecutive failures exhaust the retry
	svc.InvalidateRemote(ctx, "machine")
	backing.setFailures(2)
	if _, err := svc.List(ctx, "machine"); err == nil {
		t.Fatal("expected the error once the retry is exhausted")
	}
}

func TestDeleteThenListAbsent(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	created, err := svc.Create(ctx, "machine", Record{"name": "VMC-1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, "machine", created.Id("id")); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	result, err := svc.List(ctx, "machine")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected no records after delete, got %d", len(result.Records))
	}
}

func TestDeleteMissingIdIsNoOp(t *testing.T) {
	svc := newTestService(newFakeBacking())
	if err := svc.Delete(context.Background(), "machine", "999"); err != nil {
		t.Fatalf("deleting a missing id must be a no-op, got %v", err)
	}
}

func TestUpdateMissingIdNotFound(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	if _, err := svc.Create(ctx, "machine", Record{"name": "VMC-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// warm cache
	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("List: %v", err)
	}
	before := atomic.LoadInt32(&backing.fetches)

	if _, err := svc.Update(ctx, "machine", "999", Record{"name": "ghost"}); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected ErrorRecordNotFound, got %v", err)
	}

	// failed update must not invalidate: next list stays cached
	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("List after failed update: %v", err)
	}
	if after := atomic.LoadInt32(&backing.fetches); after != before {
		t.Fatal("failed update must leave the cache entry fresh")
	}
}

func TestStaleServeOnFetchFailure(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	created, err := svc.Create(ctx, "machine", Record{"name": "VMC-1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("warm List: %v", err)
	}

	// mutate to mark the entry stale, then break the backing store
	if _, err := svc.Update(ctx, "machine", created.Id("id"), Record{"name": "VMC-1B"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	backing.setFailing(true)

	result, err := svc.List(ctx, "machine")
	if err == nil {
		t.Fatal("expected an error from the failed refetch")
	}
	if result == nil || !result.Stale {
		t.Fatalf("expected a stale last-known result, got %+v", result)
	}
	if len(result.Records) != 1 {
		t.Fatalf("stale serve must carry the last-known records, got %d", len(result.Records))
	}
}

func TestFetchFailureWithEmptyCache(t *testing.T) {
	backing := newFakeBacking()
	backing.setFailing(true)
	svc := newTestService(backing)

	result, err := svc.List(context.Background(), "machine")
	if err == nil {
		t.Fatal("expected an error")
	}
	if result == nil || result.Records == nil || len(result.Records) != 0 {
		t.Fatalf("expected an empty non-nil record list, got %+v", result)
	}
	if !result.Stale {
		t.Fatal("empty failed result must be flagged stale")
	}
}

func TestInvalidationIsPerCollection(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("List machine: %v", err)
	}
	if _, err := svc.List(ctx, "operator"); err != nil {
		t.Fatalf("List operator: %v", err)
	}
	before := atomic.LoadInt32(&backing.fetches)

	// mutating machine must not evict operator
	if _, err := svc.Create(ctx, "machine", Record{"name": "VMC-2"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.List(ctx, "operator"); err != nil {
		t.Fatalf("List operator: %v", err)
	}
	if after := atomic.LoadInt32(&backing.fetches); after != before {
		t.Fatal("mutating one collection must not invalidate another")
	}
}

func TestListOptionsNeverNil(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	backing.setFailing(true)
	svc := newTestService(backing)

	options, err := svc.ListOptions(ctx, "machine")
	if err == nil {
		t.Fatal("expected the backing error to surface")
	}
	if options == nil {
		t.Fatal("options must be non-nil even on failure")
	}
	if len(options) != 0 {
		t.Fatalf("expected empty options, got %d", len(options))
	}

	options, err = svc.ListOptions(ctx, "nonsense")
	if !errors.Is(err, utils.ErrorUnknownCollection) {
		t.Fatalf("expected ErrorUnknownCollection, got %v", err)
	}
	if options == nil {
		t.Fatal("options must be non-nil for unknown collections too")
	}
}

func TestListOptionsMapping(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeBacking())

	if _, err := svc.Create(ctx, "machine", Record{"name": "VMC-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	options, err := svc.ListOptions(ctx, "machine")
	if err != nil {
		t.Fatalf("ListOptions: %v", err)
	}
	if len(options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(options))
	}
	if options[0].Value != "1" || options[0].Label != "VMC-1" {
		t.Fatalf("unexpected option: %+v", options[0])
	}
}

func TestInvalidateRemoteMarksStale(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("List: %v", err)
	}
	before := atomic.LoadInt32(&backing.fetches)

	svc.InvalidateRemote(ctx, "machine")
	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("List after remote invalidation: %v", err)
	}
	if after := atomic.LoadInt32(&backing.fetches); after == before {
		t.Fatal("remote invalidation must force a refetch")
	}

	// unknown collections are ignored, not an error
	svc.InvalidateRemote(ctx, "nonsense")
}

func TestPurgeDropsLastKnownData(t *testing.T) {
	ctx := context.Background()
	backing := newFakeBacking()
	svc := newTestService(backing)

	if _, err := svc.Create(ctx, "machine", Record{"name": "VMC-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.List(ctx, "machine"); err != nil {
		t.Fatalf("warm List: %v", err)
	}

	if err := svc.Purge(ctx, "machine"); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	backing.setFailing(true)

	// unlike mark-stale, a purge leaves nothing to fail soft onto
	result, err := svc.List(ctx, "machine")
	if err == nil {
		t.Fatal("expected an error from the failed refetch")
	}
	if len(result.Records) != 0 {
		t.Fatalf("purged entry must not serve last-known records, got %d", len(result.Records))
	}

	if err := svc.Purge(ctx, "nonsense"); !errors.Is(err, utils.ErrorUnknownCollection) {
		t.Fatalf("expected ErrorUnknownCollection, got %v", err)
	}
}

func TestNotifierEventCarriesActor(t *testing.T) {
	ctx := utils.SetUserNameInContext(utils.SetUserIdInContext(context.Background(), 7), "s.patil")
	svc := newTestService(newFakeBacking())
	events := svc.Notifier().Subscribe()

	if _, err := svc.Create(ctx, "machine", Record{"name": "VMC-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case ev := <-events:
		if ev.ActorId != 7 || ev.Actor != "s.patil" {
			t.Fatalf("unexpected actor on event: %+v", ev)
		}
	default:
		t.Fatal("expected an invalidation event after create")
	}
}

func TestNotifierReceivesMutationEvents(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeBacking())
	events := svc.Notifier().Subscribe()

	created, err := svc.Create(ctx, "machine", Record{"name": "VMC-1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Collection != "machine" || ev.Action != "create" || ev.RecordId != created.Id("id") {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected an invalidation event after create")
	}
}
