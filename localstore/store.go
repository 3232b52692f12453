package localstore

import (
	"time"

	"github.com/opsfloor/mfgops_backend/config"
	"github.com/opsfloor/mfgops_backend/models"
	"github.com/opsfloor/mfgops_backend/utils"
	"github.com/sirupsen/logrus"
)

// Entity is implemented by every locally-persisted record type via the
// embedded models.LocalMeta.
type Entity interface {
	Meta() *models.LocalMeta
}

// Store is a typed entity store over one KV key. Reads degrade to an empty
// sequence when the key is absent or its content fails to parse; writes
// overwrite the whole key (last-write-wins).
type Store[T Entity] struct {
	kv     KV
	key    string
	logger *logrus.Logger
}

func NewStore[T Entity](kv KV, key string, logger *logrus.Logger) *Store[T] {
	return &Store[T]{kv: kv, key: key, logger: logger}
}

// List returns every record under the store's key. Malformed content is
// logged and treated as empty rather than failing the page.
func (s *Store[T]) List() ([]T, error) {
	raw, exists, err := s.kv.Get(s.key)
	if err != nil {
		return nil, err
	}
	if !exists || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := utils.UnmarshalFromJSON([]byte(raw), &items); err != nil {
		config.LogError(s.logger, "localstore/store.go", "List", "Unmarshal "+s.key, nil, err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *Store[T]) Get(id string) (T, error) {
	var zero T
	items, err := s.List()
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.Meta().ID == id {
			return item, nil
		}
	}
	return zero, utils.ErrorRecordNotFound
}

// Create assigns an id and stamps, then appends and rewrites the sequence.
func (s *Store[T]) Create(item T) (T, error) {
	var zero T
	items, err := s.List()
	if err != nil {
		return zero, err
	}

	meta := item.Meta()
	if meta.ID == "" {
		meta.ID = utils.GenerateLocalId()
	}
	now := time.Now().UTC()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	items = append(items, item)
	if err := s.write(items); err != nil {
		return zero, err
	}
	return item, nil
}

// Update replaces the record with the matching id (whole-record replace,
// original createdAt preserved). Missing id returns ErrorRecordNotFound.
func (s *Store[T]) Update(id string, item T) (T, error) {
	var zero T
	items, err := s.List()
	if err != nil {
		return zero, err
	}

	for i, existing := range items {
		if existing.Meta().ID != id {
			continue
		}
		meta := item.Meta()
		meta.ID = id
		meta.CreatedAt = existing.Meta().CreatedAt
		meta.UpdatedAt = time.Now().UTC()
		items[i] = item
		if err := s.write(items); err != nil {
			return zero, err
		}
		return item, nil
	}
	return zero, utils.ErrorRecordNotFound
}

// Delete removes the record; deleting a missing id is a no-op.
func (s *Store[T]) Delete(id string) error {
	items, err := s.List()
	if err != nil {
		return err
	}

	kept := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if item.Meta().ID == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil
	}
	return s.write(kept)
}

func (s *Store[T]) write(items []T) error {
	raw, err := utils.MarshalToJSON(items)
	if err != nil {
		return err
	}
	return s.kv.Set(s.key, raw)
}
