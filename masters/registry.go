package masters

import (
	"context"

	"github.com/opsfloor/mfgops_backend/utils"
)

// ForeignDisplay binds an id-shaped field to the collection that can resolve
// it into a human-readable label.
type ForeignDisplay struct {
	Field      string
	Collection string
	LabelField string
}

// NestedBinding describes a sub-record table persisted with its parent.
// Whole-record replace semantics: on update the nested rows are deleted and
// re-inserted from the incoming record.
type NestedBinding struct {
	Field      string
	Table      string
	ForeignKey string
}

// Collection describes one named partition of master records.
type Collection struct {
	Name         string
	Table        string
	KeyField     string
	StatusField  string
	SearchFields []string
	OptionValue  string
	OptionLabel  string

	// AllBucketExcludes lists statuses the "all" tab count leaves out.
	// Per-page business policy, deliberately not unified across collections.
	AllBucketExcludes []string

	ForeignDisplays []ForeignDisplay
	Nested          *NestedBinding

	// Validate checks an incoming record before create/update. It is invoked
	// by the HTTP handler, not by the access layer itself: validation is the
	// caller's responsibility.
	Validate func(ctx context.Context, rec Record, exceptId string) error
}

// Registry maps collection names to their descriptors.
type Registry struct {
	collections map[string]Collection
}

func NewRegistry(collections ...Collection) *Registry {
	m := make(map[string]Collection, len(collections))
	for _, c := range collections {
		if c.KeyField == "" {
			c.KeyField = "id"
		}
		m[c.Name] = c
	}
	return &Registry{collections: m}
}

func (r *Registry) Get(name string) (Collection, error) {
	c, ok := r.collections[name]
	if !ok {
		return Collection{}, utils.ErrorUnknownCollection
	}
	return c, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	return names
}
