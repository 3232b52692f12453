package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/opsfloor/mfgops_backend/masters"
)

type displayNameReader struct {
	service    *masters.Service
	collection string
	labelField string
}

// getDisplayNames resolves record ids to their display label in one cached
// collection read. Ids with no match resolve to the empty string; callers
// fall back to rendering the raw id.
func (r *displayNameReader) getDisplayNames(ctx context.Context, ids []string) []*dataloader.Result[string] {
	col, err := r.service.Registry().Get(r.collection)
	if err != nil {
		return handleError[string](len(ids), err)
	}

	result, listErr := r.service.List(ctx, r.collection)
	if result == nil {
		return handleError[string](len(ids), listErr)
	}

	labels := make(map[string]string, len(result.Records))
	for _, rec := range result.Records {
		labels[rec.Id(col.KeyField)] = rec.StringField(r.labelField)
	}

	loaderResults := make([]*dataloader.Result[string], 0, len(ids))
	for _, id := range ids {
		loaderResults = append(loaderResults, &dataloader.Result[string]{Data: labels[id]})
	}
	return loaderResults
}

// GetDisplayNames resolves many ids in one batched load and returns the
// id → label lookup. Without a loader the lookup is empty and callers render
// raw ids.
func GetDisplayNames(ctx context.Context, collection string, ids []string) map[string]string {
	lookup := make(map[string]string, len(ids))
	loaders := For(ctx)
	if loaders == nil {
		return lookup
	}
	loader, ok := loaders.displayNameLoaders[collection]
	if !ok {
		return lookup
	}

	labels, _ := loader.LoadMany(ctx, ids)()
	for i, id := range ids {
		if i < len(labels) && labels[i] != "" {
			lookup[id] = labels[i]
		}
	}
	return lookup
}
