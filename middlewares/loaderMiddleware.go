package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/opsfloor/mfgops_backend/masters"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap the per-request display-name loaders to inject via middleware.
// One loader per collection that other collections reference for display.
type Loaders struct {
	displayNameLoaders map[string]*dataloader.Loader[string, string]
}

// NewLoaders instantiates the display-name loaders over the master-data
// service, one per collection named in a registered foreign display.
func NewLoaders(service *masters.Service) *Loaders {
	loaders := &Loaders{
		displayNameLoaders: make(map[string]*dataloader.Loader[string, string]),
	}
	for _, name := range service.Registry().Names() {
		col, err := service.Registry().Get(name)
		if err != nil {
			continue
		}
		for _, fd := range col.ForeignDisplays {
			if _, ok := loaders.displayNameLoaders[fd.Collection]; ok {
				continue
			}
			reader := &displayNameReader{
				service:    service,
				collection: fd.Collection,
				labelField: fd.LabelField,
			}
			loaders.displayNameLoaders[fd.Collection] = dataloader.NewBatchedLoader(
				reader.getDisplayNames,
				dataloader.WithWait[string, string](time.Millisecond),
			)
		}
	}
	return loaders
}

func LoaderMiddleware(service *masters.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(service)
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(loadersKey).(*Loaders)
	return loaders
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}
