package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsfloor/mfgops_backend/localstore"
	"github.com/opsfloor/mfgops_backend/utils"
)

// registerLocalRoutes mounts CRUD for the locally-persisted entities. When
// the local store never came up the routes answer 503 instead of vanishing.
func registerLocalRoutes(g *gin.RouterGroup) {
	g.GET("/jobcards", localListHandler(func(s *localstore.Stores) (any, error) { return s.JobCards.List() }))
	g.POST("/jobcards", localCreateHandler(func(s *localstore.Stores, c *gin.Context) (any, error) {
		return bindAndCreate(c, s.JobCards)
	}))
	g.PUT("/jobcards/:id", localUpdateHandler(func(s *localstore.Stores, c *gin.Context) (any, error) {
		return bindAndUpdate(c, s.JobCards)
	}))
	g.DELETE("/jobcards/:id", localDeleteHandler(func(s *localstore.Stores, id string) error {
		return s.JobCards.Delete(id)
	}))

	g.GET("/inventory", localListHandler(func(s *localstore.Stores) (any, error) { return s.Inventory.List() }))
	g.POST("/inventory", localCreateHandler(func(s *localstore.Stores, c *gin.Context) (any, error) {
		return bindAndCreate(c, s.Inventory)
	}))
	g.PUT("/inventory/:id", localUpdateHandler(func(s *localstore.Stores, c *gin.Context) (any, error) {
		return bindAndUpdate(c, s.Inventory)
	}))
	g.DELETE("/inventory/:id", localDeleteHandler(func(s *localstore.Stores, id string) error {
		return s.Inventory.Delete(id)
	}))

	g.GET("/handovers", localListHandler(func(s *localstore.Stores) (any, error) { return s.Handovers.List() }))
	g.POST("/handovers", localCreateHandler(func(s *localstore.Stores, c *gin.Context) (any, error) {
		return bindAndCreate(c, s.Handovers)
	}))
	g.PUT("/handovers/:id", localUpdateHandler(func(s *localstore.Stores, c *gin.Context) (any, error) {
		return bindAndUpdate(c, s.Handovers)
	}))
	g.DELETE("/handovers/:id", localDeleteHandler(func(s *localstore.Stores, id string) error {
		return s.Handovers.Delete(id)
	}))

	g.GET("/rejections", localListHandler(func(s *localstore.Stores) (any, error) { return s.Rejections.List() }))
	g.POST("/rejections", localCreateHandler(func(s *localstore.Stores, c *gin.Context) (any, error) {
		return bindAndCreate(c, s.Rejections)
	}))
	g.PUT("/rejections/:id", localUpdateHandler(func(s *localstore.Stores, c *gin.Context) (any, error) {
		return bindAndUpdate(c, s.Rejections)
	}))
	g.DELETE("/rejections/:id", localDeleteHandler(func(s *localstore.Stores, id string) error {
		return s.Rejections.Delete(id)
	}))

	// derived view over the inventory, not a fifth entity
	g.GET("/reports/low-stock", localListHandler(func(s *localstore.Stores) (any, error) {
		return s.LowStockItems()
	}))
}

func bindAndCreate[T any, PT interface {
	*T
	localstore.Entity
}](c *gin.Context, store *localstore.Store[PT]) (any, error) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		return nil, errInvalidLocalBody
	}
	return store.Create(PT(&item))
}

func bindAndUpdate[T any, PT interface {
	*T
	localstore.Entity
}](c *gin.Context, store *localstore.Store[PT]) (any, error) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		return nil, errInvalidLocalBody
	}
	return store.Update(c.Param("id"), PT(&item))
}

var errInvalidLocalBody = errors.New("invalid request")

func localListHandler(list func(*localstore.Stores) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		stores := getLocalStores()
		if stores == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": utils.ErrorLocalStoreDisabled.Error()})
			return
		}
		items, err := list(stores)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": items})
	}
}

func localCreateHandler(create func(*localstore.Stores, *gin.Context) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		stores := getLocalStores()
		if stores == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": utils.ErrorLocalStoreDisabled.Error()})
			return
		}
		created, err := create(stores, c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func localUpdateHandler(update func(*localstore.Stores, *gin.Context) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		stores := getLocalStores()
		if stores == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": utils.ErrorLocalStoreDisabled.Error()})
			return
		}
		updated, err := update(stores, c)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func localDeleteHandler(remove func(*localstore.Stores, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		stores := getLocalStores()
		if stores == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": utils.ErrorLocalStoreDisabled.Error()})
			return
		}
		if err := remove(stores, c.Param("id")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
