package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/opsfloor/mfgops_backend/config"
	"github.com/opsfloor/mfgops_backend/dataview"
	"github.com/opsfloor/mfgops_backend/export"
	"github.com/opsfloor/mfgops_backend/masters"
	"github.com/opsfloor/mfgops_backend/middlewares"
	"github.com/opsfloor/mfgops_backend/utils"
)

// listQuery is the filter state a list page sends along. Every unset member
// means "no constraint".
type listQuery struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	DateField string `form:"date_field"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	Resolve   bool   `form:"resolve"`
	SkipCache bool   `form:"skip_cache"`
}

func (q listQuery) predicates(col masters.Collection) dataview.Predicates {
	preds := dataview.Predicates{}
	if q.Search != "" {
		preds.Search = &dataview.Search{Fields: col.SearchFields, Query: q.Search}
	}
	if q.Status != "" && col.StatusField != "" {
		preds.Equals = map[string]string{col.StatusField: q.Status}
	}
	if q.DateField != "" && (q.DateFrom != "" || q.DateTo != "") {
		dr := &dataview.DateRange{Field: q.DateField}
		if t, err := time.Parse("2006-01-02", q.DateFrom); err == nil {
			dr.From = utils.NilIfEmpty(t)
		}
		if t, err := time.Parse("2006-01-02", q.DateTo); err == nil {
			dr.To = utils.NilIfEmpty(t.Add(24*time.Hour - time.Nanosecond))
		}
		preds.DateRange = dr
	}
	return preds
}

func mastersListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("collection")
		svc := getMastersService()

		col, err := svc.Registry().Get(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var q listQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
			return
		}

		ctx := c.Request.Context()
		if q.SkipCache {
			ctx = utils.SetSkipCacheInContext(ctx, true)
		}

		result, listErr := svc.List(ctx, name)
		if result == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": listErr.Error()})
			return
		}

		records := dataview.Filter(result.Records, q.predicates(col))

		if q.Resolve || config.ResolveDisplayNamesFor(name) {
			records = resolveForeignDisplays(c, col, records)
		}

		body := gin.H{
			"records":    records,
			"fetched_at": result.FetchedAt,
			"stale":      result.Stale,
		}
		if listErr != nil {
			// fail soft: last-known records plus the error
			body["error"] = listErr.Error()
		}
		c.JSON(http.StatusOK, body)
	}
}

// resolveForeignDisplays swaps id-shaped foreign fields for their display
// labels via the per-request batched loaders. Ids the referenced collection
// cannot resolve stay as-is.
func resolveForeignDisplays(c *gin.Context, col masters.Collection, records []masters.Record) []masters.Record {
	for _, fd := range col.ForeignDisplays {
		ids := make([]string, 0, len(records))
		for _, rec := range records {
			if id := rec.StringField(fd.Field); id != "" {
				ids = append(ids, id)
			}
		}
		ids = utils.UniqueSlice(ids)
		if len(ids) == 0 {
			continue
		}
		lookup := middlewares.GetDisplayNames(c.Request.Context(), fd.Collection, ids)
		records = dataview.ResolveForeignDisplay(records, fd.Field, lookup)
	}
	return records
}

func mastersCreateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("collection")
		svc := getMastersService()

		col, err := svc.Registry().Get(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var rec masters.Record
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		if col.Validate != nil {
			if err := col.Validate(c.Request.Context(), rec, ""); err != nil {
				respondValidationError(c, err)
				return
			}
		}

		created, err := svc.Create(c.Request.Context(), name, rec)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func mastersUpdateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("collection")
		id := c.Param("id")
		svc := getMastersService()

		col, err := svc.Registry().Get(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var rec masters.Record
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		if col.Validate != nil {
			if err := col.Validate(c.Request.Context(), rec, id); err != nil {
				respondValidationError(c, err)
				return
			}
		}

		updated, err := svc.Update(c.Request.Context(), name, id, rec)
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

func mastersDeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("collection")
		svc := getMastersService()

		// deleting a missing id is a no-op; only an unknown collection or a
		// backing failure is an error
		if err := svc.Delete(c.Request.Context(), name, c.Param("id")); err != nil {
			if errors.Is(err, utils.ErrorUnknownCollection) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func mastersOptionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("collection")
		svc := getMastersService()

		options, err := svc.ListOptions(c.Request.Context(), name)
		if errors.Is(err, utils.ErrorUnknownCollection) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		// options are always present, even when the backing fetch failed
		body := gin.H{"options": options}
		if err != nil {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusOK, body)
	}
}

// mastersSummaryHandler serves the status-tab badge counts, plus distinct
// values for a dropdown when ?distinct=field is given.
func mastersSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("collection")
		svc := getMastersService()

		col, err := svc.Registry().Get(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		result, listErr := svc.List(c.Request.Context(), name)
		if result == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": listErr.Error()})
			return
		}

		body := gin.H{
			"counts":     dataview.GroupCounts(result.Records, col.StatusField, col.AllBucketExcludes),
			"fetched_at": result.FetchedAt,
			"stale":      result.Stale,
		}
		if field := c.Query("distinct"); field != "" {
			body["distinct"] = dataview.DistinctValues(result.Records, field)
		}
		if listErr != nil {
			body["error"] = listErr.Error()
		}
		c.JSON(http.StatusOK, body)
	}
}

func mastersExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("collection")
		svc := getMastersService()

		col, err := svc.Registry().Get(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var q listQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
			return
		}

		result, listErr := svc.List(c.Request.Context(), name)
		if result == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": listErr.Error()})
			return
		}
		records := dataview.Filter(result.Records, q.predicates(col))

		c.Header("Content-Type", export.ContentType)
		c.Header("Content-Disposition", "attachment; filename="+export.Filename(name))
		if err := export.WriteExcel(c.Writer, col, records); err != nil {
			config.LogError(config.GetLogger(), "mastersHandlers.go", "mastersExportHandler", name, nil, err)
			c.Status(http.StatusInternalServerError)
		}
	}
}

// respondValidationError renders field-keyed messages for struct validation
// failures and a plain error for everything else (uniqueness, foreign ids).
func respondValidationError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
