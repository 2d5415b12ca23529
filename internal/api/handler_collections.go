package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"forklift-fleet-backend/internal/filter"
	"forklift-fleet-backend/internal/form"
	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/store"
)

// collection wires one repository to the list, create, read, update and
// delete routes. In is the JSON payload accepted by create and update.
type collection[T, In any] struct {
	name    string
	repo    func(store.Store) store.Repository[T]
	matcher filter.Matcher[T]
	build   func(In) (T, error)
	// resolve fills fields copied from referenced records. It may be nil.
	resolve func(ctx context.Context, s store.Store, record *T) error
}

func registerCollection[T, In any](g *gin.RouterGroup, h *Handler, col collection[T, In], caching gin.HandlerFunc) {
	path := "/" + col.name
	g.GET(path, caching, listRecords(h, col))
	g.POST(path, createRecord(h, col))
	g.GET(path+"/:id", caching, getRecord(h, col))
	g.PUT(path+"/:id", updateRecord(h, col))
	g.DELETE(path+"/:id", deleteRecord(h, col))
}

// criteriaFromQuery reads "q" as the text query and every other parameter
// as a filter dimension.
func criteriaFromQuery(c *gin.Context) filter.Criteria {
	params := c.Request.URL.Query()
	filters := make(map[string]string, len(params))
	for key, values := range params {
		if key == "q" || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}
	return filter.NewCriteria(params.Get("q"), filters)
}

func listRecords[T, In any](h *Handler, col collection[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		criteria := criteriaFromQuery(c)
		if err := col.matcher.Validate(criteria); err != nil {
			respondError(c, err)
			return
		}

		records, err := col.repo(h.store).List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		h.metrics.FilterRequests.WithLabelValues(col.name).Inc()

		matched := col.matcher.Filter(records, criteria)
		if matched == nil {
			matched = []T{}
		}
		c.JSON(http.StatusOK, matched)
	}
}

func getRecord[T, In any](h *Handler, col collection[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := col.repo(h.store).Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func (col collection[T, In]) decode(c *gin.Context, s store.Store) (T, bool) {
	var zero T
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return zero, false
	}
	record, err := col.build(in)
	if err != nil {
		respondError(c, err)
		return zero, false
	}
	if col.resolve != nil {
		if err := col.resolve(c.Request.Context(), s, &record); err != nil {
			respondError(c, err)
			return zero, false
		}
	}
	return record, true
}

func createRecord[T, In any](h *Handler, col collection[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, ok := col.decode(c, h.store)
		if !ok {
			return
		}
		created, err := col.repo(h.store).Create(c.Request.Context(), record)
		if err != nil {
			respondError(c, err)
			return
		}
		h.metrics.Mutations.WithLabelValues(col.name, "create").Inc()
		c.JSON(http.StatusCreated, created)
	}
}

func updateRecord[T, In any](h *Handler, col collection[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, ok := col.decode(c, h.store)
		if !ok {
			return
		}
		updated, err := col.repo(h.store).Update(c.Request.Context(), c.Param("id"), record)
		if err != nil {
			respondError(c, err)
			return
		}
		h.metrics.Mutations.WithLabelValues(col.name, "update").Inc()
		c.JSON(http.StatusOK, updated)
	}
}

func deleteRecord[T, In any](h *Handler, col collection[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := col.repo(h.store).Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		h.metrics.Mutations.WithLabelValues(col.name, "delete").Inc()
		c.Status(http.StatusNoContent)
	}
}

// --- Collections ---

var forkliftCollection = collection[model.Forklift, form.ForkliftInput]{
	name:    "forklifts",
	repo:    store.Store.Forklifts,
	matcher: filter.Forklifts,
	build:   form.BuildForklift,
}

var operatorCollection = collection[model.Operator, form.OperatorInput]{
	name:    "operators",
	repo:    store.Store.Operators,
	matcher: filter.Operators,
	build:   form.BuildOperator,
}

var maintenanceCollection = collection[model.Maintenance, form.MaintenanceInput]{
	name:    "maintenances",
	repo:    store.Store.Maintenances,
	matcher: filter.Maintenances,
	build:   form.BuildMaintenance,
	resolve: func(ctx context.Context, s store.Store, m *model.Maintenance) error {
		return resolveForklift(ctx, s, m.ForkliftID, &m.ForkliftModel)
	},
}

var gasSupplyCollection = collection[model.GasSupply, form.GasSupplyInput]{
	name:    "gas-supplies",
	repo:    store.Store.GasSupplies,
	matcher: filter.GasSupplies,
	build:   form.BuildGasSupply,
	resolve: func(ctx context.Context, s store.Store, g *model.GasSupply) error {
		return resolveForklift(ctx, s, g.ForkliftID, &g.ForkliftModel)
	},
}

var operationCollection = collection[model.Operation, form.OperationInput]{
	name:    "operations",
	repo:    store.Store.Operations,
	matcher: filter.Operations,
	build:   form.BuildOperation,
	resolve: func(ctx context.Context, s store.Store, o *model.Operation) error {
		if err := resolveForklift(ctx, s, o.ForkliftID, &o.ForkliftModel); err != nil {
			return err
		}
		return resolveOperator(ctx, s, o.OperatorID, &o.OperatorName)
	},
}

// resolveForklift checks that id names a forklift and copies its model.
func resolveForklift(ctx context.Context, s store.Store, id string, modelName *string) error {
	f, err := s.Forklifts().Get(ctx, id)
	if err != nil {
		return unknownReference(err, "forkliftId", "unknown forklift")
	}
	*modelName = f.Model
	return nil
}

func resolveOperator(ctx context.Context, s store.Store, id string, name *string) error {
	op, err := s.Operators().Get(ctx, id)
	if err != nil {
		return unknownReference(err, "operatorId", "unknown operator")
	}
	*name = op.Name
	return nil
}

func unknownReference(err error, field, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &form.ValidationError{Fields: map[string]string{field: msg}}
	}
	return err
}
