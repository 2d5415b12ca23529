package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"forklift-fleet-backend/internal/filter"
	"forklift-fleet-backend/internal/form"
	"forklift-fleet-backend/internal/metrics"
	"forklift-fleet-backend/internal/session"
	"forklift-fleet-backend/internal/status"
	"forklift-fleet-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store               store.Store
	classifier          *status.Classifier
	sessions            *session.Manager
	metrics             *metrics.Metrics
	webpush             *webpush.Options
	maintenanceInterval int
}

// Options are the optional dependencies of a Handler.
type Options struct {
	Metrics             *metrics.Metrics
	Webpush             *webpush.Options
	MaintenanceInterval int
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, classifier *status.Classifier, sessions *session.Manager, opts Options) *Handler {
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}
	return &Handler{
		store:               s,
		classifier:          classifier,
		sessions:            sessions,
		metrics:             m,
		webpush:             opts.Webpush,
		maintenanceInterval: opts.MaintenanceInterval,
	}
}

// respondError maps domain errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateID), errors.Is(err, session.ErrUserExists):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, filter.ErrInvalidFilterDimension), errors.Is(err, status.ErrInvalidDate):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, status.ErrInvalidHourMeter):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidCredentials), errors.Is(err, session.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
