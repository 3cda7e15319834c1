// Package service is the save pipeline shared by the REST and admin
// adapters: it validates, applies the pre-save rules, persists through the
// repositories and keeps the cache coherent.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/cache"
	"github.com/annotation-layers/backend/internal/database"
	"github.com/annotation-layers/backend/internal/metrics"
	"github.com/annotation-layers/backend/internal/views"
)

var (
	// ErrNotFound is returned when the requested row doesn't exist.
	ErrNotFound = database.ErrNotFound

	// ErrLayerInUse is returned when deleting a layer that still has annotations.
	ErrLayerInUse = database.ErrLayerInUse
)

// MsgUnknownLayer is reported against the layer field when it names no layer.
const MsgUnknownLayer = "Annotation layer does not exist."

// ValidationError aborts a save. Fields maps each offending column to its
// untranslated message keys.
type ValidationError struct {
	Fields map[string][]string
	Err    error
}

func newValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}, Err: err}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AsValidationError extracts a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

// Service coordinates repositories, cache and metrics.
type Service struct {
	layers      database.LayerRepository
	annotations database.AnnotationRepository
	cache       cache.Cache
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// New creates a new Service.
func New(
	layers database.LayerRepository,
	annotations database.AnnotationRepository,
	c cache.Cache,
	m *metrics.Collector,
	logger *zap.Logger,
) *Service {
	return &Service{
		layers:      layers,
		annotations: annotations,
		cache:       c,
		metrics:     m,
		logger:      logger,
	}
}

func (s *Service) cacheGet(ctx context.Context, resource, id string, dst any) bool {
	found, err := s.cache.Get(ctx, resource, id, dst)
	return s.countLookup(resource, found && err == nil)
}

func (s *Service) cacheGetList(ctx context.Context, resource string, dst any) bool {
	found, err := s.cache.GetList(ctx, resource, dst)
	return s.countLookup(resource, found && err == nil)
}

func (s *Service) countLookup(resource string, hit bool) bool {
	if hit {
		s.metrics.CacheHits.WithLabelValues(resource).Inc()
	} else {
		s.metrics.CacheMisses.WithLabelValues(resource).Inc()
	}
	return hit
}

func (s *Service) saved(resource, operation string) {
	s.metrics.Saves.WithLabelValues(resource, operation).Inc()
}

func (s *Service) rejected(verr *ValidationError) {
	for field := range verr.Fields {
		s.metrics.ValidationFailures.WithLabelValues(views.ResourceAnnotation, field).Inc()
	}
}
