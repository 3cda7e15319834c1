package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/database"
	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/timerange"
	"github.com/annotation-layers/backend/internal/views"
)

const annotationResource = views.ResourceAnnotation

// ListAnnotations returns every annotation with its layer.
func (s *Service) ListAnnotations(ctx context.Context) ([]models.Annotation, error) {
	var annotations []models.Annotation
	if s.cacheGetList(ctx, annotationResource, &annotations) {
		return annotations, nil
	}

	annotations, err := s.annotations.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetList(ctx, annotationResource, annotations)
	return annotations, nil
}

// GetAnnotation returns one annotation.
func (s *Service) GetAnnotation(ctx context.Context, id string) (*models.Annotation, error) {
	var cached models.Annotation
	if s.cacheGet(ctx, annotationResource, id, &cached) {
		return &cached, nil
	}

	annotation, err := s.annotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, annotationResource, annotation.ID, annotation)
	return annotation, nil
}

// CreateAnnotation validates, fills and persists a new annotation.
func (s *Service) CreateAnnotation(ctx context.Context, req models.CreateAnnotationRequest) (*models.Annotation, error) {
	annotation := &models.Annotation{
		Layer:        models.LayerRef{ID: req.Layer},
		ShortDescr:   req.ShortDescr,
		LongDescr:    req.LongDescr,
		StartDttm:    req.StartDttm,
		EndDttm:      req.EndDttm,
		JSONMetadata: req.JSONMetadata,
	}

	if err := s.preSave(annotation); err != nil {
		return nil, err
	}

	if err := s.annotations.Create(ctx, annotation); err != nil {
		return nil, s.storageError(err)
	}

	s.saved(annotationResource, "create")
	_ = s.cache.Set(ctx, annotationResource, annotation.ID, annotation)
	return annotation, nil
}

// UpdateAnnotation merges the present fields of req onto the stored
// annotation, then validates, fills and persists the result.
func (s *Service) UpdateAnnotation(ctx context.Context, id string, req models.UpdateAnnotationRequest) (*models.Annotation, error) {
	annotation, err := s.annotations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(annotation, req)

	if err := s.preSave(annotation); err != nil {
		return nil, err
	}

	if err := s.annotations.Update(ctx, annotation); err != nil {
		return nil, s.storageError(err)
	}

	s.saved(annotationResource, "update")
	_ = s.cache.Set(ctx, annotationResource, annotation.ID, annotation)
	return annotation, nil
}

// DeleteAnnotation removes an annotation.
func (s *Service) DeleteAnnotation(ctx context.Context, id string) error {
	if err := s.annotations.Delete(ctx, id); err != nil {
		return err
	}

	s.saved(annotationResource, "delete")
	_ = s.cache.Delete(ctx, annotationResource, id)
	return nil
}

// preSave runs the time range check on the values about to be stored and,
// only if it passes, copies the set bound onto the missing one.
func (s *Service) preSave(annotation *models.Annotation) error {
	result := timerange.Check(annotation.StartDttm, annotation.EndDttm)
	if !result.Valid() {
		verr := newValidationError(result.Field(), result.Message(), nil)
		s.rejected(verr)
		s.logger.Warn("Rejected annotation time range",
			zap.String("id", annotation.ID),
			zap.String("reason", result.Message()),
		)
		return verr
	}

	annotation.StartDttm, annotation.EndDttm = timerange.Fill(annotation.StartDttm, annotation.EndDttm)
	return nil
}

func (s *Service) storageError(err error) error {
	if errors.Is(err, database.ErrUnknownLayer) {
		verr := newValidationError("layer", MsgUnknownLayer, err)
		s.rejected(verr)
		return verr
	}
	return err
}

func applyUpdate(annotation *models.Annotation, req models.UpdateAnnotationRequest) {
	if req.Layer != nil && *req.Layer != annotation.Layer.ID {
		annotation.Layer = models.LayerRef{ID: *req.Layer}
	}
	if req.ShortDescr != nil {
		annotation.ShortDescr = *req.ShortDescr
	}
	if req.LongDescr != nil {
		annotation.LongDescr = *req.LongDescr
	}
	if req.StartDttm.Set {
		annotation.StartDttm = req.StartDttm.Value
	}
	if req.EndDttm.Set {
		annotation.EndDttm = req.EndDttm.Value
	}
	if req.JSONMetadata != nil {
		annotation.JSONMetadata = *req.JSONMetadata
	}
}
