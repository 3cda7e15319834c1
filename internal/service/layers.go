package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/views"
)

const layerResource = views.ResourceLayer

// ListLayers returns every layer.
func (s *Service) ListLayers(ctx context.Context) ([]models.AnnotationLayer, error) {
	var layers []models.AnnotationLayer
	if s.cacheGetList(ctx, layerResource, &layers) {
		return layers, nil
	}

	layers, err := s.layers.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetList(ctx, layerResource, layers)
	return layers, nil
}

// GetLayer returns one layer.
func (s *Service) GetLayer(ctx context.Context, id string) (*models.AnnotationLayer, error) {
	var cached models.AnnotationLayer
	if s.cacheGet(ctx, layerResource, id, &cached) {
		return &cached, nil
	}

	layer, err := s.layers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, layerResource, layer.ID, layer)
	return layer, nil
}

// CreateLayer persists a new layer.
func (s *Service) CreateLayer(ctx context.Context, req models.CreateLayerRequest) (*models.AnnotationLayer, error) {
	layer := &models.AnnotationLayer{
		Name:  req.Name,
		Descr: req.Descr,
	}

	if err := s.layers.Create(ctx, layer); err != nil {
		return nil, err
	}

	s.saved(layerResource, "create")
	_ = s.cache.Set(ctx, layerResource, layer.ID, layer)
	return layer, nil
}

// UpdateLayer applies the present fields of req to an existing layer.
func (s *Service) UpdateLayer(ctx context.Context, id string, req models.UpdateLayerRequest) (*models.AnnotationLayer, error) {
	layer, err := s.layers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		layer.Name = *req.Name
	}
	if req.Descr != nil {
		layer.Descr = *req.Descr
	}

	if err := s.layers.Update(ctx, layer); err != nil {
		return nil, err
	}

	s.saved(layerResource, "update")
	_ = s.cache.Set(ctx, layerResource, layer.ID, layer)
	// annotations carry the layer name
	if err := s.cache.Flush(ctx, annotationResource); err != nil {
		s.logger.Warn("Failed to flush annotation cache after layer update", zap.String("id", id), zap.Error(err))
	}
	return layer, nil
}

// DeleteLayer removes a layer that no annotation references.
func (s *Service) DeleteLayer(ctx context.Context, id string) error {
	if err := s.layers.Delete(ctx, id); err != nil {
		return err
	}

	s.saved(layerResource, "delete")
	_ = s.cache.Delete(ctx, layerResource, id)
	return nil
}
