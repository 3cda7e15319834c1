package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/models"
)

// LayerRepository defines the interface for annotation layer data operations.
type LayerRepository interface {
	// Create inserts a new layer, assigning its ID and timestamps.
	Create(ctx context.Context, layer *models.AnnotationLayer) error

	// GetByID retrieves a layer by its ID.
	GetByID(ctx context.Context, id string) (*models.AnnotationLayer, error)

	// GetAll retrieves all layers.
	GetAll(ctx context.Context) ([]models.AnnotationLayer, error)

	// Update writes the editable fields of an existing layer.
	Update(ctx context.Context, layer *models.AnnotationLayer) error

	// Delete removes a layer by its ID.
	Delete(ctx context.Context, id string) error
}

// PostgresLayerRepository implements LayerRepository using PostgreSQL.
type PostgresLayerRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewLayerRepository creates a new PostgreSQL layer repository.
func NewLayerRepository(pool *pgxpool.Pool, logger *zap.Logger) *PostgresLayerRepository {
	return &PostgresLayerRepository{pool: pool, logger: logger}
}

// Create inserts a new layer.
func (r *PostgresLayerRepository) Create(ctx context.Context, layer *models.AnnotationLayer) error {
	now := time.Now().UTC()
	layer.ID = uuid.New().String()
	layer.CreatedOn = now
	layer.ChangedOn = now

	query := `
		INSERT INTO annotation_layer (id, name, descr, created_on, changed_on)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, layer.ID, layer.Name, layer.Descr, layer.CreatedOn, layer.ChangedOn)
	if err != nil {
		r.logger.Error("Failed to create annotation layer", zap.Error(err))
		return fmt.Errorf("failed to create annotation layer: %w", err)
	}

	r.logger.Info("Created annotation layer", zap.String("id", layer.ID))
	return nil
}

// GetByID retrieves a layer by its ID.
func (r *PostgresLayerRepository) GetByID(ctx context.Context, id string) (*models.AnnotationLayer, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	query := `
		SELECT id, name, COALESCE(descr, ''), created_on, changed_on
		FROM annotation_layer
		WHERE id = $1
	`

	var layer models.AnnotationLayer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&layer.ID,
		&layer.Name,
		&layer.Descr,
		&layer.CreatedOn,
		&layer.ChangedOn,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get annotation layer", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get annotation layer: %w", err)
	}

	return &layer, nil
}

// GetAll retrieves all layers ordered by name.
func (r *PostgresLayerRepository) GetAll(ctx context.Context) ([]models.AnnotationLayer, error) {
	query := `
		SELECT id, name, COALESCE(descr, ''), created_on, changed_on
		FROM annotation_layer
		ORDER BY name, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to get annotation layers", zap.Error(err))
		return nil, fmt.Errorf("failed to get annotation layers: %w", err)
	}
	defer rows.Close()

	layers := []models.AnnotationLayer{}
	for rows.Next() {
		var layer models.AnnotationLayer
		if err := rows.Scan(&layer.ID, &layer.Name, &layer.Descr, &layer.CreatedOn, &layer.ChangedOn); err != nil {
			r.logger.Error("Failed to scan annotation layer row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan annotation layer: %w", err)
		}
		layers = append(layers, layer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read annotation layers: %w", err)
	}

	return layers, nil
}

// Update writes name and descr of an existing layer.
func (r *PostgresLayerRepository) Update(ctx context.Context, layer *models.AnnotationLayer) error {
	if !validID(layer.ID) {
		return ErrNotFound
	}
	layer.ChangedOn = time.Now().UTC()

	query := `
		UPDATE annotation_layer
		SET name = $2, descr = NULLIF($3, ''), changed_on = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, layer.ID, layer.Name, layer.Descr, layer.ChangedOn)
	if err != nil {
		r.logger.Error("Failed to update annotation layer", zap.String("id", layer.ID), zap.Error(err))
		return fmt.Errorf("failed to update annotation layer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Updated annotation layer", zap.String("id", layer.ID))
	return nil
}

// Delete removes a layer. Layers still referenced by annotations are kept.
func (r *PostgresLayerRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}

	result, err := r.pool.Exec(ctx, `DELETE FROM annotation_layer WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrLayerInUse
		}
		r.logger.Error("Failed to delete annotation layer", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete annotation layer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Deleted annotation layer", zap.String("id", id))
	return nil
}
