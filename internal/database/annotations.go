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

// AnnotationRepository defines the interface for annotation data operations.
// Callers are responsible for the time range rules; the repository stores
// what it is given.
type AnnotationRepository interface {
	// Create inserts a new annotation, assigning its ID and timestamps and
	// resolving the layer name.
	Create(ctx context.Context, annotation *models.Annotation) error

	// GetByID retrieves an annotation and its layer by ID.
	GetByID(ctx context.Context, id string) (*models.Annotation, error)

	// GetAll retrieves all annotations.
	GetAll(ctx context.Context) ([]models.Annotation, error)

	// Update writes the editable fields of an existing annotation and
	// resolves its layer name in the same statement.
	Update(ctx context.Context, annotation *models.Annotation) error

	// Delete removes an annotation by its ID.
	Delete(ctx context.Context, id string) error
}

// PostgresAnnotationRepository implements AnnotationRepository using PostgreSQL.
type PostgresAnnotationRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewAnnotationRepository creates a new PostgreSQL annotation repository.
func NewAnnotationRepository(pool *pgxpool.Pool, logger *zap.Logger) *PostgresAnnotationRepository {
	return &PostgresAnnotationRepository{pool: pool, logger: logger}
}

const selectAnnotation = `
	SELECT a.id, a.layer_id, l.name,
		COALESCE(a.short_descr, ''), COALESCE(a.long_descr, ''),
		a.start_dttm, a.end_dttm, COALESCE(a.json_metadata, ''),
		a.created_on, a.changed_on
	FROM annotation a
	JOIN annotation_layer l ON l.id = a.layer_id
`

// insertAnnotation and updateAnnotation return the layer name from the same
// statement as the write.
const insertAnnotation = `
	WITH written AS (
		INSERT INTO annotation (id, layer_id, short_descr, long_descr, start_dttm, end_dttm, json_metadata, created_on, changed_on)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9)
		RETURNING layer_id
	)
	SELECT l.name FROM written w JOIN annotation_layer l ON l.id = w.layer_id
`

const updateAnnotation = `
	WITH written AS (
		UPDATE annotation
		SET layer_id = $2, short_descr = NULLIF($3, ''), long_descr = NULLIF($4, ''),
			start_dttm = $5, end_dttm = $6, json_metadata = NULLIF($7, ''), changed_on = $8
		WHERE id = $1
		RETURNING layer_id
	)
	SELECT l.name FROM written w JOIN annotation_layer l ON l.id = w.layer_id
`

func scanAnnotation(row pgx.Row, a *models.Annotation) error {
	return row.Scan(
		&a.ID,
		&a.Layer.ID,
		&a.Layer.Name,
		&a.ShortDescr,
		&a.LongDescr,
		&a.StartDttm,
		&a.EndDttm,
		&a.JSONMetadata,
		&a.CreatedOn,
		&a.ChangedOn,
	)
}

// Create inserts a new annotation.
func (r *PostgresAnnotationRepository) Create(ctx context.Context, annotation *models.Annotation) error {
	if !validID(annotation.Layer.ID) {
		return ErrUnknownLayer
	}

	now := time.Now().UTC()
	annotation.ID = uuid.New().String()
	annotation.CreatedOn = now
	annotation.ChangedOn = now

	err := r.pool.QueryRow(ctx, insertAnnotation,
		annotation.ID,
		annotation.Layer.ID,
		annotation.ShortDescr,
		annotation.LongDescr,
		annotation.StartDttm,
		annotation.EndDttm,
		annotation.JSONMetadata,
		annotation.CreatedOn,
		annotation.ChangedOn,
	).Scan(&annotation.Layer.Name)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUnknownLayer
		}
		r.logger.Error("Failed to create annotation", zap.Error(err))
		return fmt.Errorf("failed to create annotation: %w", err)
	}

	r.logger.Info("Created annotation", zap.String("id", annotation.ID), zap.String("layer_id", annotation.Layer.ID))
	return nil
}

// GetByID retrieves an annotation by its ID.
func (r *PostgresAnnotationRepository) GetByID(ctx context.Context, id string) (*models.Annotation, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var annotation models.Annotation
	err := scanAnnotation(r.pool.QueryRow(ctx, selectAnnotation+` WHERE a.id = $1`, id), &annotation)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get annotation", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get annotation: %w", err)
	}

	return &annotation, nil
}

// GetAll retrieves all annotations, most recent start first.
func (r *PostgresAnnotationRepository) GetAll(ctx context.Context) ([]models.Annotation, error) {
	rows, err := r.pool.Query(ctx, selectAnnotation+` ORDER BY a.start_dttm DESC NULLS LAST, a.id`)
	if err != nil {
		r.logger.Error("Failed to get annotations", zap.Error(err))
		return nil, fmt.Errorf("failed to get annotations: %w", err)
	}
	defer rows.Close()

	annotations := []models.Annotation{}
	for rows.Next() {
		var annotation models.Annotation
		if err := scanAnnotation(rows, &annotation); err != nil {
			r.logger.Error("Failed to scan annotation row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		annotations = append(annotations, annotation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}

	return annotations, nil
}

// Update writes the editable fields of an existing annotation.
func (r *PostgresAnnotationRepository) Update(ctx context.Context, annotation *models.Annotation) error {
	if !validID(annotation.ID) {
		return ErrNotFound
	}
	if !validID(annotation.Layer.ID) {
		return ErrUnknownLayer
	}
	annotation.ChangedOn = time.Now().UTC()

	err := r.pool.QueryRow(ctx, updateAnnotation,
		annotation.ID,
		annotation.Layer.ID,
		annotation.ShortDescr,
		annotation.LongDescr,
		annotation.StartDttm,
		annotation.EndDttm,
		annotation.JSONMetadata,
		annotation.ChangedOn,
	).Scan(&annotation.Layer.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUnknownLayer
		}
		r.logger.Error("Failed to update annotation", zap.String("id", annotation.ID), zap.Error(err))
		return fmt.Errorf("failed to update annotation: %w", err)
	}

	r.logger.Info("Updated annotation", zap.String("id", annotation.ID))
	return nil
}

// Delete removes an annotation by its ID.
func (r *PostgresAnnotationRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}

	result, err := r.pool.Exec(ctx, `DELETE FROM annotation WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete annotation", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Deleted annotation", zap.String("id", id))
	return nil
}
