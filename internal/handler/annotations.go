package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/views"
)

// ListAnnotations handles retrieving all annotations with their layer.
// @Summary List annotations
// @Tags annotation
// @Produce json
// @Success 200 {object} models.ListResponse
// @Router /api/v1/annotation/ [get]
func (h *Handler) ListAnnotations(c *gin.Context) {
	annotations, err := h.store.ListAnnotations(c.Request.Context())
	if err != nil {
		h.fail(c, err, "retrieve annotations")
		return
	}

	rows := make([]views.Row, len(annotations))
	for i := range annotations {
		rows[i] = &annotations[i]
	}
	h.list(c, views.Annotation, rows)
}

// GetAnnotation handles retrieving a single annotation.
// @Summary Get annotation by ID
// @Tags annotation
// @Produce json
// @Param id path string true "Annotation ID"
// @Success 200 {object} models.ItemResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/annotation/{id} [get]
func (h *Handler) GetAnnotation(c *gin.Context) {
	annotation, err := h.store.GetAnnotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "retrieve annotation")
		return
	}
	h.show(c, views.Annotation, annotation)
}

// CreateAnnotation handles the creation of a new annotation. A missing bound
// of the time range is filled from the other one.
// @Summary Create annotation
// @Tags annotation
// @Accept json
// @Produce json
// @Param annotation body models.CreateAnnotationRequest true "Annotation data"
// @Success 201 {object} models.CreatedResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ValidationErrorResponse
// @Router /api/v1/annotation/ [post]
func (h *Handler) CreateAnnotation(c *gin.Context) {
	var req models.CreateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, err)
		return
	}

	annotation, err := h.store.CreateAnnotation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "create annotation")
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{
		ID:     annotation.ID,
		Result: views.Record(annotation, views.Annotation.AddColumns),
	})
}

// UpdateAnnotation handles changing an existing annotation. Omitted fields
// keep their stored value; the merged record is validated as a whole.
// @Summary Update annotation
// @Tags annotation
// @Accept json
// @Produce json
// @Param id path string true "Annotation ID"
// @Param annotation body models.UpdateAnnotationRequest true "Changed fields"
// @Success 200 {object} models.UpdatedResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ValidationErrorResponse
// @Router /api/v1/annotation/{id} [put]
func (h *Handler) UpdateAnnotation(c *gin.Context) {
	var req models.UpdateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, err)
		return
	}

	annotation, err := h.store.UpdateAnnotation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "update annotation")
		return
	}

	c.JSON(http.StatusOK, models.UpdatedResponse{
		Result: views.Record(annotation, views.Annotation.EditColumns),
	})
}

// DeleteAnnotation handles deleting an annotation.
// @Summary Delete annotation
// @Tags annotation
// @Produce json
// @Param id path string true "Annotation ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/annotation/{id} [delete]
func (h *Handler) DeleteAnnotation(c *gin.Context) {
	if err := h.store.DeleteAnnotation(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "delete annotation")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "OK"})
}

// AnnotationInfo describes the add and edit forms of annotations.
// @Summary Annotation form metadata
// @Tags annotation
// @Produce json
// @Success 200 {object} models.InfoResponse
// @Router /api/v1/annotation/_info [get]
func (h *Handler) AnnotationInfo(c *gin.Context) {
	h.info(c, views.Annotation)
}
