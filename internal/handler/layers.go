package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/views"
)

// ListLayers handles retrieving all annotation layers.
// @Summary List annotation layers
// @Tags annotationlayer
// @Produce json
// @Success 200 {object} models.ListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/annotationlayer/ [get]
func (h *Handler) ListLayers(c *gin.Context) {
	layers, err := h.store.ListLayers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "retrieve annotation layers")
		return
	}

	rows := make([]views.Row, len(layers))
	for i := range layers {
		rows[i] = &layers[i]
	}
	h.list(c, views.AnnotationLayer, rows)
}

// GetLayer handles retrieving a single annotation layer.
// @Summary Get annotation layer by ID
// @Tags annotationlayer
// @Produce json
// @Param id path string true "Layer ID"
// @Success 200 {object} models.ItemResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/annotationlayer/{id} [get]
func (h *Handler) GetLayer(c *gin.Context) {
	layer, err := h.store.GetLayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "retrieve annotation layer")
		return
	}
	h.show(c, views.AnnotationLayer, layer)
}

// CreateLayer handles the creation of a new annotation layer.
// @Summary Create annotation layer
// @Tags annotationlayer
// @Accept json
// @Produce json
// @Param layer body models.CreateLayerRequest true "Layer data"
// @Success 201 {object} models.CreatedResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ValidationErrorResponse
// @Router /api/v1/annotationlayer/ [post]
func (h *Handler) CreateLayer(c *gin.Context) {
	var req models.CreateLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, err)
		return
	}

	layer, err := h.store.CreateLayer(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "create annotation layer")
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{
		ID:     layer.ID,
		Result: views.Record(layer, views.AnnotationLayer.AddColumns),
	})
}

// UpdateLayer handles changing an existing annotation layer.
// @Summary Update annotation layer
// @Tags annotationlayer
// @Accept json
// @Produce json
// @Param id path string true "Layer ID"
// @Param layer body models.UpdateLayerRequest true "Changed fields"
// @Success 200 {object} models.UpdatedResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ValidationErrorResponse
// @Router /api/v1/annotationlayer/{id} [put]
func (h *Handler) UpdateLayer(c *gin.Context) {
	var req models.UpdateLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, err)
		return
	}

	layer, err := h.store.UpdateLayer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "update annotation layer")
		return
	}

	c.JSON(http.StatusOK, models.UpdatedResponse{
		Result: views.Record(layer, views.AnnotationLayer.EditColumns),
	})
}

// DeleteLayer handles deleting an annotation layer. Layers that still own
// annotations are refused with 409.
// @Summary Delete annotation layer
// @Tags annotationlayer
// @Produce json
// @Param id path string true "Layer ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/annotationlayer/{id} [delete]
func (h *Handler) DeleteLayer(c *gin.Context) {
	if err := h.store.DeleteLayer(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "delete annotation layer")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "OK"})
}

// LayerInfo describes the add and edit forms of annotation layers.
// @Summary Annotation layer form metadata
// @Tags annotationlayer
// @Produce json
// @Success 200 {object} models.InfoResponse
// @Router /api/v1/annotationlayer/_info [get]
func (h *Handler) LayerInfo(c *gin.Context) {
	h.info(c, views.AnnotationLayer)
}
