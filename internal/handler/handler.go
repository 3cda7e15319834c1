// Package handler exposes annotation layers and annotations over the REST API.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/annotation-layers/backend/internal/auth"
	"github.com/annotation-layers/backend/internal/i18n"
	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/service"
	"github.com/annotation-layers/backend/internal/validation"
	"github.com/annotation-layers/backend/internal/views"
)

// Store is the persistence pipeline the handlers drive.
type Store interface {
	ListLayers(ctx context.Context) ([]models.AnnotationLayer, error)
	GetLayer(ctx context.Context, id string) (*models.AnnotationLayer, error)
	CreateLayer(ctx context.Context, req models.CreateLayerRequest) (*models.AnnotationLayer, error)
	UpdateLayer(ctx context.Context, id string, req models.UpdateLayerRequest) (*models.AnnotationLayer, error)
	DeleteLayer(ctx context.Context, id string) error

	ListAnnotations(ctx context.Context) ([]models.Annotation, error)
	GetAnnotation(ctx context.Context, id string) (*models.Annotation, error)
	CreateAnnotation(ctx context.Context, req models.CreateAnnotationRequest) (*models.Annotation, error)
	UpdateAnnotation(ctx context.Context, id string, req models.UpdateAnnotationRequest) (*models.Annotation, error)
	DeleteAnnotation(ctx context.Context, id string) error
}

// Handler provides HTTP handlers for the annotation resources.
type Handler struct {
	store  Store
	auth   *auth.Authenticator
	tr     *i18n.Translator
	logger *zap.Logger
}

// NewHandler creates a new REST handler.
func NewHandler(store Store, authn *auth.Authenticator, tr *i18n.Translator, logger *zap.Logger) *Handler {
	validation.Setup()
	return &Handler{
		store:  store,
		auth:   authn,
		tr:     tr,
		logger: logger,
	}
}

// RegisterRoutes registers the handler routes on the given router group.
// Everything except login requires a valid token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/security/login", h.Login)

	api := rg.Group("", h.auth.RequireAPI(h.tr))
	api.GET("/menu/", h.Menu)

	layers := api.Group("/" + views.ResourceLayer)
	layers.GET("/", h.ListLayers)
	layers.POST("/", h.CreateLayer)
	layers.GET("/_info", h.LayerInfo)
	layers.GET("/:id", h.GetLayer)
	layers.PUT("/:id", h.UpdateLayer)
	layers.DELETE("/:id", h.DeleteLayer)

	annotations := api.Group("/" + views.ResourceAnnotation)
	annotations.GET("/", h.ListAnnotations)
	annotations.POST("/", h.CreateAnnotation)
	annotations.GET("/_info", h.AnnotationInfo)
	annotations.GET("/:id", h.GetAnnotation)
	annotations.PUT("/:id", h.UpdateAnnotation)
	annotations.DELETE("/:id", h.DeleteAnnotation)
}

func (h *Handler) printer(c *gin.Context) *message.Printer {
	return h.tr.ForRequest(c.Request)
}

// list renders rows with the read-side columns of view.
func (h *Handler) list(c *gin.Context, view views.ModelView, rows []views.Row) {
	p := h.printer(c)
	view = view.API()

	resp := models.ListResponse{
		Count:        len(rows),
		IDs:          make([]string, 0, len(rows)),
		Result:       make([]models.Record, 0, len(rows)),
		ListColumns:  view.ListColumns,
		LabelColumns: view.LabelColumns(p, view.ListColumns),
		ListTitle:    i18n.T(p, view.ListTitle),
	}
	for _, row := range rows {
		resp.IDs = append(resp.IDs, rowID(row))
		resp.Result = append(resp.Result, views.Record(row, view.ListColumns))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) show(c *gin.Context, view views.ModelView, row views.Row) {
	p := h.printer(c)
	view = view.API()

	c.JSON(http.StatusOK, models.ItemResponse{
		ID:           rowID(row),
		Result:       views.Record(row, view.ShowColumns),
		ShowColumns:  view.ShowColumns,
		LabelColumns: view.LabelColumns(p, view.ShowColumns),
		ShowTitle:    i18n.T(p, view.ShowTitle),
	})
}

func (h *Handler) info(c *gin.Context, view views.ModelView) {
	p := h.printer(c)
	c.JSON(http.StatusOK, models.InfoResponse{
		AddColumns:  view.InfoColumns(p, view.AddColumns),
		EditColumns: view.InfoColumns(p, view.EditColumns),
		AddTitle:    i18n.T(p, view.AddTitle),
		EditTitle:   i18n.T(p, view.EditTitle),
	})
}

func rowID(row views.Row) string {
	id, _ := row.Column("id")
	s, _ := id.(string)
	return s
}

// bindFailed answers a request whose body could not be bound.
func (h *Handler) bindFailed(c *gin.Context, err error) {
	if fields, ok := validation.FieldErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
			Error:   "validation_error",
			Message: localize(h.printer(c), fields),
		})
		return
	}

	h.logger.Warn("Invalid request body", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
	})
}

// fail maps a service error onto a response.
func (h *Handler) fail(c *gin.Context, err error, action string) {
	p := h.printer(c)

	if verr, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, models.ValidationErrorResponse{
			Error:   "validation_error",
			Message: localize(p, verr.Fields),
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: i18n.T(p, "Not found"),
		})
	case errors.Is(err, service.ErrLayerInUse):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "conflict",
			Message: i18n.T(p, "Annotation layer still has annotations."),
		})
	default:
		h.logger.Error("Failed to "+action, zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to " + action,
		})
	}
}

func localize(p *message.Printer, fields map[string][]string) map[string][]string {
	out := make(map[string][]string, len(fields))
	for field, msgs := range fields {
		translated := make([]string, len(msgs))
		for i, msg := range msgs {
			translated[i] = i18n.T(p, msg)
		}
		out[field] = translated
	}
	return out
}
