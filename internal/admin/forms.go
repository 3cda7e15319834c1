package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"

	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/service"
	"github.com/annotation-layers/backend/internal/validation"
	"github.com/annotation-layers/backend/internal/views"
)

// MsgBadDatetime is reported for a timestamp that doesn't parse.
const MsgBadDatetime = "Not a valid datetime, use YYYY-MM-DD HH:MM:SS."

func (a *Admin) layerResource() *resource {
	return &resource{
		view: views.AnnotationLayer,
		list: func(ctx context.Context) ([]views.Row, error) {
			layers, err := a.store.ListLayers(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]views.Row, len(layers))
			for i := range layers {
				rows[i] = &layers[i]
			}
			return rows, nil
		},
		get: func(ctx context.Context, id string) (views.Row, error) {
			layer, err := a.store.GetLayer(ctx, id)
			if err != nil {
				return nil, err
			}
			return layer, nil
		},
		create: func(ctx context.Context, v formValues) error {
			req := models.CreateLayerRequest{Name: v["name"], Descr: v["descr"]}
			if err := validate(&req); err != nil {
				return err
			}
			_, err := a.store.CreateLayer(ctx, req)
			return err
		},
		update: func(ctx context.Context, id string, v formValues) error {
			name, descr := v["name"], v["descr"]
			req := models.UpdateLayerRequest{Name: &name, Descr: &descr}
			if err := validate(&req); err != nil {
				return err
			}
			_, err := a.store.UpdateLayer(ctx, id, req)
			return err
		},
		remove: a.store.DeleteLayer,
	}
}

func (a *Admin) annotationResource() *resource {
	return &resource{
		view: views.Annotation,
		list: func(ctx context.Context) ([]views.Row, error) {
			annotations, err := a.store.ListAnnotations(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]views.Row, len(annotations))
			for i := range annotations {
				rows[i] = &annotations[i]
			}
			return rows, nil
		},
		get: func(ctx context.Context, id string) (views.Row, error) {
			annotation, err := a.store.GetAnnotation(ctx, id)
			if err != nil {
				return nil, err
			}
			return annotation, nil
		},
		create: func(ctx context.Context, v formValues) error {
			start, end, err := parseRange(v)
			if err != nil {
				return err
			}
			req := models.CreateAnnotationRequest{
				Layer:        v["layer"],
				ShortDescr:   v["short_descr"],
				LongDescr:    v["long_descr"],
				StartDttm:    start,
				EndDttm:      end,
				JSONMetadata: v["json_metadata"],
			}
			if err := validate(&req); err != nil {
				return err
			}
			_, err = a.store.CreateAnnotation(ctx, req)
			return err
		},
		update: func(ctx context.Context, id string, v formValues) error {
			start, end, err := parseRange(v)
			if err != nil {
				return err
			}
			layer, short, long, meta := v["layer"], v["short_descr"], v["long_descr"], v["json_metadata"]
			// The form always carries every column, so blank timestamps clear.
			req := models.UpdateAnnotationRequest{
				Layer:        &layer,
				ShortDescr:   &short,
				LongDescr:    &long,
				StartDttm:    models.SetTo(start),
				EndDttm:      models.SetTo(end),
				JSONMetadata: &meta,
			}
			if err := validate(&req); err != nil {
				return err
			}
			_, err = a.store.UpdateAnnotation(ctx, id, req)
			return err
		},
		remove: a.store.DeleteAnnotation,
	}
}

// validate applies the request's binding rules the way JSON binding would.
func validate(req any) error {
	err := binding.Validator.ValidateStruct(req)
	if err == nil {
		return nil
	}
	if fields, ok := validation.FieldErrors(err); ok {
		return &service.ValidationError{Fields: fields, Err: err}
	}
	return err
}

func parseRange(v formValues) (*time.Time, *time.Time, error) {
	fields := map[string][]string{}

	start, ok := parseDatetime(v["start_dttm"])
	if !ok {
		fields["start_dttm"] = []string{MsgBadDatetime}
	}
	end, ok := parseDatetime(v["end_dttm"])
	if !ok {
		fields["end_dttm"] = []string{MsgBadDatetime}
	}

	if len(fields) > 0 {
		return nil, nil, &service.ValidationError{Fields: fields}
	}
	return start, end, nil
}

// parseDatetime reads a form timestamp as UTC. Blank means no value.
func parseDatetime(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := models.ParseTimestamp(s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// display renders a column value for list and show pages.
func display(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(models.DatetimeLayout)
	case models.LayerRef:
		return v.Name
	default:
		return fmt.Sprint(v)
	}
}

// rowValues fills a form from a stored row. Layers are referenced by ID.
func rowValues(row views.Row, columns []string) formValues {
	values := make(formValues, len(columns))
	for _, column := range columns {
		value, _ := row.Column(column)
		if ref, ok := value.(models.LayerRef); ok {
			values[column] = ref.ID
			continue
		}
		values[column] = display(value)
	}
	return values
}
