package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/message"

	"github.com/annotation-layers/backend/internal/i18n"
	"github.com/annotation-layers/backend/internal/service"
	"github.com/annotation-layers/backend/internal/validation"
	"github.com/annotation-layers/backend/internal/views"
)

// resource binds a view to the store operations behind its pages.
type resource struct {
	view   views.ModelView
	list   func(ctx context.Context) ([]views.Row, error)
	get    func(ctx context.Context, id string) (views.Row, error)
	create func(ctx context.Context, values formValues) error
	update func(ctx context.Context, id string, values formValues) error
	remove func(ctx context.Context, id string) error
}

// formValues are submitted or stored form values keyed by column.
type formValues map[string]string

// widgets picks the input of each column; anything else is a text input.
var widgets = map[string]string{
	"layer":         "select",
	"descr":         "textarea",
	"long_descr":    "textarea",
	"json_metadata": "textarea",
	"start_dttm":    "datetime",
	"end_dttm":      "datetime",
}

func (a *Admin) list(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := r.list(c.Request.Context())
		if err != nil {
			a.failed(c, err, "list "+r.view.Resource)
			return
		}

		pg := a.newPage(c, r.view.ListTitle)
		pg.Base = r.view.Path()
		for _, column := range r.view.ListColumns {
			pg.Columns = append(pg.Columns, r.view.Label(pg.P, column))
		}
		for _, row := range rows {
			lr := listRow{ID: rowID(row)}
			for _, column := range r.view.ListColumns {
				value, _ := row.Column(column)
				lr.Cells = append(lr.Cells, display(value))
			}
			pg.Rows = append(pg.Rows, lr)
		}
		c.HTML(http.StatusOK, "list", pg)
	}
}

func (a *Admin) show(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := r.get(c.Request.Context(), c.Param("id"))
		if err != nil {
			a.failed(c, err, "show "+r.view.Resource)
			return
		}

		pg := a.newPage(c, r.view.ShowTitle)
		pg.Base = r.view.Path()
		pg.ID = rowID(row)
		for _, column := range r.view.ShowColumns {
			value, _ := row.Column(column)
			pg.Fields = append(pg.Fields, field{
				Name:  column,
				Label: r.view.Label(pg.P, column),
				Value: display(value),
			})
		}
		c.HTML(http.StatusOK, "show", pg)
	}
}

func (a *Admin) addForm(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		a.renderForm(c, r, r.view.AddTitle, r.view.Path()+"/add", r.view.AddColumns, formValues{}, nil)
	}
}

func (a *Admin) add(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		values := posted(c, r.view.AddColumns)
		err := checkRequired(r.view, values)
		if err == nil {
			err = r.create(c.Request.Context(), values)
		}
		if err != nil {
			a.formFailed(c, r, r.view.AddTitle, r.view.Path()+"/add", r.view.AddColumns, values, err)
			return
		}
		a.redirectList(c, r, "added")
	}
}

func (a *Admin) editForm(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		row, err := r.get(c.Request.Context(), id)
		if err != nil {
			a.failed(c, err, "load "+r.view.Resource)
			return
		}
		a.renderForm(c, r, r.view.EditTitle, r.view.Path()+"/edit/"+id, r.view.EditColumns, rowValues(row, r.view.EditColumns), nil)
	}
}

func (a *Admin) edit(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		values := posted(c, r.view.EditColumns)
		err := checkRequired(r.view, values)
		if err == nil {
			err = r.update(c.Request.Context(), id, values)
		}
		if err != nil {
			a.formFailed(c, r, r.view.EditTitle, r.view.Path()+"/edit/"+id, r.view.EditColumns, values, err)
			return
		}
		a.redirectList(c, r, "changed")
	}
}

func (a *Admin) remove(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := r.remove(c.Request.Context(), c.Param("id"))
		switch {
		case errors.Is(err, service.ErrLayerInUse):
			a.redirectList(c, r, "in_use")
		case err != nil:
			a.failed(c, err, "delete "+r.view.Resource)
		default:
			a.redirectList(c, r, "deleted")
		}
	}
}

// removeMany deletes every checked row. Layers that still own annotations
// are skipped and reported once the rest are gone.
func (a *Admin) removeMany(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := c.PostFormArray("rowid")
		if len(ids) == 0 {
			c.Redirect(http.StatusFound, r.view.Path()+"/list/")
			return
		}

		inUse := false
		for _, id := range ids {
			err := r.remove(c.Request.Context(), id)
			switch {
			case errors.Is(err, service.ErrLayerInUse):
				inUse = true
			case err != nil:
				a.failed(c, err, "delete "+r.view.Resource)
				return
			}
		}

		if inUse {
			a.redirectList(c, r, "in_use")
			return
		}
		a.redirectList(c, r, "deleted")
	}
}

// formFailed re-renders the form when the save was rejected field by field.
func (a *Admin) formFailed(c *gin.Context, r *resource, title, action string, columns []string, values formValues, err error) {
	verr, ok := service.AsValidationError(err)
	if !ok {
		a.failed(c, err, "save "+r.view.Resource)
		return
	}
	a.renderForm(c, r, title, action, columns, values, verr.Fields)
}

func (a *Admin) renderForm(c *gin.Context, r *resource, title, action string, columns []string, values formValues, errs map[string][]string) {
	pg := a.newPage(c, title)
	pg.Base = r.view.Path()
	pg.Action = action

	fields, err := a.formFields(c.Request.Context(), pg.P, r.view, columns, values, errs)
	if err != nil {
		a.failed(c, err, "load form")
		return
	}
	pg.Fields = fields
	c.HTML(http.StatusOK, "form", pg)
}

func (a *Admin) formFields(ctx context.Context, p *message.Printer, view views.ModelView, columns []string, values formValues, errs map[string][]string) ([]field, error) {
	fields := make([]field, 0, len(columns))
	for _, column := range columns {
		f := field{
			Name:        column,
			Label:       view.Label(p, column),
			Description: view.Description(p, column),
			Required:    view.Required[column],
			Widget:      widgets[column],
			Value:       values[column],
		}
		if f.Widget == "" {
			f.Widget = "text"
		}
		for _, msg := range errs[column] {
			f.Errors = append(f.Errors, i18n.T(p, msg))
		}
		if f.Widget == "select" {
			options, err := a.layerOptions(ctx, values[column])
			if err != nil {
				return nil, err
			}
			f.Options = options
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (a *Admin) layerOptions(ctx context.Context, selected string) ([]option, error) {
	layers, err := a.store.ListLayers(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]option, 0, len(layers))
	for _, layer := range layers {
		options = append(options, option{
			Value:    layer.ID,
			Label:    layer.Name,
			Selected: layer.ID == selected,
		})
	}
	return options, nil
}

func posted(c *gin.Context, columns []string) formValues {
	values := make(formValues, len(columns))
	for _, column := range columns {
		values[column] = c.PostForm(column)
	}
	return values
}

// checkRequired rejects blank required columns before anything is parsed.
func checkRequired(view views.ModelView, values formValues) error {
	fields := map[string][]string{}
	for column, required := range view.Required {
		if required && strings.TrimSpace(values[column]) == "" {
			fields[column] = []string{validation.MsgRequired}
		}
	}
	if len(fields) > 0 {
		return &service.ValidationError{Fields: fields}
	}
	return nil
}

func rowID(row views.Row) string {
	id, _ := row.Column("id")
	s, _ := id.(string)
	return s
}
