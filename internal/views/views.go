// Package views declares, once, how each entity is presented: titles,
// column sets, labels, descriptions and its place in the navigation menu.
// Both the REST adapter and the admin UI read from these values.
package views

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/annotation-layers/backend/internal/i18n"
	"github.com/annotation-layers/backend/internal/models"
)

// CategoryManage is the navigation category both views live under.
const CategoryManage = "Manage"

// ModelView is the presentation contract of one entity.
type ModelView struct {
	// Name is the admin view name; its lowercase form is the URL prefix.
	Name string
	// Resource is the REST resource name under /api/v1.
	Resource string

	MenuName string
	Icon     string
	Category string

	ListTitle string
	ShowTitle string
	AddTitle  string
	EditTitle string

	ListColumns []string
	ShowColumns []string
	AddColumns  []string
	EditColumns []string

	Labels       map[string]string
	Descriptions map[string]string
	Required     map[string]bool

	api apiOverrides
}

// apiOverrides holds the read-path column sets that differ on the REST side.
type apiOverrides struct {
	ListColumns []string
	ShowColumns []string
}

// API returns the view as the REST adapter sees it.
func (v ModelView) API() ModelView {
	out := v
	if v.api.ListColumns != nil {
		out.ListColumns = v.api.ListColumns
	}
	if v.api.ShowColumns != nil {
		out.ShowColumns = v.api.ShowColumns
	}
	return out
}

// Path is the admin URL prefix of the view.
func (v ModelView) Path() string {
	return "/" + strings.ToLower(v.Name)
}

// Label returns the translated label of a column. Columns without a declared
// label get a title-cased version of their name.
func (v ModelView) Label(p *message.Printer, column string) string {
	if key, ok := v.Labels[column]; ok {
		return i18n.T(p, key)
	}
	return prettify(column)
}

// LabelColumns returns translated labels for the given columns.
func (v ModelView) LabelColumns(p *message.Printer, columns []string) map[string]string {
	labels := make(map[string]string, len(columns))
	for _, column := range columns {
		labels[column] = v.Label(p, column)
	}
	return labels
}

// Description returns the translated help text of a column, if any.
func (v ModelView) Description(p *message.Printer, column string) string {
	return i18n.T(p, v.Descriptions[column])
}

// InfoColumns describes the given form columns.
func (v ModelView) InfoColumns(p *message.Printer, columns []string) []models.InfoColumn {
	out := make([]models.InfoColumn, 0, len(columns))
	for _, column := range columns {
		out = append(out, models.InfoColumn{
			Name:        column,
			Label:       v.Label(p, column),
			Description: v.Description(p, column),
			Required:    v.Required[column],
		})
	}
	return out
}

// Menu groups the views by category in declaration order.
func Menu(p *message.Printer, all ...ModelView) []models.MenuCategory {
	var categories []models.MenuCategory
	index := map[string]int{}
	for _, v := range all {
		i, ok := index[v.Category]
		if !ok {
			i = len(categories)
			index[v.Category] = i
			categories = append(categories, models.MenuCategory{
				Name:  v.Category,
				Label: i18n.T(p, v.Category),
			})
		}
		categories[i].Childs = append(categories[i].Childs, models.MenuItem{
			Name:  v.MenuName,
			Label: i18n.T(p, v.MenuName),
			Icon:  v.Icon,
			URL:   v.Path() + "/list/",
		})
	}
	return categories
}

// prettify builds a fresh Caser per call; Casers are not safe for concurrent use.
func prettify(column string) string {
	return cases.Title(language.English).String(strings.NewReplacer("_", " ", ".", " ").Replace(column))
}

// Row is anything that can answer a column lookup.
type Row interface {
	Column(name string) (any, bool)
}

// Record serializes the given columns of row. Unknown columns are skipped.
func Record(row Row, columns []string) models.Record {
	rec := make(models.Record, len(columns))
	for _, column := range columns {
		if value, ok := row.Column(column); ok {
			rec[column] = value
		}
	}
	return rec
}
