package views

// Resource names under /api/v1.
const (
	ResourceLayer      = "annotationlayer"
	ResourceAnnotation = "annotation"
)

// AnnotationLayer is the presentation of annotation layers.
var AnnotationLayer = ModelView{
	Name:     "AnnotationLayerModelView",
	Resource: ResourceLayer,

	MenuName: "Annotation Layers",
	Icon:     "fa-comment",
	Category: CategoryManage,

	ListTitle: "List Annotation Layer",
	ShowTitle: "Show Annotation Layer",
	AddTitle:  "Add Annotation Layer",
	EditTitle: "Edit Annotation Layer",

	ListColumns: []string{"id", "name"},
	ShowColumns: []string{"id", "name", "descr"},
	AddColumns:  layerEditColumns,
	EditColumns: layerEditColumns,

	Labels: map[string]string{
		"name":  "Name",
		"descr": "Description",
	},
	Descriptions: map[string]string{},
	Required:     map[string]bool{"name": true},
}

var layerEditColumns = []string{"name", "descr"}

// Annotation is the presentation of annotations. The REST side lists the
// owning layer as flat layer.id/layer.name columns.
var Annotation = ModelView{
	Name:     "AnnotationModelView",
	Resource: ResourceAnnotation,

	MenuName: "Annotations",
	Icon:     "fa-comments",
	Category: CategoryManage,

	ListTitle: "List Annotation",
	ShowTitle: "Show Annotation",
	AddTitle:  "Add Annotation",
	EditTitle: "Edit Annotation",

	ListColumns: []string{"layer", "short_descr", "start_dttm", "end_dttm"},
	ShowColumns: annotationEditColumns,
	AddColumns:  annotationEditColumns,
	EditColumns: annotationEditColumns,

	Labels: map[string]string{
		"layer":         "Layer",
		"short_descr":   "Short Descr",
		"start_dttm":    "Start Dttm",
		"end_dttm":      "End Dttm",
		"long_descr":    "Long Descr",
		"json_metadata": "JSON Metadata",
	},
	Descriptions: map[string]string{
		"json_metadata": "This JSON represents any additional metadata this annotation needs to add more context.",
	},
	Required: map[string]bool{"layer": true},

	api: apiOverrides{
		ListColumns: annotationAPIReadColumns,
		ShowColumns: annotationAPIReadColumns,
	},
}

var (
	annotationEditColumns    = []string{"layer", "short_descr", "long_descr", "start_dttm", "end_dttm", "json_metadata"}
	annotationAPIReadColumns = []string{"layer.id", "layer.name", "short_descr", "start_dttm", "end_dttm"}
)

// All lists the registered views in menu order.
func All() []ModelView {
	return []ModelView{AnnotationLayer, Annotation}
}
