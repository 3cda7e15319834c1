// Package models contains the data models for the application.
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// AnnotationLayer is a named grouping of annotations.
type AnnotationLayer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Descr     string    `json:"descr"`
	CreatedOn time.Time `json:"created_on"`
	ChangedOn time.Time `json:"changed_on"`
}

// Column returns the value of a view column for this layer.
func (l *AnnotationLayer) Column(name string) (any, bool) {
	switch name {
	case "id":
		return l.ID, true
	case "name":
		return l.Name, true
	case "descr":
		return l.Descr, true
	default:
		return nil, false
	}
}

// LayerRef is the slice of a layer that travels with an annotation.
type LayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Annotation is a note tied to a time range and owned by one layer.
type Annotation struct {
	ID           string     `json:"id"`
	Layer        LayerRef   `json:"layer"`
	ShortDescr   string     `json:"short_descr"`
	LongDescr    string     `json:"long_descr"`
	StartDttm    *time.Time `json:"start_dttm"`
	EndDttm      *time.Time `json:"end_dttm"`
	JSONMetadata string     `json:"json_metadata"`
	CreatedOn    time.Time  `json:"created_on"`
	ChangedOn    time.Time  `json:"changed_on"`
}

// Column returns the value of a view column for this annotation. Dotted
// names reach into the owning layer.
func (a *Annotation) Column(name string) (any, bool) {
	switch name {
	case "id":
		return a.ID, true
	case "layer":
		return a.Layer, true
	case "layer.id":
		return a.Layer.ID, true
	case "layer.name":
		return a.Layer.Name, true
	case "short_descr":
		return a.ShortDescr, true
	case "long_descr":
		return a.LongDescr, true
	case "start_dttm":
		return a.StartDttm, true
	case "end_dttm":
		return a.EndDttm, true
	case "json_metadata":
		return a.JSONMetadata, true
	default:
		return nil, false
	}
}

// CreateLayerRequest represents the request body for creating a layer.
type CreateLayerRequest struct {
	Name  string `json:"name" form:"name" binding:"required,max=250"`
	Descr string `json:"descr" form:"descr"`
}

// UpdateLayerRequest represents the request body for updating a layer.
type UpdateLayerRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=1,max=250"`
	Descr *string `json:"descr,omitempty"`
}

// CreateAnnotationRequest represents the request body for creating an annotation.
type CreateAnnotationRequest struct {
	Layer        string     `json:"layer" binding:"required,uuid"`
	ShortDescr   string     `json:"short_descr" binding:"max=500"`
	LongDescr    string     `json:"long_descr"`
	StartDttm    *time.Time `json:"start_dttm"`
	EndDttm      *time.Time `json:"end_dttm"`
	JSONMetadata string     `json:"json_metadata" binding:"json_or_empty"`
}

// UnmarshalJSON reads the timestamps with ParseTimestamp.
func (r *CreateAnnotationRequest) UnmarshalJSON(data []byte) error {
	type plain CreateAnnotationRequest
	aux := struct {
		*plain
		StartDttm OptionalTime `json:"start_dttm"`
		EndDttm   OptionalTime `json:"end_dttm"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.StartDttm, r.EndDttm = aux.StartDttm.Value, aux.EndDttm.Value
	return nil
}

// UpdateAnnotationRequest represents the request body for updating an
// annotation. Absent fields are left alone; an explicit null clears a
// timestamp and an empty json_metadata clears the metadata.
type UpdateAnnotationRequest struct {
	Layer        *string      `json:"layer,omitempty" binding:"omitempty,uuid"`
	ShortDescr   *string      `json:"short_descr,omitempty" binding:"omitempty,max=500"`
	LongDescr    *string      `json:"long_descr,omitempty"`
	StartDttm    OptionalTime `json:"start_dttm"`
	EndDttm      OptionalTime `json:"end_dttm"`
	JSONMetadata *string      `json:"json_metadata,omitempty" binding:"omitempty,json_or_empty"`
}

// OptionalTime distinguishes an absent JSON field from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// SetTo returns an OptionalTime holding v.
func SetTo(v *time.Time) OptionalTime {
	return OptionalTime{Set: true, Value: v}
}

// UnmarshalJSON is only invoked when the field is present in the payload.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// MarshalJSON writes the held value, or null.
func (o OptionalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}
