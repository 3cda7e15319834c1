package models

// Record is one serialized row, keyed by column name.
type Record map[string]any

// ListResponse is returned by the list endpoint of a resource.
type ListResponse struct {
	Count        int               `json:"count"`
	IDs          []string          `json:"ids"`
	Result       []Record          `json:"result"`
	ListColumns  []string          `json:"list_columns"`
	LabelColumns map[string]string `json:"label_columns"`
	ListTitle    string            `json:"list_title"`
}

// ItemResponse is returned when reading a single row.
type ItemResponse struct {
	ID           string            `json:"id"`
	Result       Record            `json:"result"`
	ShowColumns  []string          `json:"show_columns"`
	LabelColumns map[string]string `json:"label_columns"`
	ShowTitle    string            `json:"show_title"`
}

// CreatedResponse is returned after a successful add.
type CreatedResponse struct {
	ID     string `json:"id"`
	Result Record `json:"result"`
}

// UpdatedResponse is returned after a successful edit.
type UpdatedResponse struct {
	Result Record `json:"result"`
}

// MessageResponse carries a plain status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// InfoColumn describes one add/edit column.
type InfoColumn struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// InfoResponse describes the add/edit forms of a resource.
type InfoResponse struct {
	AddColumns  []InfoColumn `json:"add_columns"`
	EditColumns []InfoColumn `json:"edit_columns"`
	AddTitle    string       `json:"add_title"`
	EditTitle   string       `json:"edit_title"`
}

// MenuItem is one navigation entry.
type MenuItem struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
}

// MenuCategory groups navigation entries.
type MenuCategory struct {
	Name   string     `json:"name"`
	Label  string     `json:"label"`
	Icon   string     `json:"icon"`
	Childs []MenuItem `json:"childs"`
}

// MenuResponse wraps the navigation tree.
type MenuResponse struct {
	Result []MenuCategory `json:"result"`
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// ErrorResponse represents an error response from the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse attaches messages to the offending fields.
type ValidationErrorResponse struct {
	Error   string              `json:"error"`
	Message map[string][]string `json:"message"`
}
