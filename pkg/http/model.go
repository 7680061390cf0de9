package http

// APIResponse represents the standard API envelope.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError represents one validation failure.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"window"`
	Message string                 `json:"message,omitempty" example:"Window is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ListDataResponse represents a list response with its total.
type ListDataResponse struct {
	Rows  interface{} `json:"rows"`
	Total int64       `json:"total"`
}
