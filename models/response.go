package models

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// OKResponse acknowledges deletes and bulk updates.
type OKResponse struct {
	OK    bool `json:"ok"`
	Count *int `json:"count,omitempty"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
