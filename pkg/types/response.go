package types

import "time"

// PaginationMeta describes the page window of a list response.
type PaginationMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// SuccessEnvelope wraps every successful API response.
type SuccessEnvelope struct {
	Success    bool            `json:"success"`
	Data       any             `json:"data,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Timestamp  string          `json:"timestamp"`
}

// ErrorEnvelope is the body of every failed API response.
type ErrorEnvelope struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode"`
	Details    any    `json:"details,omitempty"`
}

// Timestamp renders the envelope timestamp in the wire format.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
