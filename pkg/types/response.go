package types

// APIError is the error half of the response envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the uniform response body: status mirrors the HTTP status,
// and exactly one of Data / Error is set.
type Envelope struct {
	Status int       `json:"status"`
	Data   any       `json:"data"`
	Error  *APIError `json:"error"`
}
