package server

// ErrorResponse is the structured error body the client surfaces to the user.
type ErrorResponse struct {
	Message string `json:"message"`
}
