package coachdto

type ErrorResponse struct {
	Error string `json:"error"`
}
