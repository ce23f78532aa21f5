package model

import "time"

// ErrorResponse is the body of every failed request. Error is a stable
// machine-readable reason; Details is optional human-readable context.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WindowClosedResponse adds the attendance window bounds for client diagnostics.
type WindowClosedResponse struct {
	Error    string    `json:"error"`
	Details  string    `json:"details,omitempty"`
	OpensAt  time.Time `json:"opens_at"`
	ClosesAt time.Time `json:"closes_at"`
	Now      time.Time `json:"now"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
