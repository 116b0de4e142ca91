package models

import (
	"fmt"
)

// FetchErrorKind classifies why rows could not be fetched
type FetchErrorKind string

const (
	FetchHTTP        FetchErrorKind = "http"
	FetchMalformed   FetchErrorKind = "malformed"
	FetchCredentials FetchErrorKind = "credentials"
	FetchTransport   FetchErrorKind = "transport"
)

// FetchError covers HTTP non-success, malformed responses, missing
// credentials and transport failures
type FetchError struct {
	Kind   FetchErrorKind
	Status int    // HTTP status, FetchHTTP only
	Body   string // Response body, FetchHTTP only
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTP:
		return fmt.Sprintf("HTTP error! status: %d - %s", e.Status, e.Body)
	case FetchCredentials:
		return "no API key configured for live mode"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying may succeed
func (e *FetchError) Temporary() bool {
	switch e.Kind {
	case FetchTransport:
		return true
	case FetchHTTP:
		return e.Status == 429 || e.Status >= 500
	}
	return false
}

// RenderError means a game has no place on the page to be displayed
type RenderError struct {
	GameID string
	Reason string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %s", e.GameID, e.Reason)
}

// DataError means the row set is empty or unusable
type DataError struct {
	GameID  string
	Message string
}

func (e *DataError) Error() string {
	return e.Message
}

// ErrNoData is the message shown in place of a chart without data
const ErrNoData = "No data available"

// NewNoDataError builds the DataError for an empty row set
func NewNoDataError(gameID string) *DataError {
	return &DataError{GameID: gameID, Message: ErrNoData}
}
