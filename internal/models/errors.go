package models

import (
	"errors"
	"fmt"
)

// ValidationError is a local, user-correctable problem with the trip form.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin            ValidationError = "origin is required"
	ErrMissingDestination       ValidationError = "destination is required"
	ErrSameOriginDestination    ValidationError = "origin and destination must differ"
	ErrUnknownCity              ValidationError = "unknown city"
	ErrMissingDepartureDate     ValidationError = "departure date is required"
	ErrInvalidDate              ValidationError = "invalid date"
	ErrDateOutOfRange           ValidationError = "date outside the available range"
	ErrMissingReturnDate        ValidationError = "return date is required for a round trip"
	ErrReturnBeforeDeparture    ValidationError = "return date is before departure date"
	ErrMissingReturnOrigin      ValidationError = "return origin is required for a round trip"
	ErrMissingReturnDestination ValidationError = "return destination is required for a round trip"
	ErrInvalidReturnOrigin      ValidationError = "return origin must be the destination or a visited stop"
	ErrInvalidReturnDestination ValidationError = "return destination cannot be the destination or a visited stop"
	ErrInvalidStops             ValidationError = "invalid intermediate stops"
	ErrInvalidTravelers         ValidationError = "at least one adult is required and children cannot be negative"
	ErrInvalidDayAllocation     ValidationError = "invalid day allocation"
	ErrDaysOverAllocated        ValidationError = "allocated days exceed the trip length"
	ErrInvalidRequest           ValidationError = "request failed validation"
)

// DataIntegrityError marks optimizer output that is well-formed JSON but
// internally inconsistent.
type DataIntegrityError string

func (e DataIntegrityError) Error() string {
	return string(e)
}

const (
	ErrRecommendationNotFound DataIntegrityError = "recommended option not found"
	ErrOptionNotFound         DataIntegrityError = "option not found"
)

var ErrMalformedResponse = errors.New("malformed optimizer response")

// UpstreamError wraps any failure talking to the optimizer: transport errors,
// non-2xx answers and undecodable or inconsistent bodies.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, msg)
	}
	return e.Endpoint + ": " + msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(endpoint string, err error) *UpstreamError {
	return &UpstreamError{
		Endpoint: endpoint,
		Err:      err,
	}
}
