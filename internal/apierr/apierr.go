package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the core game/assessment flow. The codes travel in the
// error envelope so the frontend can branch on them.
const (
	CodeInvalidProblemType     = "invalid_problem_type"
	CodeNotActive              = "not_active"
	CodeGatewayError           = "gateway_error"
	CodeMalformedScoreResponse = "malformed_score_response"
	CodeNotFound               = "not_found"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func InvalidProblemType(problemType string) *Error {
	return New(http.StatusBadRequest, CodeInvalidProblemType, fmt.Errorf("unknown problem type %q", problemType))
}

func NotActive(err error) *Error {
	return New(http.StatusConflict, CodeNotActive, err)
}

func Gateway(err error) *Error {
	return New(http.StatusBadGateway, CodeGatewayError, err)
}

func MalformedScoreResponse(err error) *Error {
	return New(http.StatusBadGateway, CodeMalformedScoreResponse, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
