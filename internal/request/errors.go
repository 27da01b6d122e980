package request

import (
	"errors"
	"net/http"
)

// serviceError carries the HTTP status the failure maps to, so handlers can
// report it without a separate taxonomy switch.
type serviceError struct {
	status int
	msg    string
}

func (e *serviceError) Error() string {
	return e.msg
}

func errValidation(msg string) error {
	return &serviceError{status: http.StatusBadRequest, msg: msg}
}

func errNotFound(msg string) error {
	return &serviceError{status: http.StatusNotFound, msg: msg}
}

func errInvalidTransition(msg string) error {
	return &serviceError{status: http.StatusConflict, msg: msg}
}

func errInvalidRelevance(got string) error {
	return &serviceError{status: http.StatusBadRequest, msg: "invalid relevance " + quote(got) + " (use low, medium or high)"}
}

func quote(s string) string {
	return `"` + s + `"`
}

// StatusOf returns the HTTP status for an engine error, or 500 for anything
// unexpected.
func StatusOf(err error) int {
	var se *serviceError
	if errors.As(err, &se) {
		return se.status
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
