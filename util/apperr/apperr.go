// Package apperr carries the error taxonomy shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

type ErrCode string

const (
	ErrValidation   ErrCode = "VALIDATION"
	ErrAuth         ErrCode = "AUTHENTICATION"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrVerification ErrCode = "VERIFICATION"
	ErrConflict     ErrCode = "CONFLICT"
	ErrStorage      ErrCode = "STORAGE"
	ErrPayment      ErrCode = "PAYMENT"
	ErrUpstream     ErrCode = "UPSTREAM"
)

// codedError keeps the user-facing message apart from the cause, which is
// only ever logged.
type codedError struct {
	code ErrCode
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *codedError) Unwrap() error   { return e.err }
func (e *codedError) Code() ErrCode   { return e.code }
func (e *codedError) Message() string { return e.msg }

func New(code ErrCode, msg string) error { return &codedError{code: code, msg: msg} }

func Wrap(code ErrCode, msg string, err error) error {
	return &codedError{code: code, msg: msg, err: err}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Message returns the short message safe to show to callers.
func Message(err error) string {
	var ce interface{ Message() string }
	if errors.As(err, &ce) {
		return ce.Message()
	}
	return "internal error"
}

func Status(code ErrCode) int {
	switch code {
	case ErrValidation, ErrVerification:
		return http.StatusBadRequest
	case ErrAuth:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
