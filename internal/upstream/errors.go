package upstream

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/utils"
	"github.com/tidwall/gjson"
)

// Kind classifies a failed call to the reporting API.
type Kind string

const (
	KindConnectivity Kind = "connectivity"
	KindAuth         Kind = "auth"
	KindServer       Kind = "server"
	KindUnexpected   Kind = "unexpected"
)

const connectivityText = "Can't connect to server"

// Error is the single shape every failure is reduced to before it reaches
// a view or the UI.
type Error struct {
	Kind   Kind   `json:"kind"`
	Status int    `json:"status,omitempty"`
	Text   string `json:"error_text"`
	Err    error  `json:"-"`
}

func (e *Error) Error() string {
	return e.Text
}

func (e *Error) Unwrap() error {
	return e.Err
}

func connectivityError(err error) *Error {
	return &Error{Kind: KindConnectivity, Text: connectivityText, Err: err}
}

// statusError builds the error for a non-2xx response, preferring the
// message the server put in the body.
func statusError(code int, body []byte) *Error {
	text := bodyMessage(body)
	kind := KindServer
	if code == 401 || code == 403 {
		kind = KindAuth
		if text == "" {
			text = "Not authorized"
		}
	}
	if text == "" {
		text = utils.StatusMessage(code)
	}
	if text == "" {
		text = "Unexpected server response"
	}
	return &Error{Kind: kind, Status: code, Text: text}
}

func bodyMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "error", "errors.0.message"} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// Normalize reduces any error to *Error.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var ue *Error
	if errors.As(err, &ue) {
		return ue
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return connectivityError(err)
	}
	return &Error{Kind: KindUnexpected, Text: err.Error(), Err: err}
}
