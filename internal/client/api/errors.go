package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ResponseError is returned for every response outside the 2xx range.
// Fields holds the top-level keys of a JSON object body, if the body was one.
type ResponseError struct {
	Fields     map[string]json.RawMessage
	RequestID  string
	Body       []byte
	StatusCode int
}

func newResponseError(status int, requestID string, body []byte) *ResponseError {
	e := &ResponseError{
		StatusCode: status,
		RequestID:  requestID,
		Body:       body,
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		e.Fields = fields
	}

	return e
}

// Error сохраняет формат сообщений "server error (код): текст"
func (e *ResponseError) Error() string {
	if msg := e.Message("detail", "message", "error", "non_field_errors"); msg != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Message returns the first human-readable message found under keys, in
// order. A key may hold a string or a list of strings (field errors); for
// a list the first element is used. Returns "" if no key matches.
func (e *ResponseError) Message(keys ...string) string {
	_, msg := e.FieldMessage(keys...)
	return msg
}

// FieldMessage is like Message but also reports which key matched.
func (e *ResponseError) FieldMessage(keys ...string) (string, string) {
	for _, key := range keys {
		raw, ok := e.Fields[key]
		if !ok {
			continue
		}
		if msg := firstString(raw); msg != "" {
			return key, msg
		}
	}
	return "", ""
}

// IsUnauthorized сообщает, что сервер отклонил учетные данные
func (e *ResponseError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// firstString достает строку из значения вида "text" или ["text", ...]
func firstString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if msg := firstString(item); msg != "" {
				return msg
			}
		}
	}

	return ""
}

// AsResponseError извлекает *ResponseError из цепочки ошибок
func AsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr, true
	}
	return nil, false
}
