// Copyright (c) 2025 BVK Chaitanya

// Package apierr classifies backend API failures and turns the many
// error shapes the backend can produce into a single presentable
// message.
//
// The backend returns structured errors as {"detail": ...},
// {"message": ...}, {"error": ...} or as a field-name to messages
// dictionary for validation failures. Proxies in front of it can also
// return raw HTML error pages. Callers must always get a non-empty
// message out of this package, no matter what came over the wire.
package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
)

type Kind int

const (
	Unknown Kind = iota
	Network
	Timeout
	Auth
	Permission
	Validation
	Server
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case Timeout:
		return "timeout"
	case Auth:
		return "auth"
	case Permission:
		return "permission"
	case Validation:
		return "validation"
	case Server:
		return "server"
	}
	return "unknown"
}

// Error is a classified backend failure.
type Error struct {
	Kind       Kind
	StatusCode int

	// Message is the best-effort message extracted from the response
	// body. Never empty for errors created by FromResponse.
	Message string

	// Fields holds per-field validation messages when the backend
	// returned a field dictionary.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// SubscriptionLimited reports whether a permission error looks like a
// subscription-tier limit, in which case callers offer a plan upgrade
// instead of a plain denial.
func (e *Error) SubscriptionLimited() bool {
	if e.Kind != Permission {
		return false
	}
	msg := strings.ToLower(e.Message)
	for _, hint := range []string{"subscription", "plan", "upgrade", "limit"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

func kindOf(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return Auth
	case status == http.StatusForbidden:
		return Permission
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return Validation
	case status >= 500:
		return Server
	}
	return Unknown
}

// FromResponse builds a classified error from a non-2xx response.
func FromResponse(status int, body []byte) *Error {
	e := &Error{
		Kind:       kindOf(status),
		StatusCode: status,
	}
	e.Message, e.Fields = extract(status, body)
	return e
}

func extract(status int, body []byte) (string, map[string][]string) {
	text := strings.TrimSpace(string(body))
	if len(text) == 0 {
		return genericMessage(status), nil
	}
	if strings.HasPrefix(text, "<") {
		// HTML error page from a proxy or a crashed backend.
		return genericMessage(status), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		if len(text) > 200 {
			text = text[:200]
		}
		return text, nil
	}

	for _, key := range []string{"detail", "message", "error"} {
		var s string
		if raw, ok := obj[key]; ok && json.Unmarshal(raw, &s) == nil && len(s) != 0 {
			return s, nil
		}
	}

	// Django-style validation dictionary: values are strings or lists
	// of strings keyed by the offending field name.
	fields := make(map[string][]string)
	for key, raw := range obj {
		var list []string
		if json.Unmarshal(raw, &list) == nil && len(list) != 0 {
			fields[key] = list
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && len(s) != 0 {
			fields[key] = []string{s}
		}
	}
	if len(fields) != 0 {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		var clauses []string
		for _, name := range names {
			clauses = append(clauses, fmt.Sprintf("%s: %s", name, strings.Join(fields[name], ", ")))
		}
		return strings.Join(clauses, "; "), fields
	}

	return genericMessage(status), nil
}

func genericMessage(status int) string {
	switch kindOf(status) {
	case Auth:
		return "session has expired; please log in again"
	case Permission:
		return "you do not have permission to perform this operation"
	case Validation:
		return "request was rejected by the server"
	case Server:
		return "server ran into a problem; please try again later"
	}
	if status != 0 {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return "request failed"
}

// Classify returns the error kind for any error value, including
// transport-level failures that never produced an http response.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		if nerr.Timeout() {
			return Timeout
		}
		return Network
	}
	return Unknown
}

// Message returns a user-presentable message for any error value.
// Returns the fallback when nothing better can be extracted; never
// returns an empty string.
func Message(err error, fallback string) string {
	if len(fallback) == 0 {
		fallback = "something went wrong; please try again"
	}
	if err == nil {
		return fallback
	}
	var e *Error
	if errors.As(err, &e) && len(e.Message) != 0 {
		return e.Message
	}
	switch Classify(err) {
	case Timeout:
		return "request timed out; please check your connection and try again"
	case Network:
		return "could not reach the server; please check your connection"
	}
	if msg := err.Error(); len(msg) != 0 && len(msg) < 200 {
		return msg
	}
	return fallback
}
