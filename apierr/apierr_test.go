// Copyright (c) 2025 BVK Chaitanya

package apierr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFromResponse(t *testing.T) {
	cases := []struct {
		status int
		body   string
		kind   Kind
		want   string
	}{
		{401, `{"detail": "Token is invalid or expired"}`, Auth, "Token is invalid or expired"},
		{400, `{"message": "Invalid grid size"}`, Validation, "Invalid grid size"},
		{500, `{"error": "database timeout"}`, Server, "database timeout"},
		{403, `{"detail": "Upgrade your plan to create more bots"}`, Permission, "Upgrade your plan to create more bots"},
		{400, `{"email": ["This field is required."], "password": ["Too short."]}`, Validation, "email: This field is required.; password: Too short."},
		{400, `{"email": "Enter a valid email address."}`, Validation, "email: Enter a valid email address."},
		{502, `<html><body><h1>502 Bad Gateway</h1></body></html>`, Server, "server ran into a problem; please try again later"},
		{500, ``, Server, "server ran into a problem; please try again later"},
		{401, ``, Auth, "session has expired; please log in again"},
		{418, `just text`, Unknown, "just text"},
	}
	for _, c := range cases {
		e := FromResponse(c.status, []byte(c.body))
		if e.Kind != c.kind {
			t.Errorf("status %d body %q: want kind %v, got %v", c.status, c.body, c.kind, e.Kind)
		}
		if e.Message != c.want {
			t.Errorf("status %d body %q: want message %q, got %q", c.status, c.body, c.want, e.Message)
		}
		if len(e.Message) == 0 {
			t.Errorf("status %d body %q: message is empty", c.status, c.body)
		}
	}
}

func TestFieldErrors(t *testing.T) {
	e := FromResponse(400, []byte(`{"password": ["Too short.", "Too common."]}`))
	if len(e.Fields) != 1 {
		t.Fatalf("want one field, got %v", e.Fields)
	}
	if msgs := e.Fields["password"]; len(msgs) != 2 {
		t.Fatalf("want two password messages, got %v", msgs)
	}
	if want := "password: Too short., Too common."; e.Message != want {
		t.Fatalf("want %q, got %q", want, e.Message)
	}
}

func TestSubscriptionLimited(t *testing.T) {
	limited := FromResponse(403, []byte(`{"detail": "Bot limit reached for your subscription"}`))
	if !limited.SubscriptionLimited() {
		t.Fatalf("want subscription-limited")
	}
	denied := FromResponse(403, []byte(`{"detail": "Account is suspended"}`))
	if denied.SubscriptionLimited() {
		t.Fatalf("want plain denial")
	}
	validation := FromResponse(400, []byte(`{"detail": "upgrade your plan"}`))
	if validation.SubscriptionLimited() {
		t.Fatalf("validation errors are never subscription limits")
	}
}

type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "fake net error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestClassify(t *testing.T) {
	if k := Classify(nil); k != Unknown {
		t.Errorf("want Unknown, got %v", k)
	}
	if k := Classify(context.DeadlineExceeded); k != Timeout {
		t.Errorf("want Timeout, got %v", k)
	}
	if k := Classify(&fakeNetError{timeout: true}); k != Timeout {
		t.Errorf("want Timeout, got %v", k)
	}
	if k := Classify(&fakeNetError{}); k != Network {
		t.Errorf("want Network, got %v", k)
	}
	wrapped := fmt.Errorf("could not fetch: %w", FromResponse(401, nil))
	if k := Classify(wrapped); k != Auth {
		t.Errorf("want Auth, got %v", k)
	}
}

func TestMessage(t *testing.T) {
	if msg := Message(nil, "fallback"); msg != "fallback" {
		t.Errorf("want fallback, got %q", msg)
	}
	if msg := Message(nil, ""); len(msg) == 0 {
		t.Errorf("message must never be empty")
	}
	if msg := Message(&fakeNetError{}, "fallback"); !strings.Contains(msg, "could not reach the server") {
		t.Errorf("want a connectivity message, got %q", msg)
	}
	wrapped := fmt.Errorf("could not log in: %w", FromResponse(401, []byte(`{"detail": "Bad credentials"}`)))
	if msg := Message(wrapped, "fallback"); msg != "Bad credentials" {
		t.Errorf("want %q, got %q", "Bad credentials", msg)
	}
	if msg := Message(errors.New("plain error"), "fallback"); msg != "plain error" {
		t.Errorf("want %q, got %q", "plain error", msg)
	}
}
