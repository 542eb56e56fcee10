package domain

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestIsTransport(t *testing.T) {
	te := NewTransportError("send", io.ErrClosedPipe)

	if !IsTransport(te) {
		t.Error("IsTransport(TransportError) = false")
	}
	if !IsTransport(fmt.Errorf("wrapped: %w", te)) {
		t.Error("IsTransport should see through wrapping")
	}
	if IsTransport(ErrCommitUnderflow) {
		t.Error("IsTransport(ErrCommitUnderflow) = true")
	}
	if IsTransport(nil) {
		t.Error("IsTransport(nil) = true")
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	te := NewTransportError("dial", io.EOF)
	if !errors.Is(te, io.EOF) {
		t.Error("TransportError should unwrap to its cause")
	}
}

func TestValidationErrorMessages(t *testing.T) {
	plain := &ValidationError{}
	if plain.Error() == "" || plain.Unwrap() != nil {
		t.Error("plain negative result should have no cause")
	}

	caused := &ValidationError{Cause: io.ErrUnexpectedEOF}
	if !errors.Is(caused, io.ErrUnexpectedEOF) {
		t.Error("ValidationError should unwrap to its cause")
	}
}

func TestEndpointGroupMergedConnectHeaders(t *testing.T) {
	defaults := Headers{{Name: "login", Value: "guest"}, {Name: "heart-beat", Value: "0,0"}}
	g := EndpointGroup{
		Name:           "primary",
		ConnectHeaders: Headers{{Name: "login", Value: "svc"}},
	}

	merged := g.MergedConnectHeaders(defaults)
	if v, _ := merged.Get("login"); v != "svc" {
		t.Errorf("login = %q, want group value svc", v)
	}
	if v, _ := merged.Get("heart-beat"); v != "0,0" {
		t.Errorf("heart-beat = %q, want default 0,0", v)
	}
}

func TestEndpointAddr(t *testing.T) {
	e := Endpoint{Host: "broker-a", Port: 61613}
	if e.Addr() != "broker-a:61613" {
		t.Errorf("Addr() = %q", e.Addr())
	}
}
