package domain

import "testing"

func TestNormalizeDestination(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo", "/foo"},
		{"/foo", "/foo"},
		{"queue/events", "/queue/events"},
		{"/queue/events", "/queue/events"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeDestination(tt.in); got != tt.want {
			t.Errorf("NormalizeDestination(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFrameMergePrecedence(t *testing.T) {
	defaults := Headers{{Name: "persistent", Value: "true"}, {Name: "priority", Value: "low"}}
	caller := Headers{{Name: "priority", Value: "high"}}

	f := NewFrame("foo", defaults, caller, []byte("x"))

	if f.Destination != "/foo" {
		t.Fatalf("Destination = %q, want /foo", f.Destination)
	}
	if v, _ := f.Headers.Get("persistent"); v != "true" {
		t.Errorf("persistent = %q, want true", v)
	}
	if v, _ := f.Headers.Get("priority"); v != "high" {
		t.Errorf("priority = %q, want high (caller over default)", v)
	}
	if v, _ := f.Headers.Get(HeaderContentLength); v != "1" {
		t.Errorf("content-length = %q, want 1", v)
	}
	if v, _ := f.Headers.Get(HeaderDestination); v != "/foo" {
		t.Errorf("destination header = %q, want /foo", v)
	}
}

func TestNewFrameComputedWinsOverCaller(t *testing.T) {
	caller := Headers{{Name: HeaderContentLength, Value: "999"}}
	f := NewFrame("/q", nil, caller, []byte("abc"))
	if v, _ := f.Headers.Get(HeaderContentLength); v != "3" {
		t.Errorf("content-length = %q, want computed 3", v)
	}
}

func TestNewFrameMessageID(t *testing.T) {
	f := NewFrame("/q", nil, nil, nil)
	if v, ok := f.Headers.Get(HeaderMessageID); !ok || v == "" {
		t.Error("expected generated message-id")
	}

	caller := Headers{{Name: HeaderMessageID, Value: "custom-1"}}
	f = NewFrame("/q", nil, caller, nil)
	if v, _ := f.Headers.Get(HeaderMessageID); v != "custom-1" {
		t.Errorf("message-id = %q, want caller-supplied custom-1", v)
	}
}

func TestHeadersOrderPreserved(t *testing.T) {
	var h Headers
	h = h.Set("a", "1")
	h = h.Set("b", "2")
	h = h.Set("a", "3")

	if len(h) != 2 {
		t.Fatalf("len = %d, want 2", len(h))
	}
	if h[0].Name != "a" || h[0].Value != "3" {
		t.Errorf("h[0] = %+v, want a=3 in place", h[0])
	}
	if h[1].Name != "b" {
		t.Errorf("h[1] = %+v, want b second", h[1])
	}
}

func TestHeadersMergeDoesNotMutate(t *testing.T) {
	base := Headers{{Name: "a", Value: "1"}}
	merged := base.Merge(Headers{{Name: "a", Value: "2"}, {Name: "b", Value: "3"}})

	if v, _ := base.Get("a"); v != "1" {
		t.Errorf("base mutated: a = %q", v)
	}
	if v, _ := merged.Get("a"); v != "2" {
		t.Errorf("merged a = %q, want 2", v)
	}
	if v, _ := merged.Get("b"); v != "3" {
		t.Errorf("merged b = %q, want 3", v)
	}
}
