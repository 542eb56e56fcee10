package domain

// Well-known header names set by the producer when building a frame.
const (
	// HeaderContentLength is the byte length of the frame body.
	// Always computed at build time, overriding any caller value.
	HeaderContentLength = "content-length"

	// HeaderMessageID uniquely identifies a frame. Computed at build time
	// when the caller did not supply one.
	HeaderMessageID = "message-id"

	// HeaderDestination is the normalized destination carried on the wire.
	HeaderDestination = "destination"
)

// Header is a single name/value pair.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered list of name/value pairs. Unlike a map, it preserves
// insertion order, which is the order headers are written on the wire.
type Headers []Header

// Get returns the value of the first header with the given name.
func (h Headers) Get(name string) (string, bool) {
	for _, f := range h {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set overwrites the first header with the given name in place, or appends
// a new header if none exists. Insertion order of existing names is kept.
func (h Headers) Set(name, value string) Headers {
	for i, f := range h {
		if f.Name == name {
			h[i].Value = value
			return h
		}
	}
	return append(h, Header{Name: name, Value: value})
}

// Merge returns a copy of h with every header from overlay applied on top,
// overlay values winning for duplicate names.
func (h Headers) Merge(overlay Headers) Headers {
	out := make(Headers, len(h), len(h)+len(overlay))
	copy(out, h)
	for _, f := range overlay {
		out = out.Set(f.Name, f.Value)
	}
	return out
}

// Clone returns an independent copy of h.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	copy(out, h)
	return out
}
