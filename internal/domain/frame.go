package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Frame is one outbound message unit: an ordered header list, a body and a
// destination. Frames are treated as immutable once queued or sent.
type Frame struct {
	Destination string
	Headers     Headers
	Body        []byte
}

// NewFrame builds a frame by merging header sources from lowest to highest
// precedence: defaults, caller headers, computed headers. Computed headers
// are the body length and the normalized destination; a message-id is
// generated only when the caller supplied none.
func NewFrame(destination string, defaults, headers Headers, body []byte) Frame {
	dest := NormalizeDestination(destination)

	merged := defaults.Merge(headers)
	if _, ok := merged.Get(HeaderMessageID); !ok {
		merged = merged.Set(HeaderMessageID, uuid.NewString())
	}
	merged = merged.Set(HeaderContentLength, strconv.Itoa(len(body)))
	merged = merged.Set(HeaderDestination, dest)

	return Frame{
		Destination: dest,
		Headers:     merged,
		Body:        body,
	}
}

// NormalizeDestination prefixes a destination with "/" unless it already
// starts with one. Empty destinations are returned unchanged.
func NormalizeDestination(destination string) string {
	if destination == "" || strings.HasPrefix(destination, "/") {
		return destination
	}
	return "/" + destination
}
