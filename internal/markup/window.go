// Package markup narrows a message body down to the region that lists the ordered items.
package markup

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultBuffer is how far the window backs up before the first start marker.
const DefaultBuffer = 500

// Markers configures a Locator. All matching is case-insensitive.
type Markers struct {
	Forward []string
	Start   []string
	End     []string
	Buffer  int
}

// DefaultMarkers returns the built-in marker set.
func DefaultMarkers() Markers {
	return Markers{
		Forward: []string{
			"---------- forwarded message ---------",
			"begin forwarded message:",
			"-----original message-----",
			"forwarded message",
		},
		Start: []string{
			"order summary",
			"order details",
			"items ordered",
			"items in your order",
			"item details",
			"your items",
			"what you ordered",
			"your order",
		},
		End: []string{
			"subtotal",
			"order total",
			"grand total",
			"total",
			"estimated tax",
			"sales tax",
		},
		Buffer: DefaultBuffer,
	}
}

// Locator finds the transactional zone of a document. It never fails closed:
// missing markers leave the corresponding side of the body untouched.
type Locator struct {
	forward *regexp.Regexp
	start   *regexp.Regexp
	end     *regexp.Regexp
	buffer  int
}

// NewLocator compiles the marker lists. Empty lists disable their step.
func NewLocator(m Markers) *Locator {
	buffer := m.Buffer
	if buffer < 0 {
		buffer = 0
	}
	return &Locator{
		forward: alternation(m.Forward),
		start:   alternation(m.Start),
		end:     alternation(m.End),
		buffer:  buffer,
	}
}

// Locate strips any forwarding preamble and crops to the order contents.
func (l *Locator) Locate(body string) string {
	return l.Crop(l.StripForwardHeader(body))
}

// StripForwardHeader drops everything up to and including the first
// forwarding marker.
func (l *Locator) StripForwardHeader(body string) string {
	if l.forward == nil {
		return body
	}
	loc := l.forward.FindStringIndex(body)
	if loc == nil {
		return body
	}
	return body[loc[1]:]
}

// Crop returns [first start marker - buffer, end of last end marker].
func (l *Locator) Crop(body string) string {
	from, to := 0, len(body)

	startAt := 0
	if l.start != nil {
		if loc := l.start.FindStringIndex(body); loc != nil {
			startAt = loc[0]
			from = alignRuneStart(body, max(0, loc[0]-l.buffer))
		}
	}

	if l.end != nil {
		matches := l.end.FindAllStringIndex(body, -1)
		if n := len(matches); n > 0 {
			last := matches[n-1]
			// an end marker that precedes the start marker belongs to a header; ignore it
			if last[1] > startAt && last[1] > from {
				to = last[1]
			}
		}
	}

	return body[from:to]
}

func alternation(markers []string) *regexp.Regexp {
	quoted := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(m))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}

func alignRuneStart(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
