// Package mailbox turns RFC 822 messages into documents for extraction and
// serves them from a directory of .eml files.
package mailbox

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"WardrobeScanner/internal/domain"
)

// maxPartDepth bounds nested multipart recursion.
const maxPartDepth = 5

var headerDecoder = new(mime.WordDecoder)

// ParseMessage reads one RFC 822 message. The HTML part is preferred as body;
// a message with only plain text keeps it as body. The ID is taken from the
// Message-Id header when present.
func ParseMessage(r io.Reader) (domain.RawDocument, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("read message: %w", err)
	}

	doc := domain.RawDocument{
		ID:      strings.Trim(strings.TrimSpace(msg.Header.Get("Message-Id")), "<>"),
		Sender:  decodeHeader(msg.Header.Get("From")),
		Subject: decodeHeader(msg.Header.Get("Subject")),
	}
	if date, err := msg.Header.Date(); err == nil {
		doc.ReceivedAt = date.UTC()
	}

	html, plain, err := readBody(msg.Header, msg.Body, 0)
	if err != nil {
		return domain.RawDocument{}, err
	}
	doc.Body = html
	if doc.Body == "" {
		doc.Body = plain
	}
	return doc, nil
}

type headerGetter interface {
	Get(key string) string
}

func readBody(header headerGetter, body io.Reader, depth int) (html, plain string, err error) {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if depth >= maxPartDepth || params["boundary"] == "" {
			return "", "", nil
		}
		return readMultipart(body, params["boundary"], depth+1)
	}

	raw, err := io.ReadAll(decodeTransfer(header.Get("Content-Transfer-Encoding"), body))
	if err != nil {
		return "", "", fmt.Errorf("read %s body: %w", mediaType, err)
	}

	switch mediaType {
	case "text/html":
		return string(raw), "", nil
	case "text/plain":
		return "", string(raw), nil
	default:
		return "", "", nil
	}
}

func readMultipart(body io.Reader, boundary string, depth int) (html, plain string, err error) {
	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Truncated multipart: keep what was read so far.
			break
		}
		if disposition, _, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition")); disposition == "attachment" {
			continue
		}

		h, p, err := readBody(part.Header, part, depth)
		if err != nil {
			return "", "", err
		}
		if html == "" {
			html = h
		}
		if plain == "" {
			plain = p
		}
	}
	return html, plain, nil
}

// decodeTransfer undoes the content transfer encoding. multipart.Reader
// already strips quoted-printable from parts, so that case only applies to
// single-part messages.
func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

func decodeHeader(value string) string {
	if value == "" {
		return ""
	}
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// inRange reports whether t lies within [since, until]; zero bounds are open.
func inRange(t, since, until time.Time) bool {
	if t.IsZero() {
		return true
	}
	if !since.IsZero() && t.Before(since) {
		return false
	}
	if !until.IsZero() && t.After(until) {
		return false
	}
	return true
}
