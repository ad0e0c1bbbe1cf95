package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/infrastructure/mailbox"
	"WardrobeScanner/internal/ports"
)

const (
	defaultUser     = "me"
	listPageSize    = 100
	defaultRequests = 5.0
)

// ErrMissingToken is returned when no access token was configured.
var ErrMissingToken = errors.New("gmail access token is not configured")

// Options configures the Gmail source.
type Options struct {
	User              string
	AccessToken       string
	RequestsPerSecond float64
	// Endpoint overrides the API base URL.
	Endpoint string
	// HTTPClient replaces the token-authenticated client.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Source searches a Gmail mailbox and fetches raw messages.
type Source struct {
	service *gmailapi.Service
	user    string
	hasAuth bool
	limiter *rate.Limiter
	logger  *slog.Logger
}

var (
	_ ports.MessageSource = (*Source)(nil)
	_ ports.Authenticator = (*Source)(nil)
)

// NewSource builds the Gmail API client.
func NewSource(ctx context.Context, opts Options) (*Source, error) {
	var clientOpts []option.ClientOption
	switch {
	case opts.HTTPClient != nil:
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	case opts.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken, TokenType: "Bearer"})
		clientOpts = append(clientOpts, option.WithTokenSource(ts))
	default:
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	service, err := gmailapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}

	user := opts.User
	if user == "" {
		user = defaultUser
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequests
	}

	return &Source{
		service: service,
		user:    user,
		hasAuth: opts.HTTPClient != nil || opts.AccessToken != "",
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  opts.Logger,
	}, nil
}

// Authenticate checks the token by reading the mailbox profile.
func (s *Source) Authenticate(ctx context.Context) error {
	if !s.hasAuth {
		return ErrMissingToken
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	profile, err := s.service.Users.GetProfile(s.user).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail profile: %w", err)
	}
	s.debug("gmail authenticated", "email", profile.EmailAddress)
	return nil
}

// Search lists matching message IDs and fetches each message in raw form.
// Messages that fail to decode are skipped.
func (s *Source) Search(ctx context.Context, query ports.SearchQuery) ([]domain.RawDocument, error) {
	var ids []string
	call := s.service.Users.Messages.List(s.user).Q(BuildQuery(query)).MaxResults(listPageSize)
	err := call.Pages(ctx, func(page *gmailapi.ListMessagesResponse) error {
		for _, m := range page.Messages {
			ids = append(ids, m.Id)
		}
		return s.limiter.Wait(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	docs := make([]domain.RawDocument, 0, len(ids))
	for _, id := range ids {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		doc, err := s.fetch(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.warn("skipping message", "id", id, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Source) fetch(ctx context.Context, id string) (domain.RawDocument, error) {
	msg, err := s.service.Users.Messages.Get(s.user, id).Format("raw").Context(ctx).Do()
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("get message: %w", err)
	}

	raw, err := decodeRaw(msg.Raw)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("decode raw message: %w", err)
	}

	doc, err := mailbox.ParseMessage(bytes.NewReader(raw))
	if err != nil {
		return domain.RawDocument{}, err
	}
	doc.ID = msg.Id
	if doc.ReceivedAt.IsZero() && msg.InternalDate > 0 {
		doc.ReceivedAt = time.UnixMilli(msg.InternalDate).UTC()
	}
	return doc, nil
}

// BuildQuery renders a Gmail search expression for the query.
func BuildQuery(query ports.SearchQuery) string {
	var parts []string
	if !query.Since.IsZero() {
		parts = append(parts, fmt.Sprintf("after:%d", query.Since.Unix()))
	}
	if !query.Until.IsZero() {
		parts = append(parts, fmt.Sprintf("before:%d", query.Until.Unix()))
	}

	var terms []string
	for _, kw := range query.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.ContainsAny(kw, " \t") {
			kw = `"` + kw + `"`
		}
		terms = append(terms, kw)
	}
	if len(terms) > 0 {
		parts = append(parts, "("+strings.Join(terms, " OR ")+")")
	}
	return strings.Join(parts, " ")
}

// decodeRaw accepts both padded and unpadded URL-safe base64.
func decodeRaw(raw string) ([]byte, error) {
	if b, err := base64.URLEncoding.DecodeString(raw); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
}

func (s *Source) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Source) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
