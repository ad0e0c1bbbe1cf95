package scanner

import (
	"fmt"
	"strings"

	"WardrobeScanner/internal/domain"
)

// Parser captures a single extraction strategy (generic, Amazon, Nike, etc.).
type Parser interface {
	Name() string
	// Brand is the brand a retailer strategy tags its results with; "" for generic.
	Brand() string
	ExtractProducts(doc domain.RawDocument) ([]domain.Candidate, error)
}

type senderRoute struct {
	key    string
	parser Parser
}

// Registry maps parser names and sender substrings to implementations.
// Sender routes are matched in registration order.
type Registry struct {
	parsers map[string]Parser
	routes  []senderRoute
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: map[string]Parser{}}
}

// Register adds or replaces a parser and routes every sender key to it.
func (r *Registry) Register(parser Parser, senderKeys ...string) {
	if r.parsers == nil {
		r.parsers = map[string]Parser{}
	}
	r.parsers[parser.Name()] = parser
	for _, key := range senderKeys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		r.routes = append(r.routes, senderRoute{key: key, parser: parser})
	}
}

// Resolve returns a parser by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Parser, error) {
	if parser, ok := r.parsers[name]; ok {
		return parser, nil
	}
	return nil, fmt.Errorf("parser %s is not registered", name)
}

// Match returns the first parser whose sender key occurs in sender.
func (r *Registry) Match(sender string) (Parser, bool) {
	lower := strings.ToLower(sender)
	for _, route := range r.routes {
		if strings.Contains(lower, route.key) {
			return route.parser, true
		}
	}
	return nil, false
}
