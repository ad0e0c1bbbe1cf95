package parser

import (
	"fmt"
	"log/slog"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/ports"
	"WardrobeScanner/internal/scanner"
)

// TagFallback marks candidates produced by the generic parser after a
// retailer parser came back empty.
const TagFallback = "fallback"

// FallbackRecorder is notified whenever a retailer parser is bypassed.
type FallbackRecorder interface {
	ParserFallback(parser string)
}

// Dispatcher implements ProductExtractor by routing each document to the
// parser registered for its sender.
type Dispatcher struct {
	registry *scanner.Registry
	generic  scanner.Parser
	recorder FallbackRecorder
	logger   *slog.Logger
}

var _ ports.ProductExtractor = (*Dispatcher)(nil)

// NewDispatcher wires the registry with the generic fallback parser.
func NewDispatcher(reg *scanner.Registry, generic scanner.Parser, recorder FallbackRecorder, log *slog.Logger) *Dispatcher {
	if reg == nil {
		reg = scanner.NewRegistry()
	}
	if generic == nil {
		generic = NewGenericParser(nil)
	}
	return &Dispatcher{
		registry: reg,
		generic:  generic,
		recorder: recorder,
		logger:   log,
	}
}

// Select returns the retailer parser for sender, or the generic parser.
func (d *Dispatcher) Select(sender string) scanner.Parser {
	if parser, ok := d.registry.Match(sender); ok {
		return parser
	}
	return d.generic
}

// ExtractProducts runs the selected parser. A retailer parser that errors or
// finds nothing is replaced by the generic parser for that document.
func (d *Dispatcher) ExtractProducts(doc domain.RawDocument) ([]domain.Candidate, error) {
	if !doc.HasBody() {
		return nil, nil
	}

	parser := d.Select(doc.Sender)
	if parser == d.generic {
		return d.generic.ExtractProducts(doc)
	}

	results, err := parser.ExtractProducts(doc)
	switch {
	case err != nil:
		d.debug("retailer parser failed, using generic", "parser", parser.Name(), "document", doc.ID, "error", err)
	case len(results) > 0:
		return results, nil
	default:
		d.debug("retailer parser found nothing, using generic", "parser", parser.Name(), "document", doc.ID)
	}

	if d.recorder != nil {
		d.recorder.ParserFallback(parser.Name())
	}

	fallback, err := d.generic.ExtractProducts(doc)
	if err != nil {
		return nil, fmt.Errorf("generic parser: %w", err)
	}
	return tagged(fallback, parser.Brand(), retailerTagPrefix+parser.Name(), TagFallback), nil
}

func (d *Dispatcher) debug(msg string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
