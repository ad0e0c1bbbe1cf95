package parser

import (
	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/extract"
	"WardrobeScanner/internal/scanner"
)

// GenericName identifies the fallback strategy inside the registry.
const GenericName = "generic"

// GenericParser runs the retailer-agnostic extract-and-score pipeline.
type GenericParser struct {
	extractor *extract.Extractor
}

var _ scanner.Parser = (*GenericParser)(nil)

// NewGenericParser wraps an extractor; nil means the default extractor.
func NewGenericParser(extractor *extract.Extractor) *GenericParser {
	if extractor == nil {
		extractor = extract.New(nil, nil, nil)
	}
	return &GenericParser{extractor: extractor}
}

// Name identifies the strategy inside the registry.
func (g *GenericParser) Name() string {
	return GenericName
}

// Brand is empty: the generic parser infers brands per candidate.
func (g *GenericParser) Brand() string {
	return ""
}

// ExtractProducts never fails; a document without body yields no candidates.
func (g *GenericParser) ExtractProducts(doc domain.RawDocument) ([]domain.Candidate, error) {
	if !doc.HasBody() {
		return nil, nil
	}
	return g.extractor.Extract(doc.Body), nil
}
