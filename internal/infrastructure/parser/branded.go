package parser

import (
	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/scanner"
)

// BrandedParser delegates to another parser and tags its results with a brand.
type BrandedParser struct {
	name  string
	brand string
	inner scanner.Parser
}

var _ scanner.Parser = (*BrandedParser)(nil)

// NewBrandedParser wraps inner under a retailer name.
func NewBrandedParser(name, brand string, inner scanner.Parser) *BrandedParser {
	return &BrandedParser{name: name, brand: brand, inner: inner}
}

// Name identifies the strategy inside the registry.
func (b *BrandedParser) Name() string {
	return b.name
}

// Brand returns the brand results are tagged with.
func (b *BrandedParser) Brand() string {
	return b.brand
}

// ExtractProducts runs the inner parser and post-tags each result.
func (b *BrandedParser) ExtractProducts(doc domain.RawDocument) ([]domain.Candidate, error) {
	results, err := b.inner.ExtractProducts(doc)
	if err != nil {
		return nil, err
	}
	return tagged(results, b.brand, retailerTagPrefix+b.name), nil
}

// tagged returns copies of cands with brand filled where missing and the
// given tags appended.
func tagged(cands []domain.Candidate, brand string, tags ...string) []domain.Candidate {
	if len(cands) == 0 {
		return cands
	}
	out := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Brand == "" {
			c.Brand = brand
		}
		c.Tags = append(append(make([]string, 0, len(c.Tags)+len(tags)), c.Tags...), tags...)
		out = append(out, c)
	}
	return out
}
