package extract

import (
	"regexp"

	"WardrobeScanner/internal/lexicon"
)

// Default scoring weights.
const (
	PriceWeight      = 10
	ClothingWeight   = 50
	BlacklistPenalty = 100
	BrandWeight      = 50
	QuantityWeight   = 20
)

var quantityPattern = regexp.MustCompile(`(?i)qty|quantity|size:`)

// Weights tunes the additive scoring rules.
type Weights struct {
	Price     int `yaml:"price"`
	Clothing  int `yaml:"clothing"`
	Blacklist int `yaml:"blacklist"`
	Brand     int `yaml:"brand"`
	Quantity  int `yaml:"quantity"`
}

// DefaultWeights returns the built-in weights.
func DefaultWeights() Weights {
	return Weights{
		Price:     PriceWeight,
		Clothing:  ClothingWeight,
		Blacklist: BlacklistPenalty,
		Brand:     BrandWeight,
		Quantity:  QuantityWeight,
	}
}

// Scorer computes candidate confidence from a name and its surrounding markup.
type Scorer struct {
	lexicon *lexicon.Classifier
	weights Weights
}

// NewScorer builds a scorer; a nil classifier means lexicon.Default().
func NewScorer(lex *lexicon.Classifier, weights Weights) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Scorer{lexicon: lex, weights: weights}
}

// Score applies every rule in order; none short-circuits.
func (s *Scorer) Score(name, context string) int {
	score := 0
	if HasPrice(context) {
		score += s.weights.Price
	}
	if s.lexicon.IsClothingItem(name) {
		score += s.weights.Clothing
	}
	if s.lexicon.IsBlacklisted(name) {
		score -= s.weights.Blacklist
	}
	if s.lexicon.IsBrandName(name) {
		score += s.weights.Brand
	}
	if quantityPattern.MatchString(context) {
		score += s.weights.Quantity
	}
	return score
}
