package parser

import (
	"fmt"
	"strings"

	"WardrobeScanner/internal/config"
	"WardrobeScanner/internal/lexicon"
	"WardrobeScanner/internal/markup"
	"WardrobeScanner/internal/scanner"
)

// Strategy names accepted in retailer configuration.
const (
	StrategyPattern  = "pattern"
	StrategyDelegate = "delegate"
)

// NewRegistry registers one parser per configured retailer, in config order.
func NewRegistry(retailers []config.RetailerConfig, generic scanner.Parser, lex *lexicon.Classifier, loc *markup.Locator) (*scanner.Registry, error) {
	reg := scanner.NewRegistry()
	reg.Register(generic)

	for _, rc := range retailers {
		p, err := Build(rc, generic, lex, loc)
		if err != nil {
			return nil, err
		}
		senders := rc.Senders
		if len(senders) == 0 {
			senders = []string{rc.Name}
		}
		reg.Register(p, senders...)
	}
	return reg, nil
}

// Build creates the parser described by one retailer entry.
func Build(rc config.RetailerConfig, generic scanner.Parser, lex *lexicon.Classifier, loc *markup.Locator) (scanner.Parser, error) {
	switch strings.ToLower(strings.TrimSpace(rc.Strategy)) {
	case StrategyPattern, "":
		return NewRetailerParser(RetailerOptions{
			Name:            rc.Name,
			Brand:           rc.Brand,
			Selectors:       rc.Selectors,
			Score:           rc.Score,
			RequireClothing: rc.RequireClothing,
		}, lex, loc)
	case StrategyDelegate:
		if rc.Name == "" {
			return nil, fmt.Errorf("delegate retailer needs a name")
		}
		return NewBrandedParser(rc.Name, rc.Brand, generic), nil
	default:
		return nil, fmt.Errorf("retailer %s: unknown strategy %q", rc.Name, rc.Strategy)
	}
}
