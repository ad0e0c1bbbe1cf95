// Package extract turns a message body into scored product candidates using
// pattern matching over the markup rather than a full document parse.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/lexicon"
	"WardrobeScanner/internal/markup"
)

const (
	// DefaultRadius is the number of bytes searched on each side of an image.
	DefaultRadius = 300
	maxLinkName   = 100
	// TagGeneric marks candidates produced by the generic pipeline.
	TagGeneric = "generic"
)

// Extractor runs the generic locate → enumerate → name → score pipeline.
type Extractor struct {
	lexicon *lexicon.Classifier
	locator *markup.Locator
	scorer  *Scorer
	radius  int
}

// New wires an extractor. Nil arguments fall back to the built-in defaults.
func New(lex *lexicon.Classifier, loc *markup.Locator, scorer *Scorer) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	if loc == nil {
		loc = markup.NewLocator(markup.DefaultMarkers())
	}
	if scorer == nil {
		scorer = NewScorer(lex, DefaultWeights())
	}
	return &Extractor{lexicon: lex, locator: loc, scorer: scorer, radius: DefaultRadius}
}

// Extract returns the candidates of one body in document order. Only
// plausible images with a derived name and a positive score survive.
func (e *Extractor) Extract(body string) []domain.Candidate {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	window := e.locator.Locate(body)
	seen := map[string]struct{}{}
	var candidates []domain.Candidate

	for _, tag := range FindImages(window) {
		if tag.Src == "" {
			continue
		}
		if _, dup := seen[tag.Src]; dup {
			continue
		}
		seen[tag.Src] = struct{}{}

		if !e.lexicon.IsLikelyProductImage(tag.Image()) {
			continue
		}

		nearby, offset := surrounding(window, tag.Start, tag.End, e.radius)
		tagEnd := offset + (tag.End - tag.Start)

		name := CleanName(tag.Alt)
		if name == "" {
			name = e.nameFromLinks(nearby)
		}
		if name == "" || e.lexicon.IsBlacklisted(name) {
			continue
		}

		score := e.scorer.Score(name, nearby)
		if score <= 0 {
			continue
		}

		size, color := Attributes(PlainText(nearby[tagEnd:]))
		candidates = append(candidates, domain.Candidate{
			Name:     name,
			ImageURL: tag.Src,
			Price:    nearestPrice(nearby, offset, tagEnd),
			Brand:    e.lexicon.BrandIn(name),
			Size:     size,
			Color:    color,
			Category: e.lexicon.Category(name),
			Tags:     []string{TagGeneric},
			Score:    score,
		})
	}

	return candidates
}

// nameFromLinks picks the first link text near the image that reads like a
// product name.
func (e *Extractor) nameFromLinks(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var name string
	doc.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		text := CleanName(link.Text())
		if !e.acceptableLinkName(text) {
			return true
		}
		name = text
		return false
	})
	return name
}

func (e *Extractor) acceptableLinkName(text string) bool {
	if text == "" || len([]rune(text)) >= maxLinkName {
		return false
	}
	if HasPrice(text) || e.lexicon.IsBlacklisted(text) || e.lexicon.IsBrandName(text) {
		return false
	}
	return true
}
