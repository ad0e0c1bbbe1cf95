package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/extract"
	"WardrobeScanner/internal/lexicon"
	"WardrobeScanner/internal/markup"
	"WardrobeScanner/internal/scanner"
)

const (
	// DefaultRetailerScore is the flat confidence given to known-format results.
	DefaultRetailerScore = 90
	retailerTagPrefix    = "retailer:"
)

// RetailerOptions describes a selector-driven retailer strategy.
type RetailerOptions struct {
	Name  string
	Brand string
	// Selectors pick product images, or elements wrapping them.
	Selectors       []string
	Score           int
	RequireClothing bool
}

// RetailerParser extracts products using markup idioms of one retailer and
// gives every result the same confidence.
type RetailerParser struct {
	name            string
	brand           string
	selector        string
	score           int
	requireClothing bool
	lexicon         *lexicon.Classifier
	locator         *markup.Locator
}

var _ scanner.Parser = (*RetailerParser)(nil)

// NewRetailerParser validates the selectors up front so a bad config fails at startup.
func NewRetailerParser(opts RetailerOptions, lex *lexicon.Classifier, loc *markup.Locator) (*RetailerParser, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, errors.New("retailer parser needs a name")
	}
	if len(opts.Selectors) == 0 {
		return nil, fmt.Errorf("retailer %s: no selectors configured", opts.Name)
	}
	for _, sel := range opts.Selectors {
		if _, err := cascadia.Compile(sel); err != nil {
			return nil, fmt.Errorf("retailer %s: invalid selector %q: %w", opts.Name, sel, err)
		}
	}

	score := opts.Score
	if score == 0 {
		score = DefaultRetailerScore
	}
	if score < 0 {
		return nil, fmt.Errorf("retailer %s: score must be positive, got %d", opts.Name, score)
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	if loc == nil {
		loc = markup.NewLocator(markup.DefaultMarkers())
	}

	return &RetailerParser{
		name:            opts.Name,
		brand:           opts.Brand,
		selector:        strings.Join(opts.Selectors, ", "),
		score:           score,
		requireClothing: opts.RequireClothing,
		lexicon:         lex,
		locator:         loc,
	}, nil
}

// Name identifies the strategy inside the registry.
func (p *RetailerParser) Name() string {
	return p.name
}

// Brand returns the brand results are tagged with.
func (p *RetailerParser) Brand() string {
	return p.brand
}

// ExtractProducts walks the selected images inside the transactional window.
func (p *RetailerParser) ExtractProducts(doc domain.RawDocument) ([]domain.Candidate, error) {
	if !doc.HasBody() {
		return nil, nil
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(p.locator.Locate(doc.Body)))
	if err != nil {
		return nil, fmt.Errorf("parse %s markup: %w", p.name, err)
	}

	seen := map[string]struct{}{}
	var results []domain.Candidate
	page.Find(p.selector).Each(func(_ int, sel *goquery.Selection) {
		img := sel
		if goquery.NodeName(sel) != "img" {
			img = sel.Find("img").First()
		}
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			return
		}
		if _, dup := seen[src]; dup {
			return
		}
		seen[src] = struct{}{}

		if candidate, ok := p.candidate(page, img, src); ok {
			results = append(results, candidate)
		}
	})

	return results, nil
}

func (p *RetailerParser) candidate(page *goquery.Document, img *goquery.Selection, src string) (domain.Candidate, bool) {
	alt := img.AttrOr("alt", "")
	image := lexicon.Image{
		URL:    src,
		Alt:    alt,
		Width:  extract.ParseDimension(img.AttrOr("width", "")),
		Height: extract.ParseDimension(img.AttrOr("height", "")),
	}
	if !p.lexicon.IsLikelyProductImage(image) {
		return domain.Candidate{}, false
	}

	name := extract.CleanName(alt)
	if name == "" {
		name = linkedName(page, img)
	}
	if name == "" || p.lexicon.IsBlacklisted(name) || p.lexicon.IsBrandName(name) {
		return domain.Candidate{}, false
	}
	if p.requireClothing && !p.lexicon.IsClothingItem(name) {
		return domain.Candidate{}, false
	}

	row := rowText(img)
	size, color := extract.Attributes(row)
	brand := p.brand
	if brand == "" {
		brand = p.lexicon.BrandIn(name)
	}

	return domain.Candidate{
		Name:     name,
		ImageURL: src,
		Price:    extract.FindPrice(row),
		Brand:    brand,
		Size:     size,
		Color:    color,
		Category: p.lexicon.Category(name),
		Tags:     []string{retailerTagPrefix + p.name},
		Score:    p.score,
	}, true
}

// linkedName follows the image's link to a sibling link with the same target
// that carries the product title, a common layout in order emails.
func linkedName(page *goquery.Document, img *goquery.Selection) string {
	link := img.Closest("a")
	if title := extract.CleanName(link.AttrOr("title", "")); title != "" {
		return title
	}
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return ""
	}

	var name string
	page.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if a.AttrOr("href", "") != href {
			return true
		}
		text := extract.CleanName(a.Text())
		if text == "" || extract.HasPrice(text) {
			return true
		}
		name = text
		return false
	})
	return name
}

func rowText(img *goquery.Selection) string {
	scope := img.Closest("tr")
	if scope.Length() == 0 {
		scope = img.Parent().Parent()
	}
	if scope.Length() == 0 {
		return ""
	}
	var parts []string
	collectText(scope, &parts)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// collectText gathers text nodes in document order. Selection.Text glues
// adjacent cells together ("ShortsSize: L"), which hides the size cue.
func collectText(s *goquery.Selection, parts *[]string) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "#text" {
			*parts = append(*parts, child.Text())
			return
		}
		collectText(child, parts)
	})
}
