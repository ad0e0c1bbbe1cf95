// Package lexicon decides whether text reads like a clothing product, a brand
// label or page noise, and whether an image is plausible as a product photo.
// A Classifier is immutable after construction and safe for concurrent use.
package lexicon

import (
	"sort"
	"strings"
	"unicode"
)

// Data is the raw keyword material a Classifier is built from.
type Data struct {
	// Keywords maps a category (or non-category group) to its terms.
	Keywords       map[string][]string
	Brands         []string
	Blacklist      []string
	ImageBlocklist []string
}

// Merge returns d extended with every entry of extra.
func (d Data) Merge(extra Data) Data {
	merged := Data{
		Keywords:       map[string][]string{},
		Brands:         append(append([]string{}, d.Brands...), extra.Brands...),
		Blacklist:      append(append([]string{}, d.Blacklist...), extra.Blacklist...),
		ImageBlocklist: append(append([]string{}, d.ImageBlocklist...), extra.ImageBlocklist...),
	}
	for group, terms := range d.Keywords {
		merged.Keywords[group] = append(merged.Keywords[group], terms...)
	}
	for group, terms := range extra.Keywords {
		merged.Keywords[group] = append(merged.Keywords[group], terms...)
	}
	return merged
}

type keyword struct {
	term     string
	category string
}

// Classifier holds normalised lexicon sets.
type Classifier struct {
	keywords   []keyword
	brands     map[string]string
	brandTerms []string
	blacklist  []string
	imageBlock [][]string
}

var defaultClassifier = New(DefaultData())

// Default returns the classifier built from DefaultData.
func Default() *Classifier {
	return defaultClassifier
}

// New normalises data into a Classifier. Terms are lowercased and trimmed;
// empty and duplicate entries are dropped.
func New(data Data) *Classifier {
	c := &Classifier{brands: map[string]string{}}

	groups := make([]string, 0, len(data.Keywords))
	for group := range data.Keywords {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	seenKeyword := map[string]struct{}{}
	for _, group := range groups {
		category := group
		if group == GroupMaterials {
			category = ""
		}
		for _, term := range data.Keywords[group] {
			term = normalise(term)
			if term == "" {
				continue
			}
			if _, ok := seenKeyword[term]; ok {
				continue
			}
			seenKeyword[term] = struct{}{}
			c.keywords = append(c.keywords, keyword{term: term, category: category})
		}
	}

	for _, brand := range data.Brands {
		display := strings.TrimSpace(brand)
		key := normalise(brand)
		if key == "" {
			continue
		}
		if _, ok := c.brands[key]; ok {
			continue
		}
		c.brands[key] = display
		c.brandTerms = append(c.brandTerms, key)
	}
	// Longest first so BrandIn prefers "the north face" over "north face"-like overlaps.
	sort.SliceStable(c.brandTerms, func(i, j int) bool {
		if len(c.brandTerms[i]) != len(c.brandTerms[j]) {
			return len(c.brandTerms[i]) > len(c.brandTerms[j])
		}
		return c.brandTerms[i] < c.brandTerms[j]
	})

	c.blacklist = normaliseAll(data.Blacklist)
	for _, term := range normaliseAll(data.ImageBlocklist) {
		if tokens := pathTokens(term); len(tokens) > 0 {
			c.imageBlock = append(c.imageBlock, tokens)
		}
	}
	return c
}

// IsBlacklisted reports whether any blacklist phrase occurs in text.
func (c *Classifier) IsBlacklisted(text string) bool {
	return containsAny(strings.ToLower(text), c.blacklist)
}

// HasClothingKeyword reports whether text contains a clothing term.
func (c *Classifier) HasClothingKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw.term) {
			return true
		}
	}
	return false
}

// IsClothingItem applies the blacklist first, then accepts names carrying a
// clothing keyword or a known brand. Names with neither signal are rejected.
func (c *Classifier) IsClothingItem(name string) bool {
	if c.IsBlacklisted(name) {
		return false
	}
	if c.HasClothingKeyword(name) {
		return true
	}
	return c.BrandIn(name) != ""
}

// IsBrandName reports an exact, case-insensitive brand match.
func (c *Classifier) IsBrandName(name string) bool {
	_, ok := c.brands[normalise(name)]
	return ok
}

// BrandIn returns the display name of the longest brand contained in text.
func (c *Classifier) BrandIn(text string) string {
	lower := strings.ToLower(text)
	for _, term := range c.brandTerms {
		if strings.Contains(lower, term) {
			return c.brands[term]
		}
	}
	return ""
}

// Category returns the category of the first matching keyword, or "".
func (c *Classifier) Category(name string) string {
	lower := strings.ToLower(name)
	for _, kw := range c.keywords {
		if kw.category != "" && strings.Contains(lower, kw.term) {
			return kw.category
		}
	}
	return ""
}

func normalise(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func normaliseAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := map[string]struct{}{}
	for _, term := range terms {
		term = normalise(term)
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// pathTokens splits a URI or blocklist term into lowercase alphanumeric runs,
// so "/nav/" and "nav_" both become ["nav"].
func pathTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsTokens reports whether needle occurs as a consecutive run of
// haystack tokens. A trailing "s" on the last haystack token is tolerated.
func containsTokens(haystack, needle []string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		matched := true
		for j, want := range needle {
			got := haystack[i+j]
			if got == want || (j == len(needle)-1 && got == want+"s") {
				continue
			}
			matched = false
			break
		}
		if matched {
			return true
		}
	}
	return false
}
