package extract

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	pricePattern   = regexp.MustCompile(`[$£€]\s?\d[\d,]*(?:\.\d{2})?`)
	entityPattern  = regexp.MustCompile(`&#?[A-Za-z0-9]+;`)
	spacePattern   = regexp.MustCompile(`[\s\p{Zs}]+`)
	tagPattern     = regexp.MustCompile(`(?s)<[^>]*>`)
	sizePattern    = regexp.MustCompile(`(?i)\bsize\s*:\s*([^\s,;|<]{1,10})`)
	colorPattern   = regexp.MustCompile(`(?i)\bcolou?r\s*:\s*([A-Za-z]+(?:[ /-][A-Za-z]+){0,2})`)
	colorStopWords = map[string]struct{}{"size": {}, "qty": {}, "quantity": {}, "price": {}, "item": {}}
)

var noiseNames = map[string]struct{}{
	"image":         {},
	"images":        {},
	"product":       {},
	"product image": {},
	"product photo": {},
	"thumbnail":     {},
	"photo":         {},
	"picture":       {},
	"img":           {},
	"item":          {},
	"item image":    {},
}

// CleanName decodes entities, collapses whitespace and drops noise. It
// returns "" for names of two characters or fewer.
func CleanName(raw string) string {
	s := html.UnescapeString(raw)
	s = entityPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= 2 {
		return ""
	}
	if _, ok := noiseNames[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}

// HasPrice reports whether text contains a currency amount.
func HasPrice(text string) bool {
	return pricePattern.MatchString(text)
}

// FindPrice returns the first currency amount in text.
func FindPrice(text string) string {
	return strings.TrimSpace(pricePattern.FindString(text))
}

// nearestPrice prefers the first amount after [start,end) and falls back to
// the closest one before it.
func nearestPrice(text string, start, end int) string {
	var before string
	for _, loc := range pricePattern.FindAllStringIndex(text, -1) {
		if loc[0] >= end {
			return strings.TrimSpace(text[loc[0]:loc[1]])
		}
		if loc[1] <= start {
			before = text[loc[0]:loc[1]]
		}
	}
	return strings.TrimSpace(before)
}

// PlainText strips tags and entities from a markup fragment.
func PlainText(markup string) string {
	s := tagPattern.ReplaceAllString(markup, " ")
	s = html.UnescapeString(s)
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Attributes reads "Size:" and "Color:" cues from a plain-text fragment.
func Attributes(text string) (size, color string) {
	if m := sizePattern.FindStringSubmatch(text); m != nil {
		size = m[1]
	}
	if m := colorPattern.FindStringSubmatch(text); m != nil {
		words := strings.FieldsFunc(m[1], func(r rune) bool { return r == ' ' })
		kept := words[:0]
		for _, w := range words {
			if _, stop := colorStopWords[strings.ToLower(w)]; stop {
				break
			}
			kept = append(kept, w)
		}
		color = strings.Join(kept, " ")
	}
	return size, color
}

// surrounding returns text[start-radius : end+radius] aligned to rune
// boundaries, and the offset of start inside the returned snippet.
func surrounding(text string, start, end, radius int) (string, int) {
	from := max(0, start-radius)
	for from < start && !utf8.RuneStart(text[from]) {
		from++
	}
	to := min(len(text), end+radius)
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}
	return text[from:to], start - from
}
