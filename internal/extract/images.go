package extract

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"WardrobeScanner/internal/lexicon"
)

// ImageTag is an <img> element found by pattern matching, with its byte span.
type ImageTag struct {
	Src    string
	Alt    string
	Width  int
	Height int
	Start  int
	End    int
}

// Image converts the tag into the classifier's view of an image.
func (t ImageTag) Image() lexicon.Image {
	return lexicon.Image{URL: t.Src, Alt: t.Alt, Width: t.Width, Height: t.Height}
}

var (
	imgTagPattern = regexp.MustCompile(`(?is)<img\b[^>]*>`)
	srcAttr       = attrPattern("src")
	altAttr       = attrPattern("alt")
	widthAttr     = attrPattern("width")
	heightAttr    = attrPattern("height")
)

func attrPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)\s` + name + `\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
}

// FindImages lists every <img> element in document order. Malformed markup is
// tolerated: attributes that cannot be read are left empty or UnknownSize.
func FindImages(markup string) []ImageTag {
	spans := imgTagPattern.FindAllStringIndex(markup, -1)
	tags := make([]ImageTag, 0, len(spans))
	for _, span := range spans {
		tag := markup[span[0]:span[1]]
		src, _ := attrValue(srcAttr, tag)
		alt, _ := attrValue(altAttr, tag)
		width, _ := attrValue(widthAttr, tag)
		height, _ := attrValue(heightAttr, tag)

		tags = append(tags, ImageTag{
			Src:    html.UnescapeString(strings.TrimSpace(src)),
			Alt:    alt,
			Width:  ParseDimension(width),
			Height: ParseDimension(height),
			Start:  span[0],
			End:    span[1],
		})
	}
	return tags
}

func attrValue(pattern *regexp.Regexp, tag string) (string, bool) {
	m := pattern.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	return m[1] + m[2] + m[3], true
}

// ParseDimension reads an HTML width/height value such as "200" or "200px".
// Anything else, including percentages, yields lexicon.UnknownSize.
func ParseDimension(value string) int {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.TrimSuffix(value, "px")
	if value == "" {
		return lexicon.UnknownSize
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 0 {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
		return int(f)
	}
	return lexicon.UnknownSize
}
