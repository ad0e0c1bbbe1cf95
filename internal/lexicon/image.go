package lexicon

import "strings"

// UnknownSize marks a dimension that was absent or unparsable.
const UnknownSize = -1

const (
	minProductSide    = 90
	maxAspectRatio    = 2.5
	minAspectRatio    = 0.33
	maxUnboundedWidth = 600
)

// Image describes an image element as seen in the markup.
type Image struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// IsLikelyProductImage rejects structural images (logos, icons, tracking
// pixels, spacers and banners). Blocklist terms match whole URI segments
// split on punctuation, never partial words. Missing dimensions pass.
func (c *Classifier) IsLikelyProductImage(img Image) bool {
	uri := strings.ToLower(strings.TrimSpace(img.URL))
	if uri == "" {
		return false
	}
	tokens := pathTokens(uri)
	for _, blocked := range c.imageBlock {
		if containsTokens(tokens, blocked) {
			return false
		}
	}
	if strings.TrimSpace(img.Alt) != "" && c.IsBrandName(img.Alt) {
		return false
	}

	w, h := img.Width, img.Height
	if w != UnknownSize && w < minProductSide {
		return false
	}
	if h != UnknownSize && h < minProductSide {
		return false
	}
	if w != UnknownSize && h != UnknownSize {
		ratio := float64(w) / float64(h)
		if ratio > maxAspectRatio || ratio < minAspectRatio {
			return false
		}
	}
	if h == UnknownSize && w != UnknownSize && w > maxUnboundedWidth {
		return false
	}
	return true
}
