package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WardrobeScanner/internal/lexicon"
)

const shortsOrder = `<html><body>
<p>Thanks for your order!</p>
<table>
<tr><td><img src="https://cdn.shop.com/products/shorts-123.jpg" width="200" height="300" alt="Men&#39;s Running Shorts"></td>
<td>Men's Running Shorts<br>Size: M<br>Color: Black<br>$45.00</td></tr>
</table>
</body></html>`

func TestExtractAltNamedProduct(t *testing.T) {
	t.Parallel()

	got := New(nil, nil, nil).Extract(shortsOrder)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "Men's Running Shorts", c.Name)
	assert.Equal(t, "https://cdn.shop.com/products/shorts-123.jpg", c.ImageURL)
	assert.Equal(t, "$45.00", c.Price)
	assert.Equal(t, "M", c.Size)
	assert.Equal(t, "Black", c.Color)
	assert.Equal(t, lexicon.CategoryBottoms, c.Category)
	assert.Equal(t, []string{TagGeneric}, c.Tags)
	// price + clothing + "size:" cue
	assert.Equal(t, PriceWeight+ClothingWeight+QuantityWeight, c.Score)
}

func TestExtractFallsBackToLinkText(t *testing.T) {
	t.Parallel()

	body := `<table><tr>
<td><a href="https://shop.com/p/1"><img src="https://cdn.shop.com/p/1.jpg"></a></td>
<td><a href="https://shop.com/help">Contact us</a> <a href="https://shop.com/p/1">Slim Fit Chinos</a><br>Qty: 1 $59.00</td>
</tr></table>`

	got := New(nil, nil, nil).Extract(body)
	require.Len(t, got, 1)
	assert.Equal(t, "Slim Fit Chinos", got[0].Name)
	assert.Equal(t, "$59.00", got[0].Price)
	assert.Equal(t, PriceWeight+ClothingWeight+QuantityWeight, got[0].Score)
}

func TestExtractRejections(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty body":       "",
		"whitespace body":  "  \n\t ",
		"brand logo":       `<img src="https://static.zara.net/p/1.jpg" alt="Zara" width="200" height="200">`,
		"blacklisted name": `<img src="https://cdn.shop.com/p/9.jpg" alt="Pillowcase Set"> $20.00 Qty 1`,
		"no signal":        `<img src="https://cdn.shop.com/p/8.jpg" alt="Style 4471-22">`,
		"no name":          `<img src="https://cdn.shop.com/p/7.jpg" alt="image"> $10.00`,
		"structural image": `<img src="https://cdn.shop.com/email/header.png" alt="Wool Coat"> $99.00`,
		"tracking pixel":   `<img src="https://t.shop.com/o.gif" width="1" height="1" alt="Cotton Tee">`,
	}

	e := New(nil, nil, nil)
	for name, body := range cases {
		assert.Empty(t, e.Extract(body), name)
	}
}

func TestExtractDropsBlacklistedNamesUnderTunedWeights(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	w.Blacklist = 5
	e := New(nil, nil, NewScorer(nil, w))

	body := `<img src="https://cdn.shop.com/p/3.jpg" alt="Gift Card Hoodie"> $25.00 Qty: 1
<img src="https://cdn.shop.com/p/4.jpg" alt="Zip Hoodie"> $25.00 Qty: 1`

	got := e.Extract(body)
	require.Len(t, got, 1)
	assert.Equal(t, "Zip Hoodie", got[0].Name)
}

func TestExtractFirstSeenWinsWithinDocument(t *testing.T) {
	t.Parallel()

	body := `<img src="https://cdn.shop.com/p/1.jpg" alt="Denim Jacket"> $80.00
<img src="https://cdn.shop.com/p/1.jpg" alt="Nike Denim Jacket"> $80.00
<img src="https://cdn.shop.com/p/2.jpg" alt="Linen Shirt"> $30.00`

	got := New(nil, nil, nil).Extract(body)
	require.Len(t, got, 2)
	assert.Equal(t, "Denim Jacket", got[0].Name)
	assert.Equal(t, "Linen Shirt", got[1].Name)
}

func TestExtractInfersBrandFromName(t *testing.T) {
	t.Parallel()

	body := `<img src="https://cdn.shop.com/p/3.jpg" alt="Levi's 501 Original Jeans"> $98.00`
	got := New(nil, nil, nil).Extract(body)
	require.Len(t, got, 1)
	assert.Equal(t, "Levi's", got[0].Brand)
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()

	e := New(nil, nil, nil)
	first := e.Extract(shortsOrder)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Extract(shortsOrder))
	}
}

func TestFindImages(t *testing.T) {
	t.Parallel()

	markup := `<p>x</p><IMG SRC='a.jpg' ALT="Tee" WIDTH=120 height="90px">
<img data-src="lazy.jpg" src="https://x.com/i.jpg?a=1&amp;b=2">
<img alt="broken"`

	tags := FindImages(markup)
	require.Len(t, tags, 2)

	assert.Equal(t, "a.jpg", tags[0].Src)
	assert.Equal(t, "Tee", tags[0].Alt)
	assert.Equal(t, 120, tags[0].Width)
	assert.Equal(t, 90, tags[0].Height)
	assert.Equal(t, 8, tags[0].Start)

	assert.Equal(t, "https://x.com/i.jpg?a=1&b=2", tags[1].Src)
	assert.Equal(t, lexicon.UnknownSize, tags[1].Width)
	assert.Equal(t, lexicon.UnknownSize, tags[1].Height)
}

func TestParseDimension(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"200":   200,
		"200px": 200,
		" 150 ": 150,
		"120.5": 120,
		"0":     0,
		"100%":  lexicon.UnknownSize,
		"auto":  lexicon.UnknownSize,
		"":      lexicon.UnknownSize,
		"-3":    lexicon.UnknownSize,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseDimension(in), in)
	}
}
