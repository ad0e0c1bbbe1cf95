package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WardrobeScanner/internal/config"
	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/ports"
	"WardrobeScanner/internal/usecase"
)

const nikeMessage = `From: Nike <orders@nike.com>
Subject: Your order #1001
Date: Mon, 02 Mar 2026 10:00:00 +0000
Message-Id: <1001@nike.com>
Content-Type: text/html; charset=utf-8

<html><body>
<p>Order summary</p>
<table>
<tr><td><img src="https://static.nike.com/a/images/shorts.png" width="200" height="300" alt="Men's Running Shorts"></td>
<td>Men's Running Shorts<br>Size: M<br>$45.00</td></tr>
<tr><td><img src="https://static.nike.com/a/images/logo.png" width="120" height="40" alt="Nike"></td></tr>
</table>
<p>Subtotal $45.00</p>
</body></html>
`

const forwardedMessage = `From: me@example.com
Subject: Fwd: Your order
Date: Tue, 03 Mar 2026 10:00:00 +0000
Message-Id: <fwd-1@example.com>
Content-Type: text/html; charset=utf-8

<p>see below</p>
---------- Forwarded message ---------
<p>Your order</p>
<img src="https://cdn.shop.com/p/coat.jpg" width="300" height="400" alt="Wool Coat">
<img src="https://static.nike.com/a/images/shorts.png" width="200" height="300" alt="Shorts">
<p>Total $180.00</p>
`

func testConfig(dir string) config.Config {
	return config.Config{
		Source:  config.SourceConfig{Kind: config.SourceEML, Directory: dir},
		Lexicon: config.LexiconConfig{Mode: config.LexiconExtend},
		Retailers: []config.RetailerConfig{
			{Name: "nike", Senders: []string{"nike"}, Brand: "Nike", Selectors: []string{"img[src*='static.nike.com']"}},
		},
	}
}

func writeMessages(t *testing.T, messages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range messages {
		raw := strings.ReplaceAll(body, "\n", "\r\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(raw), 0o600))
	}
	return dir
}

func TestImportFromDirectory(t *testing.T) {
	t.Parallel()

	dir := writeMessages(t, map[string]string{
		"1.eml": nikeMessage,
		"2.eml": forwardedMessage,
	})

	application, err := New(context.Background(), testConfig(dir), nil)
	require.NoError(t, err)
	defer application.Close()

	var phases []domain.ImportPhase
	observer := func(p domain.Progress) {
		if len(phases) == 0 || phases[len(phases)-1] != p.Phase {
			phases = append(phases, p.Phase)
		}
	}

	result, err := application.Import(context.Background(), usecase.ImportRequest{Observer: ports.ObserverFunc(observer)})
	require.NoError(t, err)

	items := result.Batch.ReviewItems()
	require.Len(t, items, 2)

	// Retailer result (flat 90) outranks the generic copy of the same image.
	assert.Equal(t, domain.ReviewItem{
		Name:     "Men's Running Shorts",
		ImageURL: "https://static.nike.com/a/images/shorts.png",
		Brand:    "Nike",
		Size:     "M",
	}, items[0])
	assert.Equal(t, "Wool Coat", items[1].Name)

	assert.Equal(t, 2, result.Processed)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, domain.PhaseComplete, phases[len(phases)-1])
}

func TestNewRejectsInvalidSelector(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	cfg.Retailers[0].Selectors = []string{"img[src"}

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestLexiconReplaceMode(t *testing.T) {
	t.Parallel()

	data := lexiconData(config.LexiconConfig{
		Mode:     config.LexiconReplace,
		Keywords: map[string][]string{"tops": {"kurta"}},
	})
	assert.Equal(t, []string{"kurta"}, data.Keywords["tops"])
	assert.Empty(t, data.Brands)

	extended := lexiconData(config.LexiconConfig{Mode: config.LexiconExtend, Brands: []string{"Arket"}})
	assert.Contains(t, extended.Brands, "Arket")
	assert.Contains(t, extended.Brands, "Nike")
}

func TestWeightsAndMarkersKeepDefaults(t *testing.T) {
	t.Parallel()

	w := weights(config.ScoringConfig{Price: 15})
	assert.Equal(t, 15, w.Price)
	assert.Equal(t, 50, w.Clothing)

	m := markers(config.MarkersConfig{Start: []string{"artikel"}})
	assert.Equal(t, []string{"artikel"}, m.Start)
	assert.NotEmpty(t, m.End)
}
