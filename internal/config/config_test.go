package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, databaseDSNEnv, gmailTokenEnv, telegramTokenEnv, telegramChatIDEnv, logLevelEnv} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceEML, cfg.Source.Kind)
	assert.Equal(t, LexiconExtend, cfg.Lexicon.Mode)
	assert.Equal(t, 90, cfg.Import.LookbackDays)
	assert.Equal(t, time.UTC, cfg.Scheduler.Location())
	assert.False(t, cfg.Notifications.Telegram.Enabled())

	names := make([]string, 0, len(cfg.Retailers))
	for _, r := range cfg.Retailers {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"amazon", "nike", "zara", "hm", "uniqlo"}, names)
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
logging:
  level: debug
source:
  kind: gmail
import:
  lookbackDays: 30
  pacing: 250ms
scheduler:
  timezone: Europe/Berlin
scoring:
  price: 15
retailers:
  - name: asos
    senders: [asos.com]
    strategy: delegate
    brand: ASOS
`)
	t.Setenv(configPathEnv, path)
	t.Setenv(telegramTokenEnv, "token")
	t.Setenv(telegramChatIDEnv, "42")
	t.Setenv(databaseDSNEnv, "postgres://localhost/wardrobe")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, SourceGmail, cfg.Source.Kind)
	assert.Equal(t, "./mail", cfg.Source.Directory)
	assert.Equal(t, 30, cfg.Import.LookbackDays)
	assert.Equal(t, 365, cfg.Import.MaxLookbackDays)
	assert.Equal(t, 250*time.Millisecond, cfg.Import.Pacing)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Location().String())
	assert.Equal(t, 15, cfg.Scoring.Price)
	assert.Zero(t, cfg.Scoring.Clothing)
	assert.True(t, cfg.Notifications.Telegram.Enabled())
	assert.Equal(t, "postgres://localhost/wardrobe", cfg.Database.DSN)
	require.Len(t, cfg.Retailers, 1)
	assert.Equal(t, "ASOS", cfg.Retailers[0].Brand)
}

func TestLoadExplicitPathWinsOverEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	path := writeConfig(t, "logging:\n  level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"malformed yaml":     "source: [unclosed",
		"unknown source":     "source:\n  kind: imap\n",
		"unknown lexicon":    "lexicon:\n  mode: append\n",
		"bad timezone":       "scheduler:\n  timezone: Mars/Olympus\n",
		"negative lookback":  "import:\n  lookbackDays: -1\n",
		"duplicate retailer": "retailers:\n  - name: nike\n  - name: Nike\n",
		"unnamed retailer":   "retailers:\n  - brand: Nike\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
