package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/transitbot/core/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
database:
  host: localhost
  port: "5432"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Core.Telegram.RunMode)
	assert.Equal(t, 2000, cfg.Payment.ProcessingMS)
	assert.Equal(t, 1500, cfg.Payment.GenerationMS)
	assert.Equal(t, 3000, cfg.Menu.ReturnDelayMS)
	assert.Equal(t, ":8081", cfg.Health.Listen)
	assert.Same(t, &cfg.Core, cfg.CoreConfig())
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
payment:
  processing_ms: 10
  generation_ms: 20
menu:
  return_delay_ms: 500
health:
  listen: ":9999"
routes:
  doc_path: assets/routes.pdf
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Payment.ProcessingMS)
	assert.Equal(t, 20, cfg.Payment.GenerationMS)
	assert.Equal(t, 500, cfg.Menu.ReturnDelayMS)
	assert.Equal(t, ":9999", cfg.Health.Listen)
	assert.Equal(t, "assets/routes.pdf", cfg.Routes.DocPath)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	if os.Getenv("BOT_TOKEN") != "" {
		t.Skip("BOT_TOKEN set in environment")
	}
	path := writeConfig(t, `
telegram:
  run_mode: longpoll
`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
