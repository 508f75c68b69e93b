package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfig_FileAndEnvOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
search:
  target_count: 25
  page_delay: 2s
concurrency:
  workers: 4
`), 0644))

	t.Setenv("SEC_API_KEY", "from-env")
	cfgFile = path
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	initConfig()
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Search.TargetCount)
	assert.Equal(t, 2*time.Second, cfg.Search.PageDelay)
	assert.Equal(t, 4, cfg.Concurrency.Workers)
	assert.Equal(t, "from-env", cfg.Search.APIKey)

	// untouched keys keep their defaults
	assert.Equal(t, 200, cfg.Search.PageSize)
	assert.Equal(t, 11, cfg.Index.HeaderLines)
}

func TestNewLogger(t *testing.T) {
	for _, v := range []bool{true, false} {
		logger, err := newLogger(v)
		require.NoError(t, err)
		assert.Equal(t, v, logger.Core().Enabled(zapcore.DebugLevel))
	}
}
