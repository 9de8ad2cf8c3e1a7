package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fnhost/pkg/config"
)

type sampleConfig struct {
	Name    string        `env:"SAMPLE_NAME" envDefault:"fallback"`
	Port    int           `env:"SAMPLE_PORT"`
	Verbose bool          `env:"SAMPLE_VERBOSE"`
	Wait    time.Duration `env:"SAMPLE_WAIT" envDefault:"5s"`
	Tags    []string      `env:"SAMPLE_TAGS" envSeparator:","`
}

type requiredConfig struct {
	Token string `env:"SAMPLE_TOKEN,required"`
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse[sampleConfig](map[string]string{
		"SAMPLE_PORT":    "9090",
		"SAMPLE_VERBOSE": "true",
		"SAMPLE_TAGS":    "a,b,c",
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 5*time.Second, cfg.Wait)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)
}

func TestParseIgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-process")

	cfg, err := config.Parse[sampleConfig](nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.Name)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := config.Parse[sampleConfig](map[string]string{"SAMPLE_PORT": "eighty"})
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	_, err = config.Parse[requiredConfig](map[string]string{})
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.ErrorIs(t, config.Into(nil, nil), config.ErrNilPointer)

	cfg, err := config.Parse[requiredConfig](map[string]string{"SAMPLE_TOKEN": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Token)
}

func TestEnviron(t *testing.T) {
	base := writeEnvFile(t, "SAMPLE_NAME=base\nSAMPLE_PORT=1000\nSAMPLE_TAGS=\"x,y\"\n")
	override := writeEnvFile(t, "SAMPLE_PORT=2000\n")
	t.Setenv("SAMPLE_VERBOSE", "true")
	t.Setenv("SAMPLE_NAME", "process")

	environ, err := config.Environ(base, override)
	require.NoError(t, err)
	assert.Equal(t, "process", environ["SAMPLE_NAME"], "process environment wins over files")
	assert.Equal(t, "2000", environ["SAMPLE_PORT"], "later files win over earlier ones")

	cfg, err := config.Parse[sampleConfig](environ)
	require.NoError(t, err)
	assert.Equal(t, "process", cfg.Name)
	assert.Equal(t, 2000, cfg.Port)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"x", "y"}, cfg.Tags)
}

func TestEnvironMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Environ(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, config.ErrReadEnvFile)
}

func TestProcessEnviron(t *testing.T) {
	t.Setenv("SAMPLE_PROCESS_VAR", "a=b")
	assert.Equal(t, "a=b", config.ProcessEnviron()["SAMPLE_PROCESS_VAR"])
}
