package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hpackcodec/internal/header"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
codec:
  max_dynamic_table_size: 256
  max_headers_length: 2048
  value_encoding: utf8
server:
  port: 9090
logger:
  level: DEBUG
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(256), cfg.TableSize())
	assert.Equal(t, uint32(2048), cfg.Codec.MaxHeadersLength)
	assert.Equal(t, header.EncodingUTF8, cfg.Encoding())
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4096), cfg.TableSize())
	assert.Equal(t, header.EncodingLatin1, cfg.Encoding())
}

func TestZeroTableSizeDisablesIndexing(t *testing.T) {
	path := writeConfig(t, "codec:\n  max_dynamic_table_size: 0\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.TableSize())
}

func TestValidateRejectsBadValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "server:\n  port: no\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "codec:\n  value_encoding: ebcdic\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "server:\n  port: 123456\n"))
	assert.Error(t, err)
}
