package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"Gallerist/internal/config"
)

// withTempConfig направляет токен и базу во временный каталог теста.
func withTempConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ServerURL:   serverURL,
		TokenFile:   filepath.Join(dir, "auth_token"),
		DatabaseDSN: "file:" + filepath.Join(dir, "gallerist.db"),
		AuthSecret:  "test-secret",
		MediaFolder: "subline-gallery",
		MediaMaxMB:  1,
	}
}

// captureOut подменяет Out на буфер до конца теста.
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })
	return &buf
}
