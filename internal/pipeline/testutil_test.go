package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docchunk/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeFiles creates files under root, keyed by slash-separated relative path.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig(docsDir, output string) config.Config {
	return config.Config{
		DocsDir:         docsDir,
		Output:          output,
		Extensions:      []string{".md"},
		MinTokens:       400,
		MaxTokens:       600,
		MinContentChars: 10,
		Server:          config.ServerConfig{JobTTL: time.Hour},
	}
}

// prose returns n space-separated filler words ending in a period.
func prose(n int) string {
	return strings.TrimSpace(strings.Repeat("text ", n)) + "."
}

// words returns n space-separated filler words.
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}
