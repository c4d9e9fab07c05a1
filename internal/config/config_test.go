package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, domain.PolicyReject, cfg.RecordPolicy)
	assert.Equal(t, "compact", cfg.Layout)
	assert.Empty(t, cfg.LayoutFile)
	assert.Equal(t, []string{"compact", "wide"}, cfg.Layouts.Names())
	assert.Equal(t, 16, cfg.RenderCacheSize)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "temperature-records", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SOURCE_URL", "http://localhost:9000/global-temperature.json")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("INVALID_RECORD_POLICY", "skip")
	t.Setenv("LAYOUT", "wide")
	t.Setenv("RENDER_CACHE_SIZE", "0")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/global-temperature.json", cfg.SourceURL)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, domain.PolicySkip, cfg.RecordPolicy)
	assert.Equal(t, "wide", cfg.Layout)
	assert.Equal(t, 0, cfg.RenderCacheSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad fetch timeout", map[string]string{"FETCH_TIMEOUT": "soon"}},
		{"negative fetch timeout", map[string]string{"FETCH_TIMEOUT": "-1s"}},
		{"bad shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "later"}},
		{"bad record policy", map[string]string{"INVALID_RECORD_POLICY": "ignore"}},
		{"unknown layout", map[string]string{"LAYOUT": "poster"}},
		{"missing layout file", map[string]string{"LAYOUT_FILE": "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("RENDER_CACHE_SIZE", "lots")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.RenderCacheSize)
}

func TestLoad_LayoutFile(t *testing.T) {
	path := writeLayoutFile(t, `
layouts:
  - name: poster
    width: 1200
    height: 800
    padding: 100
  - name: compact
    width: 640
    height: 520
    padding: 80
`)
	t.Setenv("LAYOUT_FILE", path)
	t.Setenv("LAYOUT", "poster")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"compact", "poster", "wide"}, cfg.Layouts.Names())
	compact, ok := cfg.Layouts.Get("compact")
	require.True(t, ok)
	assert.Equal(t, 640.0, compact.Width, "file overrides built-in preset")
}

func TestParseLayouts_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{"malformed", "layouts: [", "parse layout file"},
		{"missing name", "layouts:\n  - width: 100\n    height: 100\n    padding: 10\n", "Name"},
		{"zero width", "layouts:\n  - name: a\n    height: 100\n    padding: 10\n", "Width"},
		{"negative padding", "layouts:\n  - name: a\n    width: 100\n    height: 100\n    padding: -1\n", "Padding"},
		{"no plot area", "layouts:\n  - name: a\n    width: 100\n    height: 100\n    padding: 50\n", "no plot area"},
		{"duplicate", "layouts:\n  - {name: a, width: 100, height: 100, padding: 10}\n  - {name: a, width: 200, height: 100, padding: 10}\n", "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayouts([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateLayout_Builtins(t *testing.T) {
	for _, layout := range BuiltinLayouts {
		assert.NoError(t, ValidateLayout(layout), layout.Name)
	}
}

func TestLayouts_Replace(t *testing.T) {
	reg := NewLayouts()
	_, ok := reg.Get("poster")
	assert.False(t, ok)

	reg.Replace([]scale.Layout{{Name: "poster", Width: 1200, Height: 800, Padding: 100}})
	poster, ok := reg.Get("poster")
	require.True(t, ok)
	assert.Equal(t, 1200.0, poster.Width)

	reg.Replace(nil)
	_, ok = reg.Get("poster")
	assert.False(t, ok, "replace drops presets missing from the new file")
	_, ok = reg.Get("compact")
	assert.True(t, ok, "built-ins survive")
}

func TestWatchLayouts_Reload(t *testing.T) {
	path := writeLayoutFile(t, "layouts: []\n")
	reg := NewLayouts()
	changed, stop := startWatch(t, path, reg)
	defer stop()

	content := []byte("layouts:\n  - {name: poster, width: 1200, height: 800, padding: 100}\n")
	waitForLayout(t, reg, changed, "poster", func() {
		require.NoError(t, os.WriteFile(path, content, 0o600))
	})
}

func TestWatchLayouts_AtomicSave(t *testing.T) {
	path := writeLayoutFile(t, "layouts: []\n")
	reg := NewLayouts()
	changed, stop := startWatch(t, path, reg)
	defer stop()

	// Editors write a temp file and rename it over the original.
	atomicSave := func(content string) func() {
		return func() {
			tmp := filepath.Join(filepath.Dir(path), ".layouts.yaml.tmp")
			require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
			require.NoError(t, os.Rename(tmp, path))
		}
	}

	waitForLayout(t, reg, changed, "poster",
		atomicSave("layouts:\n  - {name: poster, width: 1200, height: 800, padding: 100}\n"))
	waitForLayout(t, reg, changed, "banner",
		atomicSave("layouts:\n  - {name: banner, width: 1600, height: 400, padding: 50}\n"))

	// In-place writes still reach the watcher after the inode was replaced.
	waitForLayout(t, reg, changed, "square", func() {
		require.NoError(t, os.WriteFile(path, []byte("layouts:\n  - {name: square, width: 800, height: 800, padding: 80}\n"), 0o600))
	})
	_, ok := reg.Get("banner")
	assert.False(t, ok)
}

func TestWatchLayouts_IgnoresSiblingFiles(t *testing.T) {
	path := writeLayoutFile(t, "layouts: []\n")
	reg := NewLayouts()
	changed, stop := startWatch(t, path, reg)
	defer stop()

	waitForLayout(t, reg, changed, "poster", func() {
		require.NoError(t, os.WriteFile(path, []byte("layouts:\n  - {name: poster, width: 1200, height: 800, padding: 100}\n"), 0o600))
	})
	drain(changed)

	sibling := filepath.Join(filepath.Dir(path), "other.yaml")
	require.NoError(t, os.WriteFile(sibling, []byte("layouts:\n  - {name: banner, width: 1600, height: 400, padding: 50}\n"), 0o600))

	select {
	case <-changed:
		t.Fatal("a write to another file triggered a reload")
	case <-time.After(3 * reloadDebounce):
	}
	_, ok := reg.Get("banner")
	assert.False(t, ok)
}

func TestWatchLayouts_InvalidReloadKeepsPresets(t *testing.T) {
	path := writeLayoutFile(t, "layouts: []\n")
	reg := NewLayouts()
	changed, stop := startWatch(t, path, reg)
	defer stop()

	waitForLayout(t, reg, changed, "poster", func() {
		require.NoError(t, os.WriteFile(path, []byte("layouts:\n  - {name: poster, width: 1200, height: 800, padding: 100}\n"), 0o600))
	})
	drain(changed)

	require.NoError(t, os.WriteFile(path, []byte("layouts:\n  - {name: tiny, width: 10, height: 10, padding: 20}\n"), 0o600))
	select {
	case <-changed:
		t.Fatal("an invalid layout file was applied")
	case <-time.After(3 * reloadDebounce):
	}
	_, ok := reg.Get("poster")
	assert.True(t, ok)
}

// startWatch runs WatchLayouts in the background and returns a channel of
// applied reloads plus a func that stops the watcher and checks its result.
func startWatch(t *testing.T, path string, reg *Layouts) (<-chan []scale.Layout, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	changed := make(chan []scale.Layout, 16)
	done := make(chan error, 1)
	go func() {
		done <- WatchLayouts(ctx, path, reg, slog.New(slog.NewTextHandler(io.Discard, nil)), func(l []scale.Layout) {
			select {
			case changed <- l:
			default:
			}
		})
	}()

	return changed, func() {
		cancel()
		require.NoError(t, <-done)
	}
}

// waitForLayout repeats save until the registry holds name. Repeating covers
// the window before the watcher has registered.
func waitForLayout(t *testing.T, reg *Layouts, changed <-chan []scale.Layout, name string, save func()) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		save()
		select {
		case <-changed:
			if _, ok := reg.Get(name); ok {
				return
			}
		case <-time.After(4 * reloadDebounce):
		case <-deadline:
			t.Fatalf("layout %q was never loaded", name)
		}
	}
}

func drain(ch <-chan []scale.Layout) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func writeLayoutFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
