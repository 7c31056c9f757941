package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/imgsaveas/internal/config"
	"github.com/nao1215/imgsaveas/internal/pipeline"
)

// testEnv is an isolated data and download directory with a config file
// pointing at them.
type testEnv struct {
	configPath  string
	dataDir     string
	downloadDir string
}

func newTestEnv(t *testing.T, extra string) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		configPath:  filepath.Join(root, ".imgsaveas"),
		dataDir:     filepath.Join(root, "data"),
		downloadDir: filepath.Join(root, "downloads"),
	}
	content := fmt.Sprintf("dataDir: %s\ndownloadDir: %s\n%s", env.dataDir, env.downloadDir, extra)
	if err := os.WriteFile(env.configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

// run executes the root command with args and the env's config file.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--config", e.configPath))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// pngServer serves a 4x3 PNG on every path except /missing.png.
func pngServer(t *testing.T) *httptest.Server {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 80), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)
	return server
}

// TestInstallCmd tests that install seeds defaults and prints the menu.
func TestInstallCmd(t *testing.T) {
	env := newTestEnv(t, "")

	stdout, _, err := env.run(t, "", "install")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Quality:   0.92",
		"Extension: (format default)",
		"Save image as (custom ext)  [custom-save-image-root]",
		"  JPEG  [custom-save-image-format-jpeg]",
		"  PNG  [custom-save-image-format-png]",
		"  WebP  [custom-save-image-format-webp]",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(filepath.Join(env.dataDir, "imgsaveas.db")); err != nil {
		t.Errorf("expected database in data dir: %v", err)
	}
}

// TestMenuCmd tests that the menu is rebuilt on every run.
func TestMenuCmd(t *testing.T) {
	env := newTestEnv(t, "")

	for range 2 {
		stdout, _, err := env.run(t, "", "menu")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(stdout, "[custom-save-image-") != 4 {
			t.Errorf("expected 4 menu nodes:\n%s", stdout)
		}
	}
}

// TestPrefsCmd tests show, set and reset.
func TestPrefsCmd(t *testing.T) {
	env := newTestEnv(t, "language: it\n")

	stdout, _, err := env.run(t, "", "prefs", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "quality:   0.92") || !strings.Contains(stdout, "extension: (format default)") {
		t.Errorf("unexpected defaults:\n%s", stdout)
	}

	stdout, _, err = env.run(t, "", "prefs", "set", "--quality", "7", "--ext", ".JFIF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Salvato!", "quality:   1", "extension: jfif"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q:\n%s", want, stdout)
		}
	}

	// Only the given field changes.
	if _, _, err := env.run(t, "", "prefs", "set", "-q", "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stdout, _, err = env.run(t, "", "prefs", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "quality:   0.92") || !strings.Contains(stdout, "extension: jfif") {
		t.Errorf("unexpected preferences after partial set:\n%s", stdout)
	}

	if _, _, err := env.run(t, "", "prefs", "reset"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stdout, _, err = env.run(t, "", "prefs", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "extension: (format default)") {
		t.Errorf("expected reset extension:\n%s", stdout)
	}

	if _, _, err := env.run(t, "", "prefs", "set"); err == nil {
		t.Error("expected error when no field is given")
	}
}

// TestSaveCmd tests saving images end to end.
func TestSaveCmd(t *testing.T) {
	server := pngServer(t)

	t.Run("saves with custom extension", func(t *testing.T) {
		env := newTestEnv(t, "")
		if _, _, err := env.run(t, "", "prefs", "set", "--ext", "jfif"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stdout, _, err := env.run(t, "", "save", "-f", "jpeg", "-y", server.URL+"/photos/cat.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "1 of 1 image(s) saved") {
			t.Errorf("unexpected output:\n%s", stdout)
		}

		data, err := os.ReadFile(filepath.Join(env.downloadDir, "cat.jfif"))
		if err != nil {
			t.Fatalf("expected cat.jfif: %v", err)
		}
		if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err != nil || format != "jpeg" {
			t.Errorf("expected jpeg content, got %q (%v)", format, err)
		}
	})

	t.Run("never overwrites", func(t *testing.T) {
		env := newTestEnv(t, "")
		url := server.URL + "/dog.png"
		if _, _, err := env.run(t, "", "save", "-f", "png", "-y", url, url); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, name := range []string{"dog.png", "dog (1).png"} {
			if _, err := os.Stat(filepath.Join(env.downloadDir, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
		}
	})

	t.Run("prompt can rename and skip", func(t *testing.T) {
		env := newTestEnv(t, "")

		stdout, _, err := env.run(t, "renamed.webp\n-\n", "save", "-f", "webp",
			server.URL+"/a.png", server.URL+"/b.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Save as [") {
			t.Errorf("expected prompt:\n%s", stdout)
		}
		if _, err := os.Stat(filepath.Join(env.downloadDir, "renamed.webp")); err != nil {
			t.Errorf("expected renamed.webp: %v", err)
		}
		if _, err := os.Stat(filepath.Join(env.downloadDir, "b.webp")); !os.IsNotExist(err) {
			t.Errorf("expected b.webp to be skipped, got %v", err)
		}
	})

	t.Run("failed fetch is reported", func(t *testing.T) {
		env := newTestEnv(t, "")

		stdout, _, err := env.run(t, "", "save", "-f", "png", "-y", server.URL+"/missing.png")
		if !errors.Is(err, errSaveFailed) {
			t.Fatalf("expected errSaveFailed, got %v", err)
		}
		if !strings.Contains(stdout, "fetch failed: 404") {
			t.Errorf("expected fetch error in report:\n%s", stdout)
		}
		entries, _ := os.ReadDir(env.downloadDir)
		if len(entries) != 0 {
			t.Errorf("expected no downloads, got %d", len(entries))
		}
	})

	t.Run("empty url is ignored by the menu", func(t *testing.T) {
		env := newTestEnv(t, "")

		stdout, _, err := env.run(t, "", "save", "-f", "png", "-y", "", server.URL+"/kept.png")
		if !errors.Is(err, errSaveFailed) {
			t.Fatalf("expected errSaveFailed, got %v", err)
		}
		if !strings.Contains(stdout, errClickIgnored.Error()) {
			t.Errorf("expected ignored click in report:\n%s", stdout)
		}
		if !strings.Contains(stdout, "1 of 2 image(s) saved") {
			t.Errorf("expected the other image to be saved:\n%s", stdout)
		}
		entries, _ := os.ReadDir(env.downloadDir)
		if len(entries) != 1 || entries[0].Name() != "kept.png" {
			t.Errorf("expected only kept.png, got %v", entries)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		env := newTestEnv(t, "")

		_, _, err := env.run(t, "", "save", "-f", "gif", "-y", server.URL+"/a.png")
		if !errors.Is(err, pipeline.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("json report", func(t *testing.T) {
		env := newTestEnv(t, "")
		reportPath := filepath.Join(t.TempDir(), "out", "result.json")

		if _, _, err := env.run(t, "", "save", "-f", "webp", "-y", "--json", "-o", reportPath, server.URL+"/x.png"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(reportPath) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		var doc struct {
			Saved int `json:"saved"`
		}
		if err := json.Unmarshal(data, &doc); err != nil || doc.Saved != 1 {
			t.Errorf("unexpected report %s (%v)", data, err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		env := newTestEnv(t, "")

		_, _, err := env.run(t, "", "save", "-f", "png", "-y", "--json", "--markdown", server.URL+"/x.png")
		if !errors.Is(err, errConflictingFormats) {
			t.Errorf("expected errConflictingFormats, got %v", err)
		}
	})
}

// TestHistoryCmd tests that saved images show up in the history.
func TestHistoryCmd(t *testing.T) {
	server := pngServer(t)
	env := newTestEnv(t, "")

	stdout, _, err := env.run(t, "", "history")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No downloads yet.") {
		t.Errorf("expected empty history:\n%s", stdout)
	}

	if _, _, err := env.run(t, "", "save", "-f", "png", "-y", server.URL+"/one.png", server.URL+"/two.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stdout, _, err = env.run(t, "", "history", "--json", "-n", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc struct {
		Records []struct {
			SourceURL string `json:"source_url"`
			MIMEType  string `json:"mime_type"`
		} `json:"records"`
	}
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(doc.Records) != 1 || doc.Records[0].MIMEType != "image/png" {
		t.Errorf("unexpected records: %+v", doc.Records)
	}

	stdout, _, err = env.run(t, "", "history", "--markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "# Download History") || !strings.Contains(stdout, "`one.png`") {
		t.Errorf("unexpected markdown:\n%s", stdout)
	}
}

// TestLoadConfig tests config file resolution through the global flag.
func TestLoadConfig(t *testing.T) {
	t.Run("explicit missing file", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"menu", "--config", filepath.Join(t.TempDir(), "nope.yaml")})

		if err := cmd.Execute(); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		env := newTestEnv(t, "proxy: nowhere\n")

		_, _, err := env.run(t, "", "menu")
		if !errors.Is(err, config.ErrInvalidProxyAddress) {
			t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
		}
	})
}
