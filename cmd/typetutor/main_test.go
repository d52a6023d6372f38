package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/verte-zerg/typetutor/internal/config"
	"github.com/verte-zerg/typetutor/internal/content"
	"github.com/verte-zerg/typetutor/internal/heatmap"
	"github.com/verte-zerg/typetutor/internal/model"
)

func validConfig() model.Config {
	return model.Config{
		Mode:       defaultMode,
		Length:     content.DefaultRandomLength,
		Chars:      defaultCharsetName,
		Lang:       defaultLang,
		Words:      defaultWords,
		CapsPct:    defaultCaps,
		PunctPct:   defaultPunct,
		PunctSet:   defaultPunctSet,
		WeakTop:    defaultWeakTop,
		WeakFactor: defaultWeakFactor,
		WeakWindow: defaultWeakWindow,
		Scheme:     defaultScheme,
		MinPresses: defaultMinPresses,
		QuotesDir:  "/quotes",
	}
}

func TestDefaultConfigTemplateUncommentedDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template keys should decode: %v", err)
	}
	if cfg.Practice.Mode == nil || *cfg.Practice.Mode != defaultMode {
		t.Fatalf("unexpected mode: %v", cfg.Practice.Mode)
	}
	if cfg.Practice.PunctSet == nil || *cfg.Practice.PunctSet != defaultPunctSet {
		t.Fatalf("unexpected punct-set: %v", cfg.Practice.PunctSet)
	}
	if cfg.Heatmap.MinPresses == nil || *cfg.Heatmap.MinPresses != defaultMinPresses {
		t.Fatalf("unexpected min-presses: %v", cfg.Heatmap.MinPresses)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != defaultLogLevel {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := map[string]func(*model.Config){
		"mode":    func(c *model.Config) { c.Mode = "poetry" },
		"scheme":  func(c *model.Config) { c.Scheme = "rainbow" },
		"length":  func(c *model.Config) { c.Length = 0 },
		"words":   func(c *model.Config) { c.Words = 0 },
		"caps":    func(c *model.Config) { c.CapsPct = 1.5 },
		"punct":   func(c *model.Config) { c.PunctPct = -0.1 },
		"set":     func(c *model.Config) { c.PunctSet = "" },
		"weak":    func(c *model.Config) { c.WeakTop = -1 },
		"presses": func(c *model.Config) { c.MinPresses = -1 },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestBuildRequestWordsFallsBackToBundledList(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	req, err := buildRequest(afero.NewMemMapFs(), validConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if req.Mode != content.ModeWords || len(req.Words) == 0 {
		t.Fatalf("expected bundled words, got %+v", req)
	}
	if req.WordOptions.Count != defaultWords || string(req.WordOptions.PunctSet) != defaultPunctSet {
		t.Fatalf("unexpected word options: %+v", req.WordOptions)
	}

	cfg := validConfig()
	cfg.Lang = "xx"
	if _, err := buildRequest(afero.NewMemMapFs(), cfg); err == nil || !strings.Contains(err.Error(), "typetutor wordlist") {
		t.Fatalf("expected word list hint, got %v", err)
	}
}

func TestBuildRequestPrefersLocalWordList(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, config.DefaultWordListPath("en"), []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	req, err := buildRequest(fs, validConfig())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(req.Words) != 2 {
		t.Fatalf("expected local list, got %v", req.Words)
	}
}

func TestBuildRequestResolvesQuoteSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/quotes/en/classics/stoics.txt"
	if err := afero.WriteFile(fs, path, []byte("Waste no more time arguing.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := validConfig()
	cfg.Mode = "quote"
	cfg.Source = "stoic"
	req, err := buildRequest(fs, cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if req.Source != path {
		t.Fatalf("expected library match, got %q", req.Source)
	}

	cfg.Source = path
	if req, err = buildRequest(fs, cfg); err != nil || req.Source != path {
		t.Fatalf("expected direct path, got %q, %v", req.Source, err)
	}

	cfg.Source = "zzzz"
	if _, err := buildRequest(fs, cfg); err == nil {
		t.Fatalf("expected no match error")
	}

	cfg.Source = ""
	if _, err := buildRequest(fs, cfg); !errors.Is(err, content.ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestBuildRequestRejectsBlankCharset(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "random"
	cfg.Chars = "   "
	if _, err := buildRequest(afero.NewMemMapFs(), cfg); err == nil {
		t.Fatalf("expected error for blank charset")
	}
}

func TestWriteKeys(t *testing.T) {
	hm := heatmap.Heatmap{}
	for code, errs := range map[string]int{"KeyA": 1, "KeyS": 5} {
		st := heatmap.NewKeyStat(code)
		st.TotalPresses = 10
		st.ErrorCount = errs
		hm[code] = st
	}
	var buf bytes.Buffer
	if err := writeKeys(&buf, hm, heatmap.SchemeErrors, 1, 10, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Presses: 20  Errors: 6", "Weakest: S 50%", "Strongest: A 10%",
		"By hand: left 30% (20)\n", "By finger: ring 50% (10), pinky 10% (10)\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := writeKeys(&buf, heatmap.Heatmap{}, heatmap.SchemeErrors, 1, 10, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "No key stats found.\n" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	if _, err := parseLogLevel("debug"); err != nil {
		t.Fatalf("expected debug to parse: %v", err)
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}
