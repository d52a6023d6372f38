package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetutor/internal/config"
	"github.com/verte-zerg/typetutor/internal/content"
	"github.com/verte-zerg/typetutor/internal/heatmap"
	"github.com/verte-zerg/typetutor/internal/model"
)

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetutor configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q           # One of: %s
# source = ""             # Quote/code file, library query, or custom text
# length = %d             # Characters per random drill
# chars = %q             # Random drill set or literal characters
# lang = "en"             # Language code (default %q)
# words = %d              # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# focus-weak = false      # Bias word drills toward weak keys
# weak-top = %d           # Number of weak keys to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Number of recent sessions to compute weak keys
# quotes-dir = ""         # Quote library root

[heatmap]
# scheme = %q         # One of: %s
# min-presses = %d        # Presses before a key is ranked

[log]
# level = %q            # debug, info, warn or error
# file = ""               # Log file (default: XDG state dir)
`,
		defaultMode, modeNames(),
		content.DefaultRandomLength,
		defaultCharsetName,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultScheme, schemeNames(),
		defaultMinPresses,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if _, err := content.ParseMode(cfg.Mode); err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	if _, err := heatmap.ParseScheme(cfg.Scheme); err != nil {
		return fmt.Errorf("--scheme: %w", err)
	}
	if cfg.Length <= 0 {
		return fmt.Errorf("--length must be > 0")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.MinPresses < 0 {
		return fmt.Errorf("--min-presses must be >= 0")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: typetutor langs",
		fmt.Sprintf("Build one: typetutor wordlist --lang %s --from <corpus.txt>", lang),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func modeNames() string {
	names := make([]string, len(content.Modes))
	for i, m := range content.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func schemeNames() string {
	names := make([]string, len(heatmap.Schemes))
	for i, s := range heatmap.Schemes {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// setupLogging points the default slog logger at the log file. The
// terminal belongs to the TUI, so nothing is logged to stderr.
func setupLogging(cmd *cobra.Command, cfg config.LogConfig) (func(), error) {
	applyStringConfig(cmd, "log-level", &logLevel, cfg.Level)
	applyStringConfig(cmd, "log-file", &logFile, cfg.File)
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return nil, err
	}
	path := logFile
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})))
	return func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for the log file.
			_ = cerr
		}
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
