// Package main provides the CLI entrypoint for typetutor.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetutor/internal/config"
	"github.com/verte-zerg/typetutor/internal/content"
	"github.com/verte-zerg/typetutor/internal/heatmap"
	"github.com/verte-zerg/typetutor/internal/model"
	"github.com/verte-zerg/typetutor/internal/stats"
	"github.com/verte-zerg/typetutor/internal/store"
	"github.com/verte-zerg/typetutor/internal/tui"
	"github.com/verte-zerg/typetutor/internal/wordlist"
)

const (
	defaultMode        = "words"
	defaultLang        = "en"
	defaultWords       = 25
	defaultCaps        = 0.5
	defaultPunct       = 0.5
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultScheme      = "errors"
	defaultMinPresses  = 10
	defaultTop         = 10
	defaultWordlistSz  = 10000
	defaultLogLevel    = "warn"
	defaultCharsetName = "all"
)

const defaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

var (
	practiceMode       string
	practiceSource     string
	practiceLength     int
	practiceChars      string
	practiceLang       string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceQuotesDir  string
	practiceScheme     string
	practiceMinPresses int

	logLevel string
	logFile  string

	statsLang       string
	statsMode       string
	statsSince      string
	statsLast       int
	statsTop        int
	statsScheme     string
	statsMinPresses int

	keysScheme     string
	keysMinPresses int
	keysTop        int

	sourcesDir string

	wordlistLang  string
	wordlistFrom  string
	wordlistSize  int
	wordlistForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetutor",
		Short:         "TUI typing tutor with keyboard heatmaps",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "content mode: "+modeNames())
	rootCmd.Flags().StringVar(&practiceSource, "source", "", "quote/code file, library query, or custom text")
	rootCmd.Flags().IntVar(&practiceLength, "length", content.DefaultRandomLength, "characters per random drill")
	rootCmd.Flags().StringVar(&practiceChars, "chars", defaultCharsetName, "random drill set ("+strings.Join(content.CharSetNames(), ", ")+") or literal characters")
	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code (default: en)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per text")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias word drills toward weak keys")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak keys to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak keys")
	rootCmd.Flags().StringVar(&practiceQuotesDir, "quotes-dir", "", "quote library root (default: XDG data dir)")
	rootCmd.Flags().StringVar(&practiceScheme, "scheme", defaultScheme, "heatmap scheme: "+schemeNames())
	rootCmd.Flags().IntVar(&practiceMinPresses, "min-presses", defaultMinPresses, "presses before a key counts as weak")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default: XDG state dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newKeysCmd())
	rootCmd.AddCommand(newSourcesCmd())
	rootCmd.AddCommand(newWordlistCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	closeLog, err := setupLogging(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "source", &practiceSource, fileCfg.Practice.Source)
	applyIntConfig(cmd, "length", &practiceLength, fileCfg.Practice.Length)
	applyStringConfig(cmd, "chars", &practiceChars, fileCfg.Practice.Chars)
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyStringConfig(cmd, "quotes-dir", &practiceQuotesDir, fileCfg.Practice.QuotesDir)
	applyStringConfig(cmd, "scheme", &practiceScheme, fileCfg.Heatmap.Scheme)
	applyIntConfig(cmd, "min-presses", &practiceMinPresses, fileCfg.Heatmap.MinPresses)

	cfg := model.Config{
		Mode:       practiceMode,
		Source:     practiceSource,
		Length:     practiceLength,
		Chars:      practiceChars,
		Lang:       practiceLang,
		Words:      practiceWords,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
		QuotesDir:  practiceQuotesDir,
		Scheme:     practiceScheme,
		MinPresses: practiceMinPresses,
	}
	if cfg.QuotesDir == "" {
		cfg.QuotesDir = config.DefaultQuotesDir()
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	fs := afero.NewOsFs()
	req, err := buildRequest(fs, cfg)
	if err != nil {
		return err
	}
	slog.Info("starting practice", "mode", req.Mode, "source", req.Source, "lang", cfg.Lang)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var opts []tui.Option
	if cfg.FocusWeak && req.Mode == content.ModeWords {
		weakSet, err := stats.LoadWeakSet(context.Background(), st, cfg)
		if err != nil {
			logErrf("failed to load weak keys: %v\n", err)
		} else if len(weakSet) == 0 {
			logErrln("no stats available for weak-key focus yet; using normal generator")
		}
		opts = append(opts, tui.WithWeakSet(weakSet))
	}

	loader := content.NewLoader(fs, time.Now().UnixNano())
	m, err := tui.NewModel(cfg, st, loader, req, opts...)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// buildRequest resolves the content request for cfg: word lists are read
// from disk with the bundled list as fallback, and quote sources that are
// not files are looked up in the quote library.
func buildRequest(fs afero.Fs, cfg model.Config) (content.Request, error) {
	mode, err := content.ParseMode(cfg.Mode)
	if err != nil {
		return content.Request{}, err
	}
	req := content.Request{
		Mode:   mode,
		Source: cfg.Source,
		Lang:   cfg.Lang,
		Length: cfg.Length,
		Chars:  cfg.Chars,
		WordOptions: content.WordOptions{
			Count:      cfg.Words,
			CapsPct:    cfg.CapsPct,
			PunctPct:   cfg.PunctPct,
			PunctSet:   []rune(cfg.PunctSet),
			WeakFactor: cfg.WeakFactor,
		},
	}
	if mode.NeedsSource() && cfg.Source == "" {
		return content.Request{}, fmt.Errorf("--source is required for %s mode: %w", mode, content.ErrNoSource)
	}

	switch mode {
	case content.ModeWords:
		words, err := loadWordList(fs, cfg.Lang)
		if err != nil {
			return content.Request{}, err
		}
		req.Words = words
	case content.ModeRandom:
		if _, err := content.ResolveCharSet(cfg.Chars); err != nil {
			return content.Request{}, err
		}
	case content.ModeQuote:
		path, err := resolveQuoteSource(fs, cfg.QuotesDir, cfg.Source)
		if err != nil {
			return content.Request{}, err
		}
		req.Source = path
	}
	return req, nil
}

func loadWordList(fs afero.Fs, lang string) ([]string, error) {
	path := config.DefaultWordListPath(lang)
	words, err := wordlist.LoadWords(fs, path, wordlist.FilterForLang(lang))
	if err == nil {
		return words, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		if builtin, ok := wordlist.Builtin(lang); ok {
			slog.Debug("using bundled word list", "lang", lang)
			return builtin, nil
		}
	}
	return nil, wordListLoadError(lang, path, err)
}

func resolveQuoteSource(fs afero.Fs, dir, source string) (string, error) {
	if info, err := fs.Stat(source); err == nil && !info.IsDir() {
		return source, nil
	}
	matches, err := content.NewLibrary(fs, dir).Find(source)
	if err != nil {
		return "", fmt.Errorf("failed to search quote library %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no quote file matches %q in %s", source, dir)
	}
	if len(matches) > 1 {
		slog.Debug("quote source is ambiguous", "query", source, "matches", len(matches), "picked", matches[0].Path)
	}
	return matches[0].Path, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := wordlist.Langs(afero.NewOsFs(), config.DefaultWordListDir())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	seen := map[string]struct{}{}
	for _, lang := range langs {
		seen[lang] = struct{}{}
		if _, err := fmt.Fprintln(out, lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, ok := seen[defaultLang]; !ok {
		if _, err := fmt.Fprintf(out, "%s (bundled)\n", defaultLang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session stats and per-key heatmap",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "content mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsTop, "top", defaultTop, "rows in the character tables")
	cmd.Flags().StringVar(&statsScheme, "scheme", defaultScheme, "heatmap scheme: "+schemeNames())
	cmd.Flags().IntVar(&statsMinPresses, "min-presses", 1, "hide keys pressed fewer times")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	closeLog, err := setupLogging(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	applyStringConfig(cmd, "scheme", &statsScheme, fileCfg.Heatmap.Scheme)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsMode != "" {
		if _, err := content.ParseMode(statsMode); err != nil {
			return err
		}
	}
	scheme, err := heatmap.ParseScheme(statsScheme)
	if err != nil {
		return err
	}

	cfg := model.StatsConfig{
		Lang:       statsLang,
		Mode:       statsMode,
		Since:      sinceTime,
		Last:       statsLast,
		Top:        statsTop,
		MinPresses: statsMinPresses,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), stats.RenderOptions{
		Scheme:     scheme,
		MinPresses: cfg.MinPresses,
		Top:        cfg.Top,
		Color:      isTerminal(cmd.OutOrStdout()),
	})
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show the all-time keyboard heatmap",
		Args:  cobra.NoArgs,
		RunE:  runKeysCmd,
	}
	cmd.Flags().StringVar(&keysScheme, "scheme", defaultScheme, "heatmap scheme: "+schemeNames())
	cmd.Flags().IntVar(&keysMinPresses, "min-presses", defaultMinPresses, "presses before a key is ranked")
	cmd.Flags().IntVar(&keysTop, "top", defaultTop, "keys in the weakest/strongest lists")
	return cmd
}

func runKeysCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "scheme", &keysScheme, fileCfg.Heatmap.Scheme)
	applyIntConfig(cmd, "min-presses", &keysMinPresses, fileCfg.Heatmap.MinPresses)
	scheme, err := heatmap.ParseScheme(keysScheme)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	aggs, err := st.AllKeyAggregates(cmd.Context())
	if err != nil {
		return err
	}
	return writeKeys(cmd.OutOrStdout(), stats.HeatmapFromAggregates(aggs), scheme, keysTop, keysMinPresses, isTerminal(cmd.OutOrStdout()))
}

func writeKeys(w io.Writer, hm heatmap.Heatmap, scheme heatmap.Scheme, top, minPresses int, color bool) error {
	if len(hm) == 0 {
		_, err := fmt.Fprintln(w, "No key stats found.")
		return err
	}
	presses, errs := hm.Totals()
	lines := []string{
		heatmap.Render(hm, heatmap.RenderOptions{Scheme: scheme, Color: color}),
		"",
		fmt.Sprintf("Presses: %d  Errors: %d", presses, errs),
		"Weakest: " + keyList(hm.Weakest(top, minPresses)),
		"Strongest: " + keyList(hm.Strongest(top, minPresses)),
		"By hand: " + groupList(hm.ByHand()),
		"By finger: " + groupList(hm.ByFinger()),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func keyList(keys []heatmap.KeyStat) string {
	if len(keys) == 0 {
		return "-"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %.0f%%", k.KeyLabel, k.ErrorRate()*100)
	}
	return strings.Join(parts, ", ")
}

// groupList prints error rate and presses for every group that was used.
func groupList(groups []heatmap.GroupStat) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.Presses == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.0f%% (%d)", g.Name, g.ErrorRate()*100, g.Presses))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources [query]",
		Short: "List quote files in the library",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSourcesCmd,
	}
	cmd.Flags().StringVar(&sourcesDir, "dir", "", "quote library root (default: XDG data dir)")
	return cmd
}

func runSourcesCmd(cmd *cobra.Command, args []string) error {
	dir := sourcesDir
	if dir == "" {
		dir = config.DefaultQuotesDir()
	}
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	fs := afero.NewOsFs()
	files, err := content.NewLibrary(fs, dir).Find(query)
	if err != nil {
		return fmt.Errorf("failed to read quote library %s: %w", dir, err)
	}
	if len(files) == 0 {
		logErrf("No quote files found in %s\n", dir)
		return nil
	}
	loader := content.NewLoader(fs, 0)
	out := cmd.OutOrStdout()
	for _, f := range files {
		line := fmt.Sprintf("%s/%s/%s\t%s", f.Language, f.Category, f.FileName, f.Title)
		if quotes, err := loader.LoadQuotes(f.Path, ""); err == nil {
			line += fmt.Sprintf("\t%d quotes", content.Summarize(quotes).Count)
		} else {
			slog.Debug("skipping quote summary", "path", f.Path, "err", err)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Build a word list from a local text corpus",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistLang, "lang", defaultLang, "language code")
	cmd.Flags().StringVar(&wordlistFrom, "from", "", "text file to extract words from (- for stdin)")
	cmd.Flags().IntVar(&wordlistSize, "size", defaultWordlistSz, "number of words")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite existing files")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, _ []string) error {
	if wordlistSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}
	if wordlistFrom == "" {
		return fmt.Errorf("--from is required")
	}
	lang := strings.ToLower(strings.TrimSpace(wordlistLang))
	if lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}

	fs := afero.NewOsFs()
	outPath := config.DefaultWordListPath(lang)
	if !wordlistForce {
		if _, err := fs.Stat(outPath); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}

	var in io.Reader = cmd.InOrStdin()
	if wordlistFrom != "-" {
		file, err := fs.Open(wordlistFrom)
		if err != nil {
			return fmt.Errorf("failed to open corpus: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				// Best-effort close for read-only corpus.
				_ = cerr
			}
		}()
		in = file
	}

	logErrf("Extracting %s word list...\n", lang)
	words, err := wordlist.Extract(in, wordlist.FilterForLang(lang), wordlistSize)
	if err != nil {
		return fmt.Errorf("failed to extract %s word list: %w", lang, err)
	}
	if err := wordlist.Write(fs, outPath, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logErrf("Wrote %d words to %s\n", len(words), outPath)
	return nil
}
