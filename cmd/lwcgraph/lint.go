package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lwcgraph/internal/analyzer"
	"lwcgraph/internal/config"
	"lwcgraph/internal/correlate"
	"lwcgraph/internal/diag"
	"lwcgraph/internal/diagfmt"
	"lwcgraph/internal/driver"
	"lwcgraph/internal/observ"
	"lwcgraph/internal/processor"
	"lwcgraph/internal/rules"
	"lwcgraph/internal/source"
	"lwcgraph/internal/state"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <path>...",
	Short: "Lint component files bundle by bundle",
	Long: `Lint discovers script and template files under the given paths, assembles
each into its component bundle and reports the analyzer's findings for the
rules enabled in ` + config.FileName + `.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringP("format", "f", "pretty", "output format (pretty|json|short)")
	lintCmd.Flags().String("analyzer", "", "analyzer command line, overrides [analyzer].command")
	lintCmd.Flags().String("wire", "", "analyzer wire format (json|msgpack), overrides [analyzer].wire")
	lintCmd.Flags().String("preset", "", "rule preset (recommended|none), overrides [rules].preset")
	lintCmd.Flags().StringArray("rule", nil, "rule severity override, name=off|warn|error (repeatable)")
	lintCmd.Flags().String("path-mode", "auto", "path display mode (auto|absolute|relative|basename)")
	lintCmd.Flags().Bool("fullpath", false, "emit absolute paths in output (same as --path-mode=absolute)")
	lintCmd.Flags().Bool("context", false, "print the offending source line under each message")
	lintCmd.Flags().Int("max", 0, "maximum number of messages in json output (0 = unlimited)")
	lintCmd.Flags().IntP("jobs", "j", 1, "number of files linted in parallel (0 = GOMAXPROCS)")
	lintCmd.Flags().String("ui", "off", "show live progress (auto|on|off)")
}

func runLint(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	session, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Stop(); err != nil {
			e.log.Error("failed to write profiles", "err", err)
		}
	}()

	cfg := e.cfg
	if err := applyLintFlags(cmd, &cfg); err != nil {
		return err
	}

	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	pathMode, err := lintPathMode(cmd)
	if err != nil {
		return err
	}
	withContext, err := cmd.Flags().GetBool("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	maxMessages, err := cmd.Flags().GetInt("max")
	if err != nil {
		return fmt.Errorf("failed to get max flag: %w", err)
	}

	settings, err := cfg.RuleSettings()
	if err != nil {
		return err
	}
	if len(settings.Enabled()) == 0 {
		e.log.Warn("every rule is off; nothing to report")
	}
	exec, err := cfg.NewAnalyzer()
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if e.timings {
		timer = observ.NewTimer()
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	var useUI bool
	switch uiFlag {
	case "on":
		useUI = true
	case "auto":
		useUI = format == diagfmt.FormatPretty && isTerminal(os.Stdout)
	case "off":
	default:
		return fmt.Errorf("unsupported ui mode %q (must be auto, on or off)", uiFlag)
	}

	fsys := source.OSProvider{}
	// общий кэш: корреляция видит бандлы всех воркеров
	cache := state.NewCache(cfg.Cache.Capacity)
	opts := driver.ParallelOptions{
		Options: driver.Options{
			Source:   correlate.New(cache, exec, e.log, cfg.Namespace),
			Settings: settings,
			Timer:    timer,
			Logger:   e.log,
		},
		Jobs:         jobs,
		NewProcessor: func() *processor.Processor {
			return processor.New(processor.Options{
				Cache:      cache,
				FS:         fsys,
				Extensions: cfg.Extensions,
				Logger:     e.log,
			})
		},
	}

	endList := timer.Begin("discover")
	files, err := driver.ListFiles(args, cfg.Extensions)
	endList()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		e.log.Warn("no component files found", "paths", strings.Join(args, " "))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		res     *driver.Result
		lintErr error
	)
	switch {
	case useUI:
		res, lintErr = runLintWithUI(ctx, "lwcgraph lint", files, opts)
	case jobs == 1:
		hostOpts := opts.Options
		hostOpts.Processor = opts.NewProcessor()
		res, lintErr = driver.New(hostOpts).Lint(ctx, files)
	default:
		res, lintErr = driver.LintParallel(ctx, files, opts)
	}
	if res == nil {
		return lintErr
	}
	if lintErr != nil {
		// отдельные файлы не прошли, остальное всё равно печатаем
		e.log.Error("some files could not be linted", "err", lintErr)
	}

	res.Bag.Sort()
	out := cmd.OutOrStdout()
	baseDir, _ := os.Getwd()
	endRender := timer.Begin("render")
	if format == diagfmt.FormatJSON {
		err = diagfmt.JSON(out, res.Bag, diagfmt.JSONOpts{PathMode: pathMode, BaseDir: baseDir, Max: maxMessages})
	} else {
		err = diagfmt.Render(out, res.Bag, format, diagfmt.PrettyOpts{
			Color:    e.useColor,
			PathMode: pathMode,
			BaseDir:  baseDir,
			Context:  withContext,
			FS:       fsys,
		})
	}
	endRender()
	if err != nil {
		return fmt.Errorf("failed to render diagnostics: %w", err)
	}

	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if res.Bag.HasErrors() || lintErr != nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// applyLintFlags layers command-line overrides on top of the file
// configuration.
func applyLintFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	analyzerFlag, err := flags.GetString("analyzer")
	if err != nil {
		return fmt.Errorf("failed to get analyzer flag: %w", err)
	}
	if analyzerFlag != "" {
		cfg.Analyzer.Command = strings.Fields(analyzerFlag)
		// путь в командной строке задан относительно cwd, а не конфига
		cfg.Path = ""
	}

	wireFlag, err := flags.GetString("wire")
	if err != nil {
		return fmt.Errorf("failed to get wire flag: %w", err)
	}
	if wireFlag != "" {
		wire, err := analyzer.ParseWire(wireFlag)
		if err != nil {
			return err
		}
		cfg.Analyzer.Wire = wire
	}

	presetFlag, err := flags.GetString("preset")
	if err != nil {
		return fmt.Errorf("failed to get preset flag: %w", err)
	}
	if presetFlag != "" {
		cfg.Rules.Preset = presetFlag
	}

	ruleFlags, err := flags.GetStringArray("rule")
	if err != nil {
		return fmt.Errorf("failed to get rule flag: %w", err)
	}
	overrides, err := parseRuleFlags(ruleFlags)
	if err != nil {
		return err
	}
	if len(overrides) > 0 {
		merged := make(map[string]diag.Severity, len(cfg.Rules.Overrides)+len(overrides))
		for name, sev := range cfg.Rules.Overrides {
			merged[name] = sev
		}
		for name, sev := range overrides {
			merged[name] = sev
		}
		cfg.Rules.Overrides = merged
	}
	return nil
}

// parseRuleFlags turns "name=severity" pairs into overrides. Names may carry
// the plugin prefix.
func parseRuleFlags(values []string) (map[string]diag.Severity, error) {
	out := make(map[string]diag.Severity, len(values))
	for _, v := range values {
		name, level, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --rule %q (want name=off|warn|error)", v)
		}
		rule, found := rules.Lookup(strings.TrimSpace(name))
		if !found {
			return nil, fmt.Errorf("invalid --rule %q: unknown rule %q", v, name)
		}
		sev, err := diag.ParseSeverity(strings.TrimSpace(level))
		if err != nil {
			return nil, fmt.Errorf("invalid --rule %q: %w", v, err)
		}
		out[rule.Name] = sev
	}
	return out, nil
}

func lintPathMode(cmd *cobra.Command) (diagfmt.PathMode, error) {
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return diagfmt.PathModeAuto, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		return diagfmt.PathModeAbsolute, nil
	}
	modeFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return diagfmt.PathModeAuto, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	return diagfmt.ParsePathMode(modeFlag)
}
