package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlmatch/internal/cli/config"
	"github.com/leapstack-labs/sqlmatch/internal/cli/output"
	"github.com/leapstack-labs/sqlmatch/internal/state"
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/leapstack-labs/sqlmatch/pkg/lint"
	_ "github.com/leapstack-labs/sqlmatch/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/sqlmatch/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrIssuesFound is returned by lint when any diagnostic is reported.
var ErrIssuesFound = errors.New("lint issues found")

// stdinPath is the path argument that reads SQL from standard input.
const stdinPath = "-"

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths    []string // Files or directories; "-" reads stdin
	Format   string   // Output format: text, json, markdown
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
	Rules    []string // Run only specific rules
	Watch    bool     // Re-lint when files change
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Run lint rules on SQL files",
		Long: `Parse SQL files with the configured dialect and report lint findings.

Directories are searched recursively for .sql files. Results for unchanged
files are served from the cache at cache_path unless --no-cache is given.
Unparsable statements are reported under rule PRS.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint every .sql file below the current directory
  sqlmatch lint

  # Lint specific files with the postgres dialect
  sqlmatch lint -d postgres queries/a.sql queries/b.sql

  # Lint from stdin
  echo "SELECT vee.a FROM foo" | sqlmatch lint -

  # Output as JSON
  sqlmatch lint --format json

  # Only report errors
  sqlmatch lint --severity error

  # Keep linting as files change
  sqlmatch lint --watch ./queries`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Minimum severity: error, warning, info, hint (default from lint.severity)")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint when files change")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if err := cmdCtx.WithFormat(cmd, opts.Format); err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	d, err := cmdCtx.Dialect()
	if err != nil {
		return err
	}

	lintCfg, err := buildLintConfig(cfg, opts)
	if err != nil {
		return err
	}
	if cfg.DocsURL != "" {
		lint.SetDocsBaseURL(cfg.DocsURL)
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	l := &fileLinter{
		dialect:  d,
		analyzer: lint.NewAnalyzer(lintCfg),
		logger:   logger,
		stdin:    cmd.InOrStdin(),
	}

	if !cfg.NoCache && !slices.Contains(paths, stdinPath) {
		store := state.NewSQLiteStore(logger)
		if err := store.OpenAndMigrate(cfg.CachePath); err != nil {
			cmdCtx.Renderer.Warn(fmt.Sprintf("lint cache disabled: %v", err))
		} else {
			defer store.Close()
			l.store = store
			l.configHash, err = lintConfigHash(lintCfg)
			if err != nil {
				return fmt.Errorf("failed to hash lint config: %w", err)
			}
		}
	}

	run := func(ctx context.Context) error {
		files, err := collectFiles(paths)
		if err != nil {
			return err
		}
		results, err := l.lintAll(ctx, files, workerCount(cfg.Workers))
		if err != nil {
			return err
		}
		if renderLintResults(cmdCtx.Renderer, results) {
			return ErrIssuesFound
		}
		return nil
	}

	err = run(cmd.Context())
	if !opts.Watch {
		return err
	}
	if err != nil && !errors.Is(err, ErrIssuesFound) {
		return err
	}
	return watchPaths(cmd.Context(), paths, logger, func() {
		cmdCtx.Renderer.Println("")
		if err := run(cmd.Context()); err != nil && !errors.Is(err, ErrIssuesFound) {
			logger.Error("lint failed", slog.String("error", err.Error()))
		}
	})
}

func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	lintCfg := lint.NewConfig()

	// Apply project config first (lower precedence)
	if cfg != nil {
		projectLint := cfg.Lint
		for _, id := range projectLint.Disabled {
			lintCfg.Disable(strings.TrimSpace(id))
		}
		for id, sev := range projectLint.SeverityOverrides {
			s, err := lint.ParseSeverity(sev)
			if err != nil {
				return nil, fmt.Errorf("lint.severity_overrides.%s: %w", id, err)
			}
			lintCfg.SetSeverity(id, s)
		}
		for id, ruleOpts := range projectLint.RuleOptionsByID() {
			lintCfg.SetRuleOptions(id, ruleOpts)
		}
	}

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabledSet := make(map[string]bool)
		for _, id := range opts.Rules {
			enabledSet[strings.ToUpper(strings.TrimSpace(id))] = true
		}
		for _, rule := range lint.GetAll() {
			if !enabledSet[strings.ToUpper(rule.ID())] {
				lintCfg.Disable(rule.ID())
			}
		}
		if !enabledSet[lint.ParseErrorRuleID] {
			lintCfg.Disable(lint.ParseErrorRuleID)
		}
	}

	severity := opts.Severity
	if severity == "" && cfg != nil {
		severity = cfg.Lint.Severity
	}
	if severity == "" {
		severity = config.DefaultSeverity
	}
	minSeverity, err := lint.ParseSeverity(severity)
	if err != nil {
		return nil, err
	}
	lintCfg.MinSeverity = minSeverity

	return lintCfg, nil
}

// lintConfigHash identifies the effective rule set and configuration so
// cached results are dropped when either changes.
func lintConfigHash(c *lint.Config) (string, error) {
	ids := make([]string, 0, lint.Count())
	for _, rule := range lint.GetAll() {
		ids = append(ids, rule.ID())
	}
	return state.HashConfig(struct {
		Rules    []string
		Config   *lint.Config
		DocsBase string
	}{ids, c, lint.DocsBaseURL})
}

func workerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// collectFiles expands directories into the .sql files below them. Explicit
// file arguments are kept whatever their extension.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		if p == stdinPath {
			add(p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot lint %s: %w", p, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if path != p && strings.HasPrefix(entry.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isSQLFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	slices.Sort(files)
	return files, nil
}

func isSQLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sql")
}

// lintFileResult holds lint results for a single file.
type lintFileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	Cached      bool
}

// fileLinter lints files with one dialect and analyzer. It is safe for
// concurrent use.
type fileLinter struct {
	dialect    *dialect.Dialect
	analyzer   *lint.Analyzer
	store      *state.SQLiteStore
	configHash string
	logger     *slog.Logger
	stdin      io.Reader
}

// lintAll lints files with at most workers files in flight. Results keep
// the order of files.
func (l *fileLinter) lintAll(ctx context.Context, files []string, workers int) ([]lintFileResult, error) {
	var runID string
	if l.store != nil {
		if run, err := l.store.CreateRun(l.dialect.GetName()); err != nil {
			l.logger.Warn("failed to record lint run", slog.String("error", err.Error()))
		} else {
			runID = run.ID
		}
	}

	results := make([]lintFileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := l.lintFile(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if runID != "" {
		var cached, issues int
		for _, r := range results {
			issues += len(r.Diagnostics)
			if r.Cached {
				cached++
			}
		}
		if err := l.store.CompleteRun(runID, len(results), cached, issues); err != nil {
			l.logger.Warn("failed to complete lint run", slog.String("error", err.Error()))
		}
	}
	return results, nil
}

func (l *fileLinter) lintFile(path string) (lintFileResult, error) {
	if path == stdinPath {
		content, err := io.ReadAll(l.stdin)
		if err != nil {
			return lintFileResult{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return lintFileResult{Path: "<stdin>", Diagnostics: l.lintSource(string(content))}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return lintFileResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var key state.Key
	if l.store != nil {
		key = state.Key{
			Path:        path,
			ContentHash: state.HashContent(content),
			Dialect:     l.dialect.GetName(),
			ConfigHash:  l.configHash,
		}
		diags, found, err := l.store.Lookup(key)
		if err != nil {
			l.logger.Warn("lint cache lookup failed", slog.String("path", path), slog.String("error", err.Error()))
		} else if found {
			l.logger.Debug("lint cache hit", slog.String("path", path))
			return lintFileResult{Path: path, Diagnostics: diags, Cached: true}, nil
		}
	}

	diags := l.lintSource(string(content))

	if l.store != nil {
		if err := l.store.Save(key, diags); err != nil {
			l.logger.Warn("lint cache save failed", slog.String("path", path), slog.String("error", err.Error()))
		}
	}
	return lintFileResult{Path: path, Diagnostics: diags}, nil
}

func (l *fileLinter) lintSource(sql string) []lint.Diagnostic {
	res := parser.Parse(sql, l.dialect, parser.WithLogger(l.logger))
	return l.analyzer.AnalyzeResult(res, l.dialect)
}

// renderLintResults writes results and reports whether any issue was found.
func renderLintResults(r *output.Renderer, results []lintFileResult) bool {
	summary := output.LintSummary{FilesAnalyzed: len(results)}
	var withIssues []lintFileResult
	for _, res := range results {
		if res.Cached {
			summary.FilesCached++
		}
		if len(res.Diagnostics) == 0 {
			continue
		}
		withIssues = append(withIssues, res)
		summary.FilesWithIssues++
		summary.TotalIssues += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
	}

	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		jsonOutput := output.LintOutput{Summary: summary, Files: []output.LintFileResult{}}
		for _, res := range withIssues {
			fileResult := output.LintFileResult{Path: res.Path}
			for _, d := range res.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
					RuleID:           d.RuleID,
					Severity:         d.Severity.String(),
					Message:          d.Message,
					Line:             d.Pos.Line,
					Column:           d.Pos.Column,
					EndLine:          d.EndPos.Line,
					EndColumn:        d.EndPos.Column,
					DocumentationURL: d.DocumentationURL,
				})
			}
			jsonOutput.Files = append(jsonOutput.Files, fileResult)
		}
		_ = r.JSON(jsonOutput)
		return summary.TotalIssues > 0
	}

	if summary.TotalIssues == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d files", summary.FilesAnalyzed))
		return false
	}

	styles := r.Styles()
	for _, res := range withIssues {
		if mode == output.ModeMarkdown {
			r.Println(output.FormatHeader(3, res.Path))
			r.Println("")
			for _, d := range res.Diagnostics {
				r.Printf("- `%s` **%s** %s: %s\n", d.Pos, d.RuleID, d.Severity, d.Message)
			}
			r.Println("")
			continue
		}

		r.Println(styles.Path.Render(res.Path))
		for _, d := range res.Diagnostics {
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", d.Pos)),
				severityStyle(r, d.Severity),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	// Print summary
	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d of %d files\n", strings.Join(summaryParts, ", "), summary.FilesWithIssues, summary.FilesAnalyzed)

	return true
}

func severityStyle(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case lint.SeverityHint:
		return r.Styles().Hint.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
