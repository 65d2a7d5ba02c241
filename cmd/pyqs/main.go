// Package main provides the CLI entrypoint for pyqs.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pyqs/internal/browser"
	"github.com/verte-zerg/pyqs/internal/catalog"
	"github.com/verte-zerg/pyqs/internal/config"
	"github.com/verte-zerg/pyqs/internal/dataset"
	"github.com/verte-zerg/pyqs/internal/model"
	"github.com/verte-zerg/pyqs/internal/report"
)

const (
	defaultSort   = string(model.SortAsc)
	defaultFormat = "json"
)

// options holds every flag value. One instance backs a whole command tree.
type options struct {
	configPath string
	dataset    string
	db         string
	logLevel   string
	logFile    string

	subject    string
	classes    []string
	units      []string
	statuses   []string
	weakOnly   bool
	notStarted bool
	sort       string
	width      int

	showSubject string
	format      string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "pyqs",
		Short:         "Chapter-wise PYQ catalogue browser",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowseCmd(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "config file path")
	pf.StringVar(&opts.dataset, "dataset", "", "dataset file (.json, .yaml, .yml)")
	pf.StringVar(&opts.db, "db", "", "SQLite catalogue path")
	pf.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	addFilterFlags(rootCmd, opts)

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newOptionsCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

func addFilterFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.subject, "subject", string(model.Subjects[0]), "subject (Physics, Chemistry, Mathematics)")
	cmd.Flags().StringArrayVar(&opts.classes, "class", nil, "class filter (repeatable)")
	cmd.Flags().StringArrayVar(&opts.units, "unit", nil, "unit filter (repeatable)")
	cmd.Flags().StringArrayVar(&opts.statuses, "status", nil, "status filter (repeatable)")
	cmd.Flags().BoolVar(&opts.weakOnly, "weak", false, "only weak chapters")
	cmd.Flags().BoolVar(&opts.notStarted, "not-started", false, "only chapters not started")
	cmd.Flags().StringVar(&opts.sort, "sort", defaultSort, "sort by chapter name (asc, desc)")
}

func runBrowseCmd(cmd *cobra.Command, opts *options) error {
	log, closeLog, err := setup(cmd, opts, true)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	criteria, err := buildCriteria(opts)
	if err != nil {
		return err
	}
	chapters, err := loadChapters(cmd.Context(), opts.db, opts.dataset, log)
	if err != nil {
		return err
	}
	cat := catalog.New(chapters)
	warnUnknownValues(log, cat, criteria)

	m := browser.NewModel(cat, criteria, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func newListCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered chapter list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListCmd(cmd, opts)
		},
	}
	addFilterFlags(cmd, opts)
	cmd.Flags().IntVar(&opts.width, "width", 0, "output width (default: terminal width)")
	return cmd
}

func runListCmd(cmd *cobra.Command, opts *options) error {
	cat, log, closeLog, err := openCatalog(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	criteria, err := buildCriteria(opts)
	if err != nil {
		return err
	}
	warnUnknownValues(log, cat, criteria)
	result := cat.Query(criteria)

	out := cmd.OutOrStdout()
	if err := report.RenderHeader(out, result.Subject, result.Summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderChapters(out, result.Rows, outputWidth(opts.width)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newOptionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List class, unit and status filter values for a subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptionsCmd(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.subject, "subject", string(model.Subjects[0]), "subject (Physics, Chemistry, Mathematics)")
	return cmd
}

func runOptionsCmd(cmd *cobra.Command, opts *options) error {
	cat, _, closeLog, err := openCatalog(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	subject, err := parseSubject(opts.subject)
	if err != nil {
		return err
	}
	scope := cat.SubjectScope(subject)
	if err := report.RenderOptions(cmd.OutOrStdout(), subject, scope.Options); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newShowCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <chapter>",
		Short: "Show one chapter with its year-wise question counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowCmd(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.showSubject, "subject", "", "subject to search (default: all)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "output width (default: terminal width)")
	return cmd
}

func runShowCmd(cmd *cobra.Command, opts *options, name string) error {
	cat, _, closeLog, err := openCatalog(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	var subject model.Subject
	if opts.showSubject != "" {
		if subject, err = parseSubject(opts.showSubject); err != nil {
			return err
		}
	}
	ch, err := findChapter(cat, subject, name)
	if err != nil {
		return err
	}
	if err := report.RenderChapter(cmd.OutOrStdout(), ch, outputWidth(opts.width)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Validate a dataset file and store it in the SQLite catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImportCmd(cmd, opts)
		},
	}
}

func runImportCmd(cmd *cobra.Command, opts *options) error {
	log, closeLog, err := setup(cmd, opts, false)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	if opts.dataset == "" {
		return fmt.Errorf("--dataset is required")
	}
	dbPath := opts.db
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	n, err := importChapters(cmd.Context(), dbPath, opts.dataset, log)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d chapters into %s\n", n, dbPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded catalogue as a dataset file to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExportCmd(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", defaultFormat, "output format (json, yaml)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, opts *options) error {
	cat, _, closeLog, err := openCatalog(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	return dataset.Encode(cmd.OutOrStdout(), cat.Chapters(), opts.format)
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigCmd(opts.configPath)
		},
	}
}

func runConfigCmd(path string) error {
	if err := writeConfigTemplate(path); err != nil {
		return err
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

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
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
	return nil
}

// setup loads the config file into unchanged flags and builds the logger.
// Interactive commands never log to the terminal.
func setup(cmd *cobra.Command, opts *options, interactive bool) (*logrus.Logger, func() error, error) {
	fileCfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "subject", &opts.subject, fileCfg.Browse.Subject)
	applyStringConfig(cmd, "sort", &opts.sort, fileCfg.Browse.Sort)
	applyBoolConfig(cmd, "weak", &opts.weakOnly, fileCfg.Browse.WeakOnly)
	applyBoolConfig(cmd, "not-started", &opts.notStarted, fileCfg.Browse.NotStartedOnly)
	applyStringConfig(cmd, "dataset", &opts.dataset, fileCfg.Browse.Dataset)
	applyStringConfig(cmd, "db", &opts.db, fileCfg.Browse.DB)
	applyStringConfig(cmd, "log-level", &opts.logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &opts.logFile, fileCfg.Log.File)

	var fallback io.Writer = cmd.ErrOrStderr()
	if interactive {
		fallback = io.Discard
	}
	log, closeLog, err := config.NewLogger(opts.logLevel, opts.logFile, fallback)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("config", opts.configPath).Debug("configuration loaded")
	return log, closeLog, nil
}

func openCatalog(cmd *cobra.Command, opts *options) (*catalog.Catalog, *logrus.Logger, func() error, error) {
	log, closeLog, err := setup(cmd, opts, false)
	if err != nil {
		return nil, nil, nil, err
	}
	chapters, err := loadChapters(cmd.Context(), opts.db, opts.dataset, log)
	if err != nil {
		closeLogger(closeLog)
		return nil, nil, nil, err
	}
	return catalog.New(chapters), log, closeLog, nil
}

func buildCriteria(opts *options) (model.Criteria, error) {
	subject, err := parseSubject(opts.subject)
	if err != nil {
		return model.Criteria{}, err
	}
	dir, ok := model.ParseSortDirection(opts.sort)
	if !ok {
		return model.Criteria{}, fmt.Errorf("--sort must be asc or desc, got %q", opts.sort)
	}
	c := catalog.DefaultCriteria()
	c.Subject = subject
	c.Sort = dir
	for _, v := range opts.classes {
		c = catalog.Reduce(c, catalog.ToggleClass(v))
	}
	for _, v := range opts.units {
		c = catalog.Reduce(c, catalog.ToggleUnit(v))
	}
	for _, v := range opts.statuses {
		c = catalog.Reduce(c, catalog.ToggleStatus(v))
	}
	if opts.weakOnly {
		c = catalog.Reduce(c, catalog.ToggleWeakOnly())
	}
	if opts.notStarted {
		c = catalog.Reduce(c, catalog.ToggleNotStartedOnly())
	}
	return c, nil
}

func parseSubject(name string) (model.Subject, error) {
	subject, ok := model.ParseSubject(strings.TrimSpace(name))
	if !ok {
		names := make([]string, len(model.Subjects))
		for i, s := range model.Subjects {
			names[i] = string(s)
		}
		return "", fmt.Errorf("unknown subject %q (available: %s)", name, strings.Join(names, ", "))
	}
	return subject, nil
}

// warnUnknownValues logs filter values that no chapter of the subject carries.
// They still apply and simply match nothing.
func warnUnknownValues(log *logrus.Logger, cat *catalog.Catalog, c model.Criteria) {
	opts := cat.SubjectScope(c.Subject).Options
	check := func(kind string, selected, available []string) {
		for _, v := range selected {
			if !containsString(available, v) {
				log.WithFields(logrus.Fields{"filter": kind, "value": v, "subject": c.Subject}).Warn("filter value matches no chapter")
			}
		}
	}
	check("class", c.Classes, opts.Classes)
	check("unit", c.Units, opts.Units)
	check("status", c.Statuses, opts.Statuses)
}

func findChapter(cat *catalog.Catalog, subject model.Subject, name string) (model.Chapter, error) {
	if subject != "" {
		if ch, ok := cat.Find(subject, name); ok {
			return ch, nil
		}
	}
	var matches []model.Chapter
	for _, ch := range cat.Chapters() {
		if subject != "" && ch.Subject != subject {
			continue
		}
		if strings.EqualFold(ch.Chapter, strings.TrimSpace(name)) {
			matches = append(matches, ch)
		}
	}
	switch len(matches) {
	case 0:
		return model.Chapter{}, fmt.Errorf("chapter %q not found", name)
	case 1:
		return matches[0], nil
	default:
		subjects := make([]string, len(matches))
		for i, ch := range matches {
			subjects[i] = string(ch.Subject)
		}
		return model.Chapter{}, fmt.Errorf("chapter %q exists in %s; pick one with --subject", name, strings.Join(subjects, ", "))
	}
}

func outputWidth(flagWidth int) int {
	if flagWidth > 0 {
		return flagWidth
	}
	return report.TerminalWidth()
}

func containsString(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func closeLogger(closeFn func() error) {
	if closeFn == nil {
		return
	}
	if err := closeFn(); err != nil {
		logErrf("failed to close log file: %v\n", err)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pyqs configuration
# Uncomment a value to enable it. CLI flags override config values.

[browse]
# Subject shown on start (Physics, Chemistry, Mathematics).
# subject = %q
# Chapter name order (asc, desc).
# sort = %q
# weak-only = false
# not-started-only = false
# Dataset file (.json, .yaml, .yml).
# dataset = ""
# SQLite catalogue filled by: pyqs import --dataset <file>
# db = %q

[log]
# Level: debug, info, warn, error.
# level = %q
# The browser only logs to this file.
# file = ""
`,
		model.Subjects[0],
		defaultSort,
		config.DefaultDBPath(),
		config.DefaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
