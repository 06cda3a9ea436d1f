package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	sqlerr "sqlsplit/pkg/error"
	"sqlsplit/pkg/logging"
	"sqlsplit/pkg/parser/lexer"
	"sqlsplit/pkg/parser/splitter"
	"sqlsplit/pkg/parser/statements"
	"sqlsplit/pkg/ui"
	"sqlsplit/pkg/ui/base"
	"sqlsplit/pkg/validate"
	"sqlsplit/pkg/window"
)

// stdinName stands for standard input in file lists and logs.
const stdinName = "-"

type Configuration struct {
	Window    window.Config
	Workers   int
	Validate  bool
	TUI       bool
	LogLevel  string
	LogFormat string
	LogFile   string
	Quiet     bool
	Files     []string
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(base.DarkPalette.Primary).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(base.DarkPalette.Muted)

	failStyle = lipgloss.NewStyle().
			Foreground(base.DarkPalette.Error).
			Bold(true)
)

func main() {
	config, err := parseArguments(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := initLogging(config); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(2)
	}
	defer logging.Close()

	if err := run(context.Background(), config, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render(err.Error()))
		logging.Close()
		os.Exit(1)
	}
}

// parseArguments processes command-line flags
func parseArguments(args []string) (Configuration, error) {
	var config Configuration
	defaults := window.DefaultConfig()

	fs := flag.NewFlagSet("sqlsplit", flag.ContinueOnError)
	fs.IntVar(&config.Window.WindowSize, "window", defaults.WindowSize, "Window size in characters")
	fs.IntVar(&config.Window.LookBehind, "lookbehind", defaults.LookBehind, "Characters kept behind the cursor")
	fs.IntVar(&config.Window.ChunkSize, "chunk", defaults.ChunkSize, "Characters read per refill")
	fs.IntVar(&config.Workers, "workers", runtime.NumCPU(), "Files split in parallel")
	fs.BoolVar(&config.Validate, "validate", false, "Check each statement with a MySQL grammar")
	fs.BoolVar(&config.TUI, "tui", false, "Open the interactive statement browser")
	fs.StringVar(&config.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&config.LogFormat, "log-format", "text", "Log format: text or json")
	fs.StringVar(&config.LogFile, "log-file", "", "Write logs to this file instead of stderr")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print statements only, without headers")

	if err := fs.Parse(args); err != nil {
		return config, err
	}
	config.Files = fs.Args()

	if config.Workers < 1 {
		return config, fmt.Errorf("-workers must be at least 1, got %d", config.Workers)
	}
	if config.LogFormat != "text" && config.LogFormat != "json" {
		return config, fmt.Errorf("-log-format must be text or json, got %q", config.LogFormat)
	}
	if err := config.Window.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func initLogging(config Configuration) error {
	level, ok := logging.ParseLevel(config.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}
	return logging.Init(logging.Config{
		Level:      level,
		OutputPath: config.LogFile,
		Format:     config.LogFormat,
	})
}

func run(ctx context.Context, config Configuration, stdin io.Reader, stdout, stderr io.Writer) error {
	if config.TUI {
		return startInteractiveMode(config)
	}

	files := config.Files
	if len(files) == 0 {
		files = []string{stdinName}
	}

	results, err := splitFiles(ctx, config, files, stdin)
	if err != nil {
		return err
	}

	invalid := 0
	for _, res := range results {
		printFile(stdout, config, res, len(results) > 1)
		invalid += reportValidation(stderr, res)
	}

	if invalid > 0 {
		return sqlerr.New(sqlerr.ErrCategoryUser, sqlerr.CodeStatementInvalid,
			fmt.Sprintf("%d statements failed validation", invalid))
	}
	return nil
}

// fileResult is what splitting one input produced.
type fileResult struct {
	Path       string
	Statements []statements.Statement
	Results    []validate.Result
	Duration   time.Duration
}

// splitFiles splits every file with up to config.Workers in flight. Results
// come back in the order of files; the first failure cancels the rest.
func splitFiles(ctx context.Context, config Configuration, files []string, stdin io.Reader) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			res, err := splitFile(ctx, config, path, stdin)
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
	return results, nil
}

// splitFile runs one input through reader, lexer and splitter.
func splitFile(ctx context.Context, config Configuration, path string, stdin io.Reader) (fileResult, error) {
	log := logging.WithFile(path)
	start := time.Now()

	src := stdin
	if path != stdinName {
		f, err := os.Open(path)
		if err != nil {
			return fileResult{}, sqlerr.Wrap(err, sqlerr.CodeFileOpenFailed, "SplitFile", "CLI").
				WithDetail("file %s", path).
				WithHint("check that the file exists and is readable")
		}
		defer f.Close()
		src = f
	}

	l, err := lexer.FromReader(src, config.Window)
	if err != nil {
		return fileResult{}, err
	}

	s := splitter.New(l)
	var stmts []statements.Statement
	for {
		if err := ctx.Err(); err != nil {
			return fileResult{}, err
		}
		stmt, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fileResult{}, sqlerr.Wrap(err, sqlerr.CodeSourceReadFailed, "SplitFile", "CLI").
				WithDetail("file %s after %d statements", path, len(stmts))
		}
		stmts = append(stmts, stmt)
	}

	res := fileResult{Path: path, Statements: stmts}
	if config.Validate {
		res.Results = validate.New().All(stmts)
	}
	res.Duration = time.Since(start)

	log.Info("split complete", "statements", len(stmts), "duration", res.Duration)
	return res, nil
}

func printFile(w io.Writer, config Configuration, res fileResult, many bool) {
	if !config.Quiet && many {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("== %s (%d statements)", displayName(res.Path), len(res.Statements))))
	}

	for i, stmt := range res.Statements {
		if !config.Quiet {
			fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("-- [%d] %s @%d", i+1, stmt.Type(), stmt.Position())))
		}
		fmt.Fprintln(w, strings.TrimSpace(stmt.String()))
	}
}

// reportValidation prints statements that failed validation and returns how
// many there were.
func reportValidation(w io.Writer, res fileResult) int {
	invalid := 0
	for _, r := range res.Results {
		if r.Status != validate.Invalid {
			continue
		}
		invalid++
		fmt.Fprintf(w, "%s %s statement %d at %d: %s\n",
			failStyle.Render("✗"), displayName(res.Path), r.Index+1, r.Position, r.Reason)
	}
	return invalid
}

func displayName(path string) string {
	if path == stdinName {
		return "<stdin>"
	}
	return path
}

// startInteractiveMode launches the Bubble Tea UI, preloaded with the first
// file if one was given.
func startInteractiveMode(config Configuration) error {
	var initial string
	if len(config.Files) > 0 {
		content, err := os.ReadFile(config.Files[0])
		if err != nil {
			return sqlerr.Wrap(err, sqlerr.CodeFileOpenFailed, "StartUI", "CLI").
				WithDetail("file %s", config.Files[0])
		}
		initial = string(content)
	}

	if err := ui.Run(ui.Options{Window: config.Window, Validate: config.Validate, Initial: initial}); err != nil {
		return fmt.Errorf("error running program: %v", err)
	}
	return nil
}
