package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	charmlog "github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/unbound-force/stubmock/internal/analysis"
	"github.com/unbound-force/stubmock/internal/classify"
	"github.com/unbound-force/stubmock/internal/config"
	"github.com/unbound-force/stubmock/internal/docscan"
	"github.com/unbound-force/stubmock/internal/loader"
	"github.com/unbound-force/stubmock/internal/report"
	"github.com/unbound-force/stubmock/internal/scaffold"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "stubmock",
		Short: "Stubmock: flag message expectations that configure a response",
		Long: `Stubmock inspects RSpec syntax trees and reports strict message
expectations (expect, is_expected, are_expected, expect_any_instance_of)
that configure a canned response where a stub allowance would do.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newInitCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// checkParams holds the parsed flags for the check command.
type checkParams struct {
	ctx         context.Context
	paths       []string
	format      string
	configPath  string
	dir         string
	interactive bool
	verbose     bool
	stdout      io.Writer
}

// runCheck is the extracted, testable body of the check command.
func runCheck(p checkParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}
	if p.ctx == nil {
		p.ctx = context.Background()
	}
	if p.verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}

	cfg, err := loadConfig(p.configPath, p.dir)
	if err != nil {
		return err
	}

	paths := p.paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	inputs, err := docscan.Scan(p.ctx, paths, docscan.ScanOptions{Config: cfg})
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		logger.Warn("no input documents found", "paths", paths)
		return nil
	}

	logger.Info("checking documents", "inputs", len(inputs))
	opts := analysis.NewOptions(cfg)
	opts.Version = version
	rpt, err := analysis.Check(p.ctx, inputs, opts)
	if err != nil {
		return err
	}
	logger.Info("check complete",
		"files", rpt.Summary.Files,
		"offenses", rpt.Summary.Findings,
		"duration", rpt.Metadata.Duration)

	if p.interactive {
		if err := runInteractiveCheck(rpt); err != nil {
			return err
		}
	} else if err := writeReport(p.stdout, p.format, rpt, p.verbose); err != nil {
		return err
	}

	if rpt.Summary.Findings > 0 {
		return fmt.Errorf("%d offense(s) found", rpt.Summary.Findings)
	}
	return nil
}

// loadConfig reads the explicit config path, or looks for
// config.FileName in dir.
func loadConfig(path, dir string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("using config", "path", path)
		return cfg, nil
	}

	if dir == "" {
		dir = "."
	}
	cfg, found, err := config.Find(dir)
	if err != nil {
		return nil, err
	}
	if found != "" {
		logger.Debug("using config", "path", found)
	} else {
		logger.Debug("no config file found, using defaults")
	}
	return cfg, nil
}

// writeReport outputs the report in the requested format.
func writeReport(w io.Writer, format string, rpt *taxonomy.Report, verbose bool) error {
	switch format {
	case "json":
		return report.WriteJSON(w, rpt)
	default:
		return report.WriteText(w, rpt, report.TextOptions{Verbose: verbose})
	}
}

func newCheckCmd() *cobra.Command {
	var (
		format      string
		configPath  string
		interactive bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check syntax-tree documents for stubbed mocks",
		Long: `Check JSON syntax-tree documents (or .txtar bundles of them) and
report every strict expectation that configures a response. Directories
are searched recursively. Exits non-zero when offenses are found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			return runCheck(checkParams{
				ctx:         cmd.Context(),
				paths:       args,
				format:      format,
				configPath:  configPath,
				dir:         dir,
				interactive: interactive,
				verbose:     verbose,
				stdout:      cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")
	cmd.Flags().StringVar(&configPath, "config", "",
		"path to config file (default: ./"+config.FileName+" when present)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing results")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"debug logging and list files without offenses")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	var input bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for stubmock output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of stubmock check --format=json output. With --input, print
the schema input syntax-tree documents are validated against.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := report.Schema
			if input {
				schema = loader.DocumentSchema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}

	cmd.Flags().BoolVar(&input, "input", false,
		"print the input document schema instead")

	return cmd
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Describe the rule and its messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeRules(cmd.OutOrStdout())
		},
	}
}

// writeRules prints the rule name, its description and the allowance
// preferred over each receiver variant.
func writeRules(w io.Writer) error {
	s := report.DefaultStyles()

	rows := make([][]string, 0, len(taxonomy.Variants))
	for _, v := range taxonomy.Variants {
		prefer, ok := classify.Replacement(v)
		if !ok {
			return fmt.Errorf("no replacement for variant %q", v)
		}
		rows = append(rows, []string{string(v), prefer})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			return s.TableCell
		}).
		Headers("RECEIVER", "PREFER").
		Rows(rows...)

	_, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n",
		s.Header.Render(classify.RuleName),
		s.Message.Render(classify.Description),
		t)
	return err
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config and the syntax-document dumper",
		Long: `Write .stubmock.yaml and script/stubmock_dump.rb into the current
directory. The dumper turns RSpec files into the JSON documents that
stubmock check reads. Existing files are kept unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := scaffold.Run(scaffold.Options{
				Force:   force,
				Version: version,
				Stdout:  cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			logger.Debug("init complete",
				"created", len(result.Created),
				"skipped", len(result.Skipped),
				"overwritten", len(result.Overwritten))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite existing files")

	return cmd
}
