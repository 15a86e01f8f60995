// Package analysis runs the stubbed-mock rule over decoded syntax
// trees. It visits every call node in source order, hands it to the
// matcher and turns each hit into a finding.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unbound-force/stubmock/internal/classify"
	"github.com/unbound-force/stubmock/internal/config"
	"github.com/unbound-force/stubmock/internal/docscan"
	"github.com/unbound-force/stubmock/internal/loader"
	"github.com/unbound-force/stubmock/internal/match"
	"github.com/unbound-force/stubmock/internal/syntax"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// Rule is a diagnostic the host runs against every call node of a
// document.
type Rule struct {
	// Name is the qualified rule name reported with each finding.
	Name string

	// Match recognizes an offending call. block is the block attached
	// to call, or nil.
	Match func(call, block *syntax.Node, opts match.Options) (match.Hit, bool)
}

// Check inspects one call site and returns at most one finding.
func (r Rule) Check(site syntax.CallSite, doc *syntax.Document, opts match.Options) (taxonomy.Finding, bool) {
	hit, ok := r.Match(site.Call, site.Block, opts)
	if !ok {
		return taxonomy.Finding{}, false
	}
	return classify.Classify(r.Name, doc.File, hit, doc)
}

// StubbedMock flags strict expectations that configure a response.
var StubbedMock = Rule{
	Name:  classify.RuleName,
	Match: match.Match,
}

// Options configures the analysis behavior.
type Options struct {
	// Match tunes the matcher.
	Match match.Options

	// Disabled turns the rule off. Check still loads every input so
	// that malformed documents are reported.
	Disabled bool

	// Workers bounds how many inputs are checked concurrently.
	// Zero means GOMAXPROCS.
	Workers int

	// Filter decides whether the Ruby source recorded in a document
	// is checked. Nil checks every document.
	Filter func(file string) bool

	// Version is the stubmock version string to embed in metadata.
	// If empty, defaults to "dev".
	Version string
}

// NewOptions derives Options from a loaded configuration. A nil cfg
// means DefaultConfig().
func NewOptions(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Options{
		Match: match.Options{
			ResponseMethods:    slices.Clone(cfg.ResponseMethods),
			SkipCountModifiers: cfg.CountModifiers == config.CountModifiersSkip,
		},
		Disabled: !cfg.Enabled,
		Workers:  cfg.Workers,
		Filter: func(file string) bool {
			return docscan.Filter(file, cfg)
		},
	}
}

// Analyze runs the rule over one document. Findings are ordered by
// the start of their span.
func Analyze(doc *syntax.Document, input string, opts Options) taxonomy.FileResult {
	result := taxonomy.FileResult{
		File:     doc.File,
		Input:    input,
		Findings: []taxonomy.Finding{},
	}
	if opts.Disabled {
		return result
	}

	for _, site := range syntax.Calls(doc.Root) {
		if f, ok := StubbedMock.Check(site, doc, opts.Match); ok {
			result.Findings = append(result.Findings, f)
		}
	}

	slices.SortStableFunc(result.Findings, func(a, b taxonomy.Finding) int {
		switch {
		case a.Span.Begin.Before(b.Span.Begin):
			return -1
		case b.Span.Begin.Before(a.Span.Begin):
			return 1
		}
		return 0
	})
	return result
}

// Check loads every input, runs the rule over each document and
// returns the assembled report. Inputs are processed concurrently but
// reported in the order given; documents of a bundle keep their
// archive order. A discovered input that is not a syntax document is
// skipped with a warning; any other load error cancels the run.
func Check(ctx context.Context, inputs []docscan.Input, opts Options) (*taxonomy.Report, error) {
	start := time.Now()

	ld, err := loader.New()
	if err != nil {
		return nil, err
	}

	perInput := make([][]taxonomy.FileResult, len(inputs))
	skipped := make([]int, len(inputs))
	ignored := make([]bool, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(opts.Workers))

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs, err := ld.Load(input.Path)
			if err != nil {
				if input.Discovered && errors.Is(err, loader.ErrNotDocument) {
					ignored[i] = true
					return nil
				}
				return fmt.Errorf("loading %q: %w", input.Path, err)
			}
			for _, doc := range docs {
				if opts.Filter != nil && !opts.Filter(doc.File) {
					skipped[i]++
					continue
				}
				perInput[i] = append(perInput[i], Analyze(doc, input.Path, opts))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &taxonomy.Report{Files: []taxonomy.FileResult{}}
	report.Metadata = buildMetadata(start, opts.Version)
	total := 0
	for i, input := range inputs {
		report.Files = append(report.Files, perInput[i]...)
		total += skipped[i]
		if ignored[i] {
			report.Metadata.Warnings = append(report.Metadata.Warnings,
				fmt.Sprintf("ignored %s: not a syntax document", input.Path))
		}
	}
	report.Summarize()
	if opts.Disabled {
		report.Metadata.Warnings = append(report.Metadata.Warnings,
			fmt.Sprintf("rule %s is disabled", StubbedMock.Name))
	}
	if total > 0 {
		report.Metadata.Warnings = append(report.Metadata.Warnings,
			fmt.Sprintf("%d document(s) skipped by include/exclude patterns", total))
	}
	return report, nil
}

func workerLimit(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// buildMetadata creates run metadata with current timing.
func buildMetadata(start time.Time, version string) taxonomy.Metadata {
	if version == "" {
		version = "dev"
	}
	return taxonomy.Metadata{
		Version:   version,
		Timestamp: start,
		Duration:  time.Since(start),
		Warnings:  []string{},
	}
}
