// Package scaffold embeds the starter files for a project adopting
// stubmock (a commented default configuration and a syntax-document
// dumper script) and writes them to a target project directory.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed assets/*
var assets embed.FS

// targets maps each embedded asset to its path in the project.
var targets = map[string]string{
	"stubmock.yaml":    ".stubmock.yaml",
	"stubmock_dump.rb": filepath.Join("script", "stubmock_dump.rb"),
}

// Options configures the scaffold operation.
type Options struct {
	// TargetDir is the root directory to scaffold into.
	// Defaults to the current working directory.
	TargetDir string

	// Force overwrites existing files when true.
	// When false, existing files are skipped.
	Force bool

	// Version is the stubmock version string to embed in the
	// version marker comment. Defaults to "dev".
	Version string

	// Stdout is the writer for summary output.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Result reports what the scaffold operation did.
type Result struct {
	// Created lists files that were written for the first time.
	Created []string

	// Skipped lists files that already existed and were not
	// overwritten (Force was false).
	Skipped []string

	// Overwritten lists files that existed and were replaced
	// (Force was true).
	Overwritten []string
}

// versionMarker returns the comment line that records which stubmock
// version wrote a file.
func versionMarker(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("# scaffolded by stubmock %s\n", version)
}

// withMarker inserts marker at the top of content, after a leading
// "#!" line if there is one.
func withMarker(content []byte, marker string) []byte {
	out := make([]byte, 0, len(content)+len(marker))
	if strings.HasPrefix(string(content), "#!") {
		nl := strings.IndexByte(string(content), '\n')
		if nl < 0 {
			return append(append(append(out, content...), '\n'), marker...)
		}
		out = append(out, content[:nl+1]...)
		content = content[nl+1:]
	}
	out = append(out, marker...)
	return append(out, content...)
}

// Run writes the embedded starter files into the target directory:
// .stubmock.yaml and script/stubmock_dump.rb.
//
// Each file carries a version marker comment:
//
//	# scaffolded by stubmock vX.Y.Z
//
// If a file already exists and opts.Force is false, the file is
// skipped. If opts.Force is true, the file is overwritten.
func Run(opts Options) (*Result, error) {
	if opts.TargetDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		opts.TargetDir = cwd
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	// Warn when the target does not look like a Ruby project.
	gemfile := filepath.Join(opts.TargetDir, "Gemfile")
	if _, err := os.Stat(gemfile); os.IsNotExist(err) {
		fmt.Fprintln(opts.Stdout, "Warning: no Gemfile found in target directory.")
		fmt.Fprintln(opts.Stdout, "The dumper script needs the parser gem.")
		fmt.Fprintln(opts.Stdout)
	}

	result := &Result{}
	marker := versionMarker(opts.Version)

	paths, err := AssetPaths()
	if err != nil {
		return nil, fmt.Errorf("listing embedded assets: %w", err)
	}

	for _, rel := range paths {
		target, ok := targets[rel]
		if !ok {
			return nil, fmt.Errorf("embedded asset %s has no target path", rel)
		}
		outPath := filepath.Join(opts.TargetDir, target)

		_, statErr := os.Stat(outPath)
		exists := statErr == nil

		if exists && !opts.Force {
			result.Skipped = append(result.Skipped, target)
			continue
		}

		content, err := AssetContent(rel)
		if err != nil {
			return nil, fmt.Errorf("reading embedded asset %s: %w", rel, err)
		}

		dir := filepath.Dir(outPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}

		if err := os.WriteFile(outPath, withMarker(content, marker), 0o644); err != nil {
			return nil, fmt.Errorf("creating %s: %w", target, err)
		}

		if exists {
			result.Overwritten = append(result.Overwritten, target)
		} else {
			result.Created = append(result.Created, target)
		}
	}

	printSummary(opts.Stdout, result)

	return result, nil
}

// printSummary writes a human-readable summary of the scaffold
// operation to w.
func printSummary(w io.Writer, r *Result) {
	fmt.Fprintln(w, "Stubmock initialized:")

	for _, f := range r.Created {
		fmt.Fprintf(w, "  created: %s\n", f)
	}
	for _, f := range r.Skipped {
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", f)
	}
	for _, f := range r.Overwritten {
		fmt.Fprintf(w, "  overwritten: %s\n", f)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dump your specs with script/stubmock_dump.rb, then run stubmock check.")

	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "%d file(s) skipped (use --force to overwrite).\n", len(r.Skipped))
	}
}

// AssetPaths returns the relative paths of all embedded assets in
// lexical order.
func AssetPaths() ([]string, error) {
	var paths []string
	err := fs.WalkDir(assets, "assets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, strings.TrimPrefix(path, "assets/"))
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

// AssetContent returns the raw content of an embedded asset by
// its relative path (e.g., "stubmock.yaml").
func AssetContent(relPath string) ([]byte, error) {
	return assets.ReadFile("assets/" + relPath)
}
