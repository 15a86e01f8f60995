package docscan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/unbound-force/stubmock/internal/config"
)

// Input document extensions.
const (
	ExtJSON  = ".json"
	ExtTxtar = ".txtar"
)

// ScanOptions configures a Scan invocation.
type ScanOptions struct {
	// Config provides exclude patterns and the walk timeout. If nil,
	// DefaultConfig() is used.
	Config *config.Config
}

// Input is a document path resolved by Scan.
type Input struct {
	Path string

	// Discovered is set when Path was found by walking a directory
	// rather than named explicitly.
	Discovered bool
}

// IsInput reports whether name has an input document extension.
func IsInput(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ExtJSON || ext == ExtTxtar
}

// Scan resolves the given paths to input documents. Files are taken as
// given, whatever their extension. Directories are walked for .json
// and .txtar files, skipping hidden directories and anything matching
// an exclude pattern (relative to the walked directory).
//
// If opts.Config.Scan.Timeout is non-zero, the walk is bounded by that
// deadline and a context.DeadlineExceeded error is returned when it is
// hit. The result is de-duplicated and keeps the order of paths; files
// found inside one directory are sorted. A file both named and found by
// a walk is reported once, as not Discovered.
func Scan(ctx context.Context, paths []string, opts ScanOptions) ([]Input, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}

	timeout := opts.Config.Scan.Timeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var inputs []Input
	seen := make(map[string]int)
	add := func(in Input) {
		i, ok := seen[in.Path]
		if !ok {
			seen[in.Path] = len(inputs)
			inputs = append(inputs, in)
			return
		}
		if !in.Discovered {
			inputs[i].Discovered = false
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("scanning %q: %w", root, err)
		}
		if !info.IsDir() {
			add(Input{Path: filepath.Clean(root)})
			continue
		}

		found, err := walkDir(ctx, root, opts.Config)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(Input{Path: p, Discovered: true})
		}
	}

	return inputs, nil
}

func walkDir(ctx context.Context, root string, cfg *config.Config) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("scan of %q stopped: %w", root, ctxErr)
		}
		if walkErr != nil {
			return walkErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			base := d.Name()
			if strings.HasPrefix(base, ".") && base != "." && path != root {
				return filepath.SkipDir
			}
			if rel != "." && Excluded(rel, cfg) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsInput(d.Name()) || Excluded(rel, cfg) {
			return nil
		}

		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(found)
	return found, nil
}
