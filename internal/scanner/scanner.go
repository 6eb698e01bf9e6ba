// Package scanner reads candidate files and extracts their tagged comments.
//
// Files are independent, so the scanner can fan out across a bounded worker
// pool. Results are always returned sorted by path, which makes a parallel
// scan indistinguishable from a sequential one.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"sort"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/todotree/internal/models"
	"github.com/harrison/todotree/internal/parser"
)

// ErrInvalidEncoding is recorded for files whose content is not valid UTF-8
var ErrInvalidEncoding = errors.New("file is not valid UTF-8 text")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options configures a Scanner
type Options struct {
	// Workers is the number of files scanned concurrently. 0 or 1 scans sequentially.
	Workers int
}

// Result is the outcome of scanning a sequence of paths
type Result struct {
	// Files holds one entry per file with at least one item, sorted by path
	Files []models.FileResult
	// FilesScanned counts files that were read and matched, with or without items
	FilesScanned int
	// BytesRead is the total size of the scanned files
	BytesRead int64
	// Errors contains non-fatal read and encoding errors
	Errors []error
}

// Scanner runs a parser over files
type Scanner struct {
	parser  *parser.Parser
	workers int
}

// New creates a scanner
func New(p *parser.Parser, opts Options) *Scanner {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Scanner{parser: p, workers: workers}
}

// Workers returns the effective worker count
func (s *Scanner) Workers() int {
	return s.workers
}

// fileScan is the outcome for a single path
type fileScan struct {
	path    string
	items   []models.Item
	size    int64
	scanned bool
	err     error
}

// Scan reads every path in the sequence. Files with an unknown comment
// syntax are skipped silently; unreadable or non-text files are recorded in
// Result.Errors. Only context cancellation makes Scan fail.
func (s *Scanner) Scan(ctx context.Context, paths iter.Seq[string]) (*Result, error) {
	result := &Result{
		Files:  make([]models.FileResult, 0),
		Errors: make([]error, 0),
	}

	var err error
	if s.workers == 1 {
		err = s.scanSequential(ctx, paths, result)
	} else {
		err = s.scanParallel(ctx, paths, result)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Error() < result.Errors[j].Error()
	})

	return result, nil
}

func (s *Scanner) scanSequential(ctx context.Context, paths iter.Seq[string], result *Result) error {
	for path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.add(s.scanFile(path))
	}
	return nil
}

// scanParallel feeds paths through a bounded channel to the worker pool. The
// collector runs on the calling goroutine, so Result needs no locking.
func (s *Scanner) scanParallel(ctx context.Context, paths iter.Seq[string], result *Result) error {
	g, gctx := errgroup.WithContext(ctx)
	pathCh := make(chan string, s.workers)
	outCh := make(chan fileScan, s.workers)

	g.Go(func() error {
		defer close(pathCh)
		for path := range paths {
			select {
			case pathCh <- path:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for path := range pathCh {
				select {
				case outCh <- s.scanFile(path):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		wg.Wait()
		close(outCh)
	}()

	for fs := range outCh {
		result.add(fs)
	}

	return g.Wait()
}

// scanFile reads and parses one file
func (s *Scanner) scanFile(path string) fileScan {
	syntax, ok := parser.DetectSyntax(path)
	if !ok {
		return fileScan{path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fileScan{path: path, err: fmt.Errorf("failed to read %s: %w", path, err)}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return fileScan{path: path, err: fmt.Errorf("skipping %s: %w", path, ErrInvalidEncoding)}
	}

	items := s.parser.ParseContent(string(data), syntax)
	for i := range items {
		items[i].Path = path
	}

	return fileScan{path: path, items: items, size: int64(len(data)), scanned: true}
}

func (r *Result) add(fs fileScan) {
	if fs.err != nil {
		r.Errors = append(r.Errors, fs.err)
		return
	}
	if !fs.scanned {
		return
	}
	r.FilesScanned++
	r.BytesRead += fs.size
	if len(fs.items) > 0 {
		r.Files = append(r.Files, models.FileResult{Path: fs.path, Items: fs.items})
	}
}
