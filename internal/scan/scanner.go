package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/songdna/songdna/pkg/audio"
	"github.com/songdna/songdna/pkg/audio/fingerprint"
	"github.com/songdna/songdna/pkg/logging"
)

// Options controls a library scan
type Options struct {
	MaxConcurrency int
	Extensions     []string
	MaxResults     int
	MatchThreshold float64
	ShowProgress   bool
}

// DefaultOptions returns sensible scan settings
func DefaultOptions() *Options {
	return &Options{
		MaxConcurrency: 4,
		Extensions:     []string{".wav"},
		MaxResults:     20,
		MatchThreshold: 0.7,
		ShowProgress:   true,
	}
}

// Scanner fingerprints a directory of audio files and ranks them against
// a query fingerprint. Fingerprint computations are independent of each
// other, so files are processed on a bounded worker pool.
type Scanner struct {
	opts       *Options
	builder    *fingerprint.Builder
	comparator *fingerprint.Comparator
	logger     logging.Logger
}

// Result is the outcome of one scan
type Result struct {
	Query     *fingerprint.Fingerprint `json:"query"`
	QueryPath string                   `json:"query_path"`
	Matches   []fingerprint.Match      `json:"matches"`
	Report    *Report                  `json:"report"`
	Scanned   int                      `json:"scanned"`
	Failed    int                      `json:"failed"`
	Elapsed   time.Duration            `json:"elapsed"`
}

// NewScanner creates a scanner. Nil options use defaults.
func NewScanner(opts *Options, builder *fingerprint.Builder, comparator *fingerprint.Comparator) *Scanner {
	if opts == nil {
		opts = DefaultOptions()
	}

	return &Scanner{
		opts:       opts,
		builder:    builder,
		comparator: comparator,
		logger: logging.WithFields(logging.Fields{
			"component": "library_scanner",
		}),
	}
}

// Scan fingerprints the query file, fingerprints every matching file under
// dir in parallel, and returns matches above the configured threshold in
// descending similarity order.
func (s *Scanner) Scan(ctx context.Context, queryPath, dir string) (*Result, error) {
	start := time.Now()

	decoder := audio.NewDecoder()
	defer decoder.Close()

	queryBuf, err := decoder.DecodeFile(queryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode query: %w", err)
	}

	query := s.builder.Build(queryBuf)
	if query == nil {
		return nil, fmt.Errorf("query produced no fingerprint")
	}

	files, err := s.collectFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to walk library: %w", err)
	}

	s.logger.Info("Scanning library", logging.Fields{
		"query":       queryPath,
		"dir":         dir,
		"files":       len(files),
		"concurrency": s.opts.MaxConcurrency,
	})

	candidates, failed := s.fingerprintAll(ctx, decoder, files)

	matches := s.comparator.Rank(query, candidates)
	report := buildReport(query, matches, s.opts.MatchThreshold)

	filtered := matches[:0:0]
	for _, m := range matches {
		if m.Similarity >= s.opts.MatchThreshold {
			filtered = append(filtered, m)
		}
	}
	if s.opts.MaxResults > 0 && len(filtered) > s.opts.MaxResults {
		filtered = filtered[:s.opts.MaxResults]
	}

	return &Result{
		Query:     query,
		QueryPath: queryPath,
		Matches:   filtered,
		Report:    report,
		Scanned:   len(candidates),
		Failed:    failed,
		Elapsed:   time.Since(start),
	}, nil
}

// collectFiles walks dir and returns every regular file whose extension is
// in the configured set, sorted for deterministic scan order.
func (s *Scanner) collectFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, allowed := range s.opts.Extensions {
			if ext == allowed {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// fingerprintAll runs the builder over every file on a worker pool and
// returns fingerprints keyed by path, plus the count of files that failed
// to decode. A bad file is logged and skipped, never fatal to the batch.
func (s *Scanner) fingerprintAll(ctx context.Context, decoder *audio.Decoder, files []string) (map[string]*fingerprint.Fingerprint, int) {
	var progress *mpb.Progress
	var bar *mpb.Bar

	if s.opts.ShowProgress && len(files) > 0 {
		progress = mpb.New(mpb.WithWidth(64), mpb.WithOutput(os.Stderr))
		bar = progress.AddBar(int64(len(files)),
			mpb.PrependDecorators(
				decor.Name("Scanning: "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
			),
		)
	}

	jobs := make(chan string, len(files))
	for _, f := range files {
		jobs <- f
	}
	close(jobs)

	var mu sync.Mutex
	candidates := make(map[string]*fingerprint.Fingerprint, len(files))
	failed := 0

	var wg sync.WaitGroup
	for w := 0; w < s.opts.MaxConcurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for path := range jobs {
				if ctx.Err() != nil {
					return
				}

				buf, err := decoder.DecodeFile(path)
				if err != nil {
					s.logger.Warn("Skipping undecodable file", logging.Fields{
						"path":  path,
						"error": err.Error(),
					})
					mu.Lock()
					failed++
					mu.Unlock()
					if bar != nil {
						bar.Increment()
					}
					continue
				}

				fp := s.builder.Build(buf)

				mu.Lock()
				candidates[path] = fp
				mu.Unlock()

				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	wg.Wait()

	if progress != nil {
		bar.SetTotal(int64(len(files)), true)
		progress.Wait()
	}

	return candidates, failed
}
