package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/pysearch/pysearch/pkg/index"
	"github.com/pysearch/pysearch/pkg/installed"
	"github.com/pysearch/pysearch/pkg/reqfile"
	"github.com/pysearch/pysearch/pkg/search"
)

// NoMatchesExitCode is the process exit status when the search ran
// successfully but matched nothing, so scripts can tell "no results"
// apart from failures.
const NoMatchesExitCode = 23

// ErrNoMatches is returned when a search completes with zero hits.
var ErrNoMatches = errors.New("no matches found")

// searchOpts holds the command-line flags for the search.
type searchOpts struct {
	index   string   // index endpoint URL override
	files   []string // requirement files; take precedence over query args
	noCache bool     // disable the response cache
	refresh bool     // bypass cached responses
}

// runSearch executes the search and prints the report.
func (c *CLI) runSearch(ctx context.Context, args []string, opts *searchOpts) error {
	if len(args) == 0 && len(opts.files) == 0 {
		return errors.New("missing required argument (search query or files)")
	}

	cfg := loadConfig(c.Logger)
	indexURL := opts.index
	if indexURL == "" {
		indexURL = cfg.Index
	}

	backend := c.newBackend(ctx, cfg, opts.noCache)
	defer backend.Close()
	client := index.NewClient(indexURL, backend, cfg.CacheTTL(), opts.refresh)

	spin := startSpinner(ctx, "Searching "+indexURL)
	hits, err := c.fetchHits(ctx, client, args, opts.files)
	spin.Stop()
	if err != nil {
		return err
	}

	packages := search.Aggregate(hits)
	renderer := &search.Renderer{Installed: installed.Discover(ctx)}
	for _, line := range renderer.Render(packages, terminalWidth()) {
		fmt.Println(line)
	}

	if len(hits) == 0 {
		return ErrNoMatches
	}
	return nil
}

// fetchHits issues the remote lookups. Requirement files take precedence
// over free-text query terms when both are supplied.
func (c *CLI) fetchHits(ctx context.Context, client *index.Client, args, files []string) ([]search.Hit, error) {
	if len(files) > 0 {
		return c.searchFromFiles(ctx, client, files)
	}
	c.Logger.Debugf("Querying index for %v", args)
	return client.Search(ctx, args)
}

// searchFromFiles resolves each requirement entry to one hit: the pinned
// version when the specifier has one, otherwise the latest release.
// Entries the index has no data for contribute nothing.
func (c *CLI) searchFromFiles(ctx context.Context, client *index.Client, files []string) ([]search.Hit, error) {
	var hits []search.Hit
	for _, path := range files {
		entries, err := reqfile.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("read requirements %s: %w", path, err)
		}
		c.Logger.Debugf("Resolving %d requirements from %s", len(entries), path)

		for _, entry := range entries {
			version, pinned := entry.Pinned()
			if !pinned {
				version, err = client.LatestRelease(ctx, entry.Name)
				if errors.Is(err, index.ErrNotFound) {
					c.Logger.Debugf("No releases for %s, skipping", entry.Name)
					continue
				}
				if err != nil {
					return nil, err
				}
			}

			hit, ok, err := client.ReleaseData(ctx, entry.Name, version)
			if err != nil {
				return nil, err
			}
			if ok {
				hits = append(hits, hit)
			}
		}
	}
	return hits, nil
}

// terminalWidth returns the stdout width, or 0 when stdout is not a
// terminal (summaries are then left unwrapped).
func terminalWidth() int {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(int(fd))
	if err != nil {
		return 0
	}
	return width
}

// startSpinner shows a progress spinner on stderr while the remote call
// is in flight, but only when stderr is a terminal.
func startSpinner(ctx context.Context, message string) *Spinner {
	s := newSpinnerWithContext(ctx, message)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		s.Start()
	}
	return s
}
