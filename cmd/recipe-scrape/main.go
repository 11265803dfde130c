package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/engine"
	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/scraper"
	"github.com/DDDesignDev/homelab/sites"
)

type options struct {
	Timeout time.Duration `short:"t" long:"timeout" default:"20s" description:"Fetch timeout per URL"`
	Engine  string        `short:"e" long:"engine" default:"http" choice:"http" choice:"browser" description:"Fetch engine"`
	JSON    bool          `long:"json" description:"Print full results as JSON instead of a summary table"`
	Output  string        `short:"o" long:"output" description:"Also write the JSON results to this file"`
	Verbose bool          `short:"v" long:"verbose" description:"Log fetch details to stderr"`

	Args struct {
		URLs []string `positional-arg-name:"url" required:"1"`
	} `positional-args:"yes"`
}

// result is the outcome of scraping one URL.
type result struct {
	URL       string                   `json:"url"`
	Success   bool                     `json:"success"`
	ElapsedMs int64                    `json:"elapsed_ms"`
	Recipe    *models.NormalizedRecipe `json:"recipe,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

type recipeScraper interface {
	ScrapeRecipe(ctx context.Context, url string, timeout time.Duration) (*models.NormalizedRecipe, error)
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] url..."
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	logCfg := config.LogConfig{Level: "warn", Format: "text"}
	if opts.Verbose {
		logCfg.Level = "debug"
	}
	slog.SetDefault(config.NewLogger(logCfg, os.Stderr))

	cfg := config.Load(0)
	cfg.Scraper.FetchMode = opts.Engine

	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if closer, ok := eng.(interface{ Close() }); ok {
		defer closer.Close()
	}
	sc := scraper.New(eng, sites.DefaultRegistry(), nil, cfg.Scraper)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results := scrapeAll(ctx, sc, opts.Args.URLs, opts.Timeout)

	if opts.JSON {
		err = writeJSON(os.Stdout, results)
	} else {
		err = printTable(os.Stdout, results)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		if err := writeFile(opts.Output, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", opts.Output, err)
			os.Exit(1)
		}
	}

	for _, r := range results {
		if !r.Success {
			os.Exit(1)
		}
	}
}

// scrapeAll scrapes urls one at a time, stopping early if ctx is cancelled.
func scrapeAll(ctx context.Context, sc recipeScraper, urls []string, timeout time.Duration) []result {
	results := make([]result, 0, len(urls))
	for _, u := range urls {
		if ctx.Err() != nil {
			results = append(results, result{URL: u, Error: ctx.Err().Error()})
			continue
		}

		start := time.Now()
		recipe, err := sc.ScrapeRecipe(ctx, u, timeout)
		r := result{URL: u, ElapsedMs: time.Since(start).Milliseconds()}
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Success = true
			r.Recipe = recipe
		}
		results = append(results, r)
	}
	return results
}

func printTable(w io.Writer, results []result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tTITLE\tINGREDIENTS\tSTEPS\tNUTRITION\tMS")
	for _, r := range results {
		if !r.Success {
			fmt.Fprintf(tw, "%s\tFAILED: %s\t-\t-\t-\t%d\n", r.URL, r.Error, r.ElapsedMs)
			continue
		}
		title := "-"
		if r.Recipe.Title != nil {
			title = *r.Recipe.Title
		}
		nutrition := "no"
		if len(r.Recipe.Nutrition) > 0 {
			nutrition = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\n",
			r.URL, title, len(r.Recipe.Ingredients), len(r.Recipe.Instructions), nutrition, r.ElapsedMs)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, results []result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeFile(path string, results []result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
