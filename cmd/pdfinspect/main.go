// Command pdfinspect prints the structure of a PDF file: its version, page
// sizes, selected objects and the operators used by each page.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/term"

	"github.com/tsawler/pdfnative/contentstream"
	"github.com/tsawler/pdfnative/reader"
	"github.com/tsawler/pdfnative/resolver"
)

type config struct {
	optionsFile string
	verbose     bool
	objects     []int
	operators   bool
}

func main() {
	flag.CommandLine.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [options] <file.pdf>\n\nOptions:\n",
			filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}

	var cfg config
	flag.StringVar(&cfg.optionsFile, "config", "", "YAML file with reader options")
	flag.BoolVar(&cfg.verbose, "v", false, "log at debug level")
	flag.BoolVar(&cfg.operators, "ops", false, "count content stream operators per page")
	flag.Func("obj", "dump object `id` with references expanded (repeatable)", func(s string) error {
		var id int
		if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
			return fmt.Errorf("invalid object id %q", s)
		}
		cfg.objects = append(cfg.objects, id)
		return nil
	})
	flag.Parse()

	if flag.NArg() != 1 {
		flag.CommandLine.Usage()
		os.Exit(2)
	}

	if err := run(os.Stdout, os.Stderr, flag.Arg(0), cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(stdout, stderr io.Writer, path string, cfg config) error {
	opts := reader.DefaultOptions()
	if cfg.optionsFile != "" {
		var err error
		opts, err = reader.LoadOptionsFile(cfg.optionsFile)
		if err != nil {
			return err
		}
	}
	level, err := opts.Level()
	if err != nil {
		return err
	}
	if cfg.verbose {
		level = slog.LevelDebug
	}
	opts.Logger = newLogger(stderr, level)

	doc, err := reader.Open(path, reader.WithOptions(opts))
	if err != nil {
		return err
	}

	printSummary(stdout, doc)

	for _, id := range cfg.objects {
		obj, err := resolver.NewResolver(doc, resolver.WithKeepCycles()).Object(id)
		if err != nil {
			fmt.Fprintf(stdout, "object %d: %v\n", id, err)
			continue
		}
		fmt.Fprintf(stdout, "object %d: %s\n", id, obj)
	}

	if cfg.operators {
		for i := 0; i < doc.Pages(); i++ {
			counts := countOperators(contentstream.Parse(doc.TokenizerOfPage(i)))
			fmt.Fprintf(stdout, "page %d operators:", i+1)
			for _, op := range slices.Sorted(maps.Keys(counts)) {
				fmt.Fprintf(stdout, " %s=%d", op, counts[op])
			}
			fmt.Fprintln(stdout)
		}
	}

	if doc.Pages() == 0 {
		return errors.New("no pages found")
	}
	return nil
}

// newLogger writes text to a terminal and JSON otherwise.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

func printSummary(w io.Writer, doc *reader.Document) {
	fmt.Fprintf(w, "version: %s\n", doc.Version())
	fmt.Fprintf(w, "objects: %d\n", doc.Len())
	if title, ok := doc.InfoText("Title"); ok {
		fmt.Fprintf(w, "title: %s\n", title)
	}
	if lang := doc.Language(); lang.String() != "und" {
		fmt.Fprintf(w, "language: %s\n", lang)
	}
	fmt.Fprintf(w, "pages: %d\n", doc.Pages())
	for i := 0; i < doc.Pages(); i++ {
		page, _ := doc.Page(i)
		box := doc.MediaBox(i)
		fmt.Fprintf(w, "  page %d: %gx%g rotate=%d ref=%s\n",
			i+1, box.Dx(), box.Dy(), page.Rotate(), page.Ref)
	}
	fmt.Fprintf(w, "memory: %d bytes\n", doc.BytesUsed())
}

func countOperators(ops []contentstream.Operation) map[string]int {
	counts := make(map[string]int)
	for _, op := range ops {
		counts[op.Operator]++
	}
	return counts
}
