// Command placectl runs a placement search from the command line on a random
// demo item set or on items read from a CSV or Excel file.
//
// Usage:
//
//	placectl [flags]
//	placectl -input items.csv -width 12 -height 8 -pdf layout.pdf
//
// Runs are persisted to MongoDB when MONGODB_ENABLED is true.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/app"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/export"
	"github.com/guttosm/placement-service/internal/generator"
	"github.com/guttosm/placement-service/internal/importer"
	"github.com/guttosm/placement-service/internal/logger"
	"github.com/guttosm/placement-service/internal/placement"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/rs/zerolog/log"
)

// Exit codes.
const (
	exitSolved    = 0
	exitError     = 1
	exitExhausted = 2
)

type options struct {
	width, height int
	input         string
	seed          uint64
	gen           generator.Config
	maxIterations int
	timeout       time.Duration
	failFast      bool
	pdfPath       string
	dxfPath       string
	logLevel      string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSolved
		}
		return exitError
	}

	logger.Init(opts.logLevel, true)

	items, labels, err := loadItems(opts)
	if err != nil {
		fmt.Fprintf(stderr, "placectl: %v\n", err)
		return exitError
	}

	printItems(stdout, items)

	svcOpts := []service.PlacementOption{
		service.WithMaxIterations(opts.maxIterations),
		service.WithSearchTimeout(opts.timeout),
		service.WithFailFast(opts.failFast),
	}

	cfg := config.Load()
	if db := app.InitializeDatabase(cfg.Database); db != nil {
		defer func() { _ = db.DB.Close(context.Background()) }()
		svcOpts = append(svcOpts, service.WithLayoutStore(db.LayoutService))
	}

	layout, err := service.NewPlacementService(svcOpts...).Search(context.Background(), service.SearchInput{
		Width:  opts.width,
		Height: opts.height,
		Items:  items,
		Labels: labels,
		Source: model.SourceCLI,
	})
	if err != nil {
		fmt.Fprintf(stderr, "placectl: %v\n", err)
		return exitError
	}

	if !layout.Solved() {
		fmt.Fprintln(stdout, "\nNo solution found.")
		if layout.BudgetExceeded {
			fmt.Fprintf(stdout, "Search stopped after %d iterations.\n", layout.Iterations)
		}
		return exitExhausted
	}

	if err := printLayout(stdout, layout); err != nil {
		fmt.Fprintf(stderr, "placectl: %v\n", err)
		return exitError
	}

	if err := writeExports(opts, layout); err != nil {
		fmt.Fprintf(stderr, "placectl: %v\n", err)
		return exitError
	}
	return exitSolved
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("placectl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	gen := generator.DefaultConfig()
	var opts options
	fs.IntVar(&opts.width, "width", 20, "area width in cells")
	fs.IntVar(&opts.height, "height", 15, "area height in cells")
	fs.StringVar(&opts.input, "input", "", "CSV or XLSX item file; a random set is generated when empty")
	fs.Uint64Var(&opts.seed, "seed", uint64(time.Now().UnixNano()), "seed of the random item set")
	fs.IntVar(&gen.Rectangles, "rectangles", gen.Rectangles, "number of random rectangles")
	fs.IntVar(&gen.Squares, "squares", gen.Squares, "number of random squares")
	fs.IntVar(&gen.MinSide, "min-side", gen.MinSide, "smallest random side")
	fs.IntVar(&gen.MaxSide, "max-side", gen.MaxSide, "largest random side")
	fs.IntVar(&opts.maxIterations, "max-iterations", 200000, "iteration budget, 0 for none")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "search deadline, 0 for none")
	fs.BoolVar(&opts.failFast, "fail-fast", false, "reject items that fit in no orientation")
	fs.StringVar(&opts.pdfPath, "pdf", "", "write the layout as PDF to this path")
	fs.StringVar(&opts.dxfPath, "dxf", "", "write the layout as DXF to this path")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.gen = gen
	return opts, nil
}

func loadItems(opts options) ([]placement.Item, []string, error) {
	if opts.input == "" {
		items, err := generator.Generate(generator.NewRand(opts.seed), opts.gen)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Uint64("seed", opts.seed).Int("items", len(items)).Msg("generated item set")
		return items, nil, nil
	}

	f, err := os.Open(opts.input)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	res, err := importer.Import(opts.input, f)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range res.Warnings {
		log.Warn().Str("file", opts.input).Msg(w)
	}
	if err := res.Err(); err != nil {
		return nil, nil, fmt.Errorf("import %s: %w", opts.input, err)
	}
	return res.Items, res.Labels, nil
}

func printItems(w io.Writer, items []placement.Item) {
	fmt.Fprintln(w, "Objects:")
	for _, it := range items {
		kind := "Rectangle"
		if it.IsSquare {
			kind = "Square"
		}
		fmt.Fprintf(w, "ID: %d, Type: %s, Dimensions: %dx%d\n", it.ID, kind, it.Width, it.Height)
	}
}

func printLayout(w io.Writer, layout model.LayoutResult) error {
	fmt.Fprintln(w, "\nSolution found!")
	fmt.Fprintf(w, "Placed %d objects\n", len(layout.Placements))
	for _, p := range layout.Placements {
		fmt.Fprintf(w, "Object %d: Position (%d, %d), Dimensions %dx%d, Rotated: %t\n",
			p.ID, p.X, p.Y, p.Width, p.Height, p.Rotated)
	}
	fmt.Fprintf(w, "Area dimensions: %dx%d\n", layout.AreaWidth, layout.AreaHeight)
	fmt.Fprintf(w, "Run: %s (%d iterations, %.1f ms)\n", layout.ID, layout.Iterations, layout.DurationMs)
	if len(layout.UtilizationPath) > 0 {
		fmt.Fprint(w, "Utilization by step:")
		for _, u := range layout.UtilizationPath {
			fmt.Fprintf(w, " %.1f%%", u*100)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "\nPlacement visualization:")
	return export.WriteText(w, layout)
}

func writeExports(opts options, layout model.LayoutResult) error {
	if opts.pdfPath != "" {
		if err := export.ExportPDF(opts.pdfPath, layout); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", opts.pdfPath).Msg("PDF written")
	}
	if opts.dxfPath != "" {
		if err := export.ExportDXF(opts.dxfPath, layout); err != nil {
			return fmt.Errorf("write dxf: %w", err)
		}
		log.Info().Str("path", opts.dxfPath).Msg("DXF written")
	}
	return nil
}
