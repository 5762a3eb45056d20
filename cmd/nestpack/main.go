// nestpack: irregular polygon nesting for sticker sheets
//
// Reads one JSON request from stdin (or stickers from a CSV/Excel/DXF file)
// and writes one JSON result to stdout. Progress goes to stderr. Exit code
// is 0 when the run succeeds, 1 otherwise.
//
// Build:
//   go build -o nestpack ./cmd/nestpack
//
// Usage:
//   nestpack < request.json > result.json
//   nestpack -input stickers.dxf -sheet-width 12 -sheet-height 12
//   nestpack -pdf layout.pdf -png preview.png < request.json

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/nestpack/internal/engine"
	"github.com/piwi3910/nestpack/internal/export"
	"github.com/piwi3910/nestpack/internal/gcode"
	"github.com/piwi3910/nestpack/internal/importer"
	"github.com/piwi3910/nestpack/internal/model"
	"github.com/piwi3910/nestpack/internal/project"
	"github.com/piwi3910/nestpack/internal/protocol"
)

// options collects the command-line surface.
type options struct {
	input       string
	sheetWidth  float64
	sheetHeight float64
	configPath  string
	pdf         string
	labels      string
	dxf         string
	xlsx        string
	png         string
	gcodePath   string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "", "read stickers from a CSV, XLSX or DXF file instead of stdin JSON")
	flag.Float64Var(&opts.sheetWidth, "sheet-width", 0, "sheet width in inches (with -input)")
	flag.Float64Var(&opts.sheetHeight, "sheet-height", 0, "sheet height in inches (with -input)")
	flag.StringVar(&opts.configPath, "config", project.DefaultConfigPath(), "path to the persisted defaults file")
	flag.StringVar(&opts.pdf, "pdf", "", "write a PDF layout report to this path")
	flag.StringVar(&opts.labels, "labels", "", "write QR-coded sticker labels (PDF) to this path")
	flag.StringVar(&opts.dxf, "dxf", "", "write cut outlines (DXF) to this path")
	flag.StringVar(&opts.xlsx, "xlsx", "", "write a placement schedule (XLSX) to this path")
	flag.StringVar(&opts.png, "png", "", "write sheet preview images (PNG) to this path")
	flag.StringVar(&opts.gcodePath, "gcode", "", "write cutter toolpaths (one file per sheet) to this path")
	flag.Parse()

	logger := log.New(os.Stderr, "[nestpack] ", 0)
	logger.Printf("run %s", uuid.New().String()[:8])

	start := time.Now()

	resp, err := run(logger, opts, start)
	if err != nil {
		logger.Printf("error: %v", err)
		resp = protocol.BuildErrorResponse(err, time.Since(start))
	}

	if encErr := protocol.Encode(os.Stdout, resp); encErr != nil {
		logger.Printf("error: failed to write response: %v", encErr)
		os.Exit(1)
	}
	if !resp.Success {
		os.Exit(1)
	}
}

func run(logger *log.Logger, opts options, start time.Time) (*protocol.Response, error) {
	appCfg, err := project.LoadAppConfig(opts.configPath)
	if err != nil {
		logger.Printf("ignoring unreadable defaults file %s: %v", opts.configPath, err)
		appCfg = project.DefaultAppConfig()
	}
	base := appCfg.Apply(model.DefaultNestConfig())

	var cfg model.NestConfig
	var items []*model.Item

	if opts.input != "" {
		cfg = base
		if opts.sheetWidth > 0 {
			cfg.SheetWidth = model.ToUnits(opts.sheetWidth)
		}
		if opts.sheetHeight > 0 {
			cfg.SheetHeight = model.ToUnits(opts.sheetHeight)
		}
		if cfg.SheetWidth <= 0 || cfg.SheetHeight <= 0 {
			return nil, &model.ConfigError{Msg: "sheet dimensions required: pass -sheet-width and -sheet-height or set them in the defaults file"}
		}
		items, err = importItems(logger, opts.input)
		if err != nil {
			return nil, err
		}
	} else {
		req, err := protocol.Decode(os.Stdin)
		if err != nil {
			return nil, err
		}
		cfg = req.ConfigWith(base)
		items = req.Items()
	}

	logger.Printf("%d stickers, sheet %.2f x %.2f in, spacing %.4f in, rotations %v",
		len(items), model.ToInches(cfg.SheetWidth), model.ToInches(cfg.SheetHeight),
		model.ToInches(cfg.Spacing), cfg.Rotations)

	nester, err := engine.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	res, err := nester.Run(items)
	if err != nil {
		return nil, err
	}

	layout := &export.Layout{
		SheetWidth:  cfg.SheetWidth,
		SheetHeight: cfg.SheetHeight,
		Result:      res,
		Items:       items,
	}
	writeExports(logger, layout, opts)

	return protocol.BuildResponse(res, time.Since(start)), nil
}

// importItems loads stickers from a file, dispatching on the extension.
func importItems(logger *log.Logger, path string) ([]*model.Item, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xls":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path)
	default:
		return nil, &model.ConfigError{Msg: fmt.Sprintf("unsupported input format %q", filepath.Ext(path))}
	}

	for _, w := range result.Warnings {
		logger.Printf("import: %s", w)
	}
	if len(result.Errors) > 0 {
		return nil, &model.ConfigError{Msg: "import failed: " + strings.Join(result.Errors, "; ")}
	}
	if len(result.Items) == 0 {
		return nil, &model.ConfigError{Msg: "no stickers found in " + path}
	}
	logger.Printf("imported %d stickers from %s", len(result.Items), path)
	return result.Items, nil
}

// writeExports renders the optional output files. Export failures are
// logged but never change the JSON contract or the exit code.
func writeExports(logger *log.Logger, layout *export.Layout, opts options) {
	targets := []struct {
		path string
		name string
		fn   func(string, *export.Layout) error
	}{
		{opts.pdf, "pdf", export.ExportPDF},
		{opts.labels, "labels", export.ExportLabels},
		{opts.dxf, "dxf", export.ExportDXF},
		{opts.xlsx, "xlsx", export.ExportXLSX},
		{opts.png, "png", export.ExportPNG},
	}
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		if err := t.fn(t.path, layout); err != nil {
			logger.Printf("%s export failed: %v", t.name, err)
			continue
		}
		logger.Printf("wrote %s", t.path)
	}

	if opts.gcodePath != "" {
		if err := writeGCode(layout, opts.gcodePath); err != nil {
			logger.Printf("gcode export failed: %v", err)
		} else {
			logger.Printf("wrote %s", opts.gcodePath)
		}
	}
}

// writeGCode emits one toolpath file per sheet. With multiple sheets the
// bin index is appended before the extension.
func writeGCode(layout *export.Layout, path string) error {
	bins := layout.Bins()
	if len(bins) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	gen := gcode.New(gcode.DefaultSettings())
	codes := gen.GenerateAll(bins, layout.SheetWidthIn(), layout.SheetHeightIn())

	for i, code := range codes {
		out := path
		if len(codes) > 1 {
			ext := filepath.Ext(path)
			out = strings.TrimSuffix(path, ext) + fmt.Sprintf("-%d", i+1) + ext
		}
		if err := os.WriteFile(out, []byte(code), 0644); err != nil {
			return err
		}
	}
	return nil
}
