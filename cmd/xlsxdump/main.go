// Package main provides the CLI entry point for xlsxdump.
package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tabledata/xlsxcache/pkg/xlsxcache"
	"github.com/tabledata/xlsxcache/pkg/xlsxcache/models"
	"github.com/tabledata/xlsxcache/pkg/xlsxcache/output"
	"golang.org/x/sync/errgroup"
)

var (
	outputPath string
	pretty     bool
	format     string
	sheetName  string
	listOnly   bool
	sheetsDir  string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlsxdump [workbook.xlsx]",
		Short: "Decode spreadsheet workbooks and dump their contents",
		Long: `xlsxdump decodes a zip-packaged spreadsheet workbook into rows of
typed cells and outputs JSON or CSV.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().StringVar(&format, "format", "json", "Output format: json, csv")
	rootCmd.Flags().StringVarP(&sheetName, "sheet", "n", "", "Dump a single sheet by name")
	rootCmd.Flags().BoolVar(&listOnly, "list", false, "List sheet names and exit")
	rootCmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Log decode diagnostics to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	if format != "json" && format != "csv" {
		return fmt.Errorf("invalid format: %s (must be json or csv)", format)
	}

	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	registry := xlsxcache.New(xlsxcache.Options{Logger: logger})
	if err := registry.Open(inputPath); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if listOnly {
		names, err := registry.SheetNames(inputPath)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	book, err := registry.Workbook(inputPath)
	if err != nil {
		return err
	}

	// Write per-sheet files
	if sheetsDir != "" {
		return writeSheetFiles(book, sheetsDir)
	}

	data, err := render(book)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(data))
	return nil
}

// render serializes the whole workbook, or the sheet selected with
// --sheet.
func render(book *models.Workbook) ([]byte, error) {
	if sheetName != "" {
		sheet, ok := book.Sheets[sheetName]
		if !ok {
			return nil, fmt.Errorf("no sheet named %q in %s", sheetName, book.BookName)
		}
		return renderSheet(sheet, book.Strings)
	}
	if format == "csv" {
		return nil, fmt.Errorf("csv output requires --sheet or --sheets-dir")
	}
	return output.ToJSON(book, pretty)
}

func renderSheet(sheet models.Sheet, table models.StringTable) ([]byte, error) {
	if format == "csv" {
		var buf bytes.Buffer
		if err := output.WriteSheetCSV(&buf, sheet, table); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return output.SheetToJSON(sheet, pretty)
}

func writeSheetFiles(book *models.Workbook, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var g errgroup.Group
	for name, sheet := range book.Sheets {
		name, sheet := name, sheet
		g.Go(func() error {
			data, err := renderSheet(sheet, book.Strings)
			if err != nil {
				return fmt.Errorf("sheet %q: %w", name, err)
			}
			filename := filepath.Join(dir, name+"."+format)
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("sheet %q: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
