package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/labauto/pathovar/internal/feature"
	"github.com/labauto/pathovar/internal/table"
	"github.com/labauto/pathovar/internal/vcf"
)

func runExtract(args []string) int {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)

	var (
		outPath     string
		parquetPath string
		noLabels    bool
		maxSkipped  int
	)

	fs.StringVar(&outPath, "out", "data/features.duckdb", "Output DuckDB file path")
	fs.StringVar(&outPath, "o", "data/features.duckdb", "Output DuckDB file path (shorthand)")
	fs.StringVar(&parquetPath, "parquet", "", "Also export the table to a Parquet file (optional)")
	fs.BoolVar(&noLabels, "no-labels", false, "Skip the CLNSIG-derived pathogenicity label column")
	fs.IntVar(&maxSkipped, "max-skipped", viper.GetInt("extract.max_skipped"),
		"Malformed records tolerated before the read aborts")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Build a feature table from a ClinVar VCF.

Streams the (optionally gzip-compressed) VCF row by row through the shared
feature extractor and writes the resulting table to DuckDB.

Usage:
  pathovar extract [options] <vcf-file>

Arguments:
  <vcf-file>  Input VCF file, plain or gzip (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  pathovar extract clinvar_20250801.vcf.gz --out data/features.duckdb
  pathovar extract clinvar_20250801.vcf.gz -o data/features.duckdb --parquet data/features.parquet
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	inputPath := fs.Arg(0)

	reader, err := vcf.Open(inputPath, vcf.Options{MaxSkipped: maxSkipped})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	defer reader.Close()

	logger := newLogger()
	defer logger.Sync()

	builder := table.NewBuilder(feature.SchemaV1, !noLabels)
	builder.SetLogger(logger)

	tbl, err := builder.Build(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building feature table: %v\n", err)
		return ExitError
	}

	store, err := table.OpenStore(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening output store: %v\n", err)
		return ExitError
	}
	defer store.Close()

	if err := store.WriteTable(tbl); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing feature table: %v\n", err)
		return ExitError
	}

	if parquetPath != "" {
		if err := store.ExportParquet(parquetPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting parquet: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(os.Stderr, "Exported Parquet: %s\n", parquetPath)
	}

	fmt.Fprintf(os.Stderr, "Saved %d rows (%d records skipped, %d info warnings) -> %s\n",
		tbl.Stats.Rows, tbl.Stats.RecordsSkipped, tbl.Stats.InfoWarnings, outPath)

	return ExitSuccess
}
