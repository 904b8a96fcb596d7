// Package table builds and persists the per-variant feature table.
package table

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/labauto/pathovar/internal/feature"
	"github.com/labauto/pathovar/internal/vcf"
)

// ErrEmptyResult reports a build that produced zero usable rows.
var ErrEmptyResult = errors.New("feature table is empty: no usable variant records")

// Row is one variant's entry in the feature table: the extracted vector plus
// the CHROM/ID passthrough columns and, for labeled tables, the derived
// pathogenicity label.
type Row struct {
	Chrom  string
	ID     string
	Vector feature.Vector
	Label  int
}

// Stats summarizes a build: rows produced, malformed records skipped by the
// reader, and non-fatal INFO parse warnings.
type Stats struct {
	Rows           int
	RecordsSkipped int
	InfoWarnings   int
}

// Table is the assembled feature table. Column set and order follow the
// schema; the table is immutable once built.
type Table struct {
	Schema  feature.Schema
	Labeled bool
	Rows    []Row
	Stats   Stats
}

// Matrix returns the numeric feature matrix in schema column order.
func (t *Table) Matrix() [][]float64 {
	m := make([][]float64, len(t.Rows))
	for i, r := range t.Rows {
		m[i] = r.Vector.Values()
	}
	return m
}

// Labels returns the label column. Only meaningful when Labeled is true.
func (t *Table) Labels() []int {
	y := make([]int, len(t.Rows))
	for i, r := range t.Rows {
		y[i] = r.Label
	}
	return y
}

// Builder streams variants through the shared extractor into a Table.
type Builder struct {
	schema     feature.Schema
	withLabels bool
	logger     *zap.Logger
}

// NewBuilder creates a builder for the given schema. When withLabels is set,
// each row also carries the CLNSIG-derived pathogenicity label.
func NewBuilder(schema feature.Schema, withLabels bool) *Builder {
	return &Builder{
		schema:     schema,
		withLabels: withLabels,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build consumes the reader once, row at a time, and assembles the table.
// Returns ErrEmptyResult when no usable rows were produced.
func (b *Builder) Build(r *vcf.Reader) (*Table, error) {
	t := &Table{
		Schema:  b.schema,
		Labeled: b.withLabels,
	}

	for {
		v, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}

		info, warnings := vcf.ParseInfo(v.Info)
		t.Stats.InfoWarnings += warnings

		row := Row{
			Chrom:  v.Chrom,
			ID:     v.ID,
			Vector: feature.Extract(v, info),
		}
		if b.withLabels {
			row.Label = feature.LabelFromCLNSIG(info)
		}
		t.Rows = append(t.Rows, row)
	}

	t.Stats.Rows = len(t.Rows)
	t.Stats.RecordsSkipped = r.Skipped()

	if t.Stats.Rows == 0 {
		return nil, ErrEmptyResult
	}

	b.logger.Info("feature table built",
		zap.String("schema", b.schema.Version),
		zap.Int("rows", t.Stats.Rows),
		zap.Int("records_skipped", t.Stats.RecordsSkipped),
		zap.Int("info_warnings", t.Stats.InfoWarnings))

	return t, nil
}
