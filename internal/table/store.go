package table

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/labauto/pathovar/internal/feature"
)

// Store persists feature tables in a DuckDB database. The stored schema
// version is verified on read-back so a table built against one schema can
// never silently feed a model expecting another.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func OpenStore(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WriteTable replaces the stored feature table and schema descriptor with
// the given table's contents. Any previous table is dropped, so a rewrite
// can change the label-column shape.
func (s *Store) WriteTable(t *Table) error {
	if _, err := s.db.Exec(`DROP TABLE IF EXISTS features`); err != nil {
		return fmt.Errorf("drop features: %w", err)
	}
	if _, err := s.db.Exec(`DROP TABLE IF EXISTS schema_meta`); err != nil {
		return fmt.Errorf("drop schema_meta: %w", err)
	}
	if err := s.ensureSchema(t.Schema, t.Labeled); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO schema_meta (version, fill_policy, features) VALUES (?, ?, ?)`,
		t.Schema.Version, t.Schema.FillPolicy, strings.Join(t.Schema.FeatureNames(), ","))
	if err != nil {
		return fmt.Errorf("write schema_meta: %w", err)
	}

	stmt, err := tx.Prepare(insertSQL(t.Schema, t.Labeled))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := []any{row.Chrom, row.ID}
		values := row.Vector.Values()
		for i, f := range t.Schema.Fields {
			switch f.Kind {
			case feature.KindInt:
				args = append(args, int64(values[i]))
			case feature.KindBool:
				args = append(args, values[i] != 0)
			default:
				args = append(args, values[i])
			}
		}
		if t.Labeled {
			args = append(args, row.Label)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert feature row: %w", err)
		}
	}

	return tx.Commit()
}

// ReadTable reads the stored feature table back, verifying that the stored
// schema descriptor matches the given schema before any rows are scanned.
func (s *Store) ReadTable(schema feature.Schema) (*Table, error) {
	var version, fillPolicy, featureList string
	err := s.db.QueryRow(`SELECT version, fill_policy, features FROM schema_meta`).
		Scan(&version, &fillPolicy, &featureList)
	if err != nil {
		return nil, fmt.Errorf("read schema_meta: %w", err)
	}

	if err := schema.Check(version, strings.Split(featureList, ",")); err != nil {
		return nil, err
	}

	labeled, err := s.hasLabelColumn()
	if err != nil {
		return nil, err
	}

	cols := []string{`chrom`, `id`}
	for _, f := range schema.Fields {
		cols = append(cols, quoteIdent(f.Name))
	}
	if labeled {
		cols = append(cols, `is_pathogenic`)
	}

	rows, err := s.db.Query(fmt.Sprintf(`SELECT %s FROM features ORDER BY rowid`,
		strings.Join(cols, ", ")))
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	t := &Table{Schema: schema, Labeled: labeled}
	for rows.Next() {
		row, err := scanRow(rows, schema, labeled)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan features: %w", err)
	}

	t.Stats.Rows = len(t.Rows)
	return t, nil
}

// ExportParquet writes the stored feature table to a Parquet file.
func (s *Store) ExportParquet(path string) error {
	escaped := strings.ReplaceAll(path, "'", "''")
	_, err := s.db.Exec(fmt.Sprintf(`COPY features TO '%s' (FORMAT PARQUET)`, escaped))
	if err != nil {
		return fmt.Errorf("export parquet: %w", err)
	}
	return nil
}

// ensureSchema creates the features and schema_meta tables if they don't exist.
func (s *Store) ensureSchema(schema feature.Schema, labeled bool) error {
	cols := []string{`chrom VARCHAR`, `id VARCHAR`}
	for _, f := range schema.Fields {
		cols = append(cols, quoteIdent(f.Name)+" "+sqlType(f.Kind))
	}
	if labeled {
		cols = append(cols, `is_pathogenic INTEGER`)
	}

	if _, err := s.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS features (%s)`,
		strings.Join(cols, ", "))); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_meta (
		version VARCHAR,
		fill_policy VARCHAR,
		features VARCHAR
	)`)
	return err
}

func (s *Store) hasLabelColumn() (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT count(*) FROM information_schema.columns
		WHERE table_name = 'features' AND column_name = 'is_pathogenic'`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("inspect features columns: %w", err)
	}
	return count > 0, nil
}

func insertSQL(schema feature.Schema, labeled bool) string {
	cols := []string{`chrom`, `id`}
	for _, f := range schema.Fields {
		cols = append(cols, quoteIdent(f.Name))
	}
	if labeled {
		cols = append(cols, `is_pathogenic`)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf(`INSERT INTO features (%s) VALUES (%s)`,
		strings.Join(cols, ", "), placeholders)
}

func scanRow(rows *sql.Rows, schema feature.Schema, labeled bool) (Row, error) {
	var row Row
	var ints = make([]int64, len(schema.Fields))
	var bools = make([]bool, len(schema.Fields))
	var floats = make([]float64, len(schema.Fields))

	dest := []any{&row.Chrom, &row.ID}
	for i, f := range schema.Fields {
		switch f.Kind {
		case feature.KindInt:
			dest = append(dest, &ints[i])
		case feature.KindBool:
			dest = append(dest, &bools[i])
		default:
			dest = append(dest, &floats[i])
		}
	}
	if labeled {
		dest = append(dest, &row.Label)
	}

	if err := rows.Scan(dest...); err != nil {
		return Row{}, fmt.Errorf("scan feature row: %w", err)
	}

	row.Vector = feature.Vector{
		Pos:         ints[0],
		RefLen:      int(ints[1]),
		AltLen:      int(ints[2]),
		IsSNP:       bools[3],
		IsIndel:     bools[4],
		IsDeletion:  bools[5],
		IsInsertion: bools[6],
		Qual:        floats[7],
		CADD:        floats[8],
		AF:          floats[9],
		DP:          floats[10],
		GnomADAF:    floats[11],
		SpliceScore: floats[12],
	}
	return row, nil
}

func sqlType(k feature.Kind) string {
	switch k {
	case feature.KindInt:
		return "BIGINT"
	case feature.KindBool:
		return "BOOLEAN"
	default:
		return "DOUBLE"
	}
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}
