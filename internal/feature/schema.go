// Package feature defines the versioned feature schema and the extraction
// logic shared verbatim by the training-table builder and the serving path.
// Training/serving parity holds because both paths call the same Extract
// against the same Schema instance; there is no second implementation.
package feature

import (
	"fmt"
	"strings"
)

// Kind is the declared type of a schema field.
type Kind string

const (
	KindInt   Kind = "int"
	KindBool  Kind = "bool"
	KindFloat Kind = "float"
)

// Field is one declared feature: a canonical name and a type.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the single source of truth for feature names, order, types and
// the absent-value fill policy. Any change to the field list requires a new
// Version; a model trained against one version refuses vectors built against
// another.
type Schema struct {
	Version    string
	FillPolicy string // "nan": absent or unparsable numerics fill to NaN
	Fields     []Field
}

// SchemaV1 is the canonical schema. Field names and order are fixed;
// annotation keys follow the canonical casing (gnomAD_AF, not gnomad_AF).
var SchemaV1 = Schema{
	Version:    "v1",
	FillPolicy: "nan",
	Fields: []Field{
		{Name: "POS", Kind: KindInt},
		{Name: "REF_LEN", Kind: KindInt},
		{Name: "ALT_LEN", Kind: KindInt},
		{Name: "is_snp", Kind: KindBool},
		{Name: "is_indel", Kind: KindBool},
		{Name: "is_deletion", Kind: KindBool},
		{Name: "is_insertion", Kind: KindBool},
		{Name: "QUAL", Kind: KindFloat},
		{Name: "CADD", Kind: KindFloat},
		{Name: "AF", Kind: KindFloat},
		{Name: "DP", Kind: KindFloat},
		{Name: "gnomAD_AF", Kind: KindFloat},
		{Name: "splice_score", Kind: KindFloat},
	},
}

// FeatureNames returns the declared field names in schema order. This is the
// numeric matrix column order used by both training and inference.
func (s Schema) FeatureNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// NumFeatures returns the number of declared fields.
func (s Schema) NumFeatures() int {
	return len(s.Fields)
}

// Check compares this schema against an expected version and feature list.
// Returns a *SchemaMismatchError describing the divergence, or nil when they
// agree. Callers run this before inference, never relying on a shape
// mismatch deep inside the classifier.
func (s Schema) Check(version string, features []string) error {
	if s.Version != version {
		return &SchemaMismatchError{
			Expected: fmt.Sprintf("version %s", version),
			Observed: fmt.Sprintf("version %s", s.Version),
		}
	}

	names := s.FeatureNames()
	if len(names) != len(features) {
		return &SchemaMismatchError{
			Expected: fmt.Sprintf("%d features (%s)", len(features), strings.Join(features, ",")),
			Observed: fmt.Sprintf("%d features (%s)", len(names), strings.Join(names, ",")),
		}
	}
	for i := range names {
		if names[i] != features[i] {
			return &SchemaMismatchError{
				Expected: fmt.Sprintf("feature[%d]=%s", i, features[i]),
				Observed: fmt.Sprintf("feature[%d]=%s", i, names[i]),
			}
		}
	}
	return nil
}

// SchemaMismatchError reports a divergence between the feature schema a model
// was trained against and the schema the extractor would produce.
type SchemaMismatchError struct {
	Expected string
	Observed string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("feature schema mismatch: expected %s, observed %s", e.Expected, e.Observed)
}
