package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/labauto/pathovar/internal/vcf"
)

func extractFromInfo(t *testing.T, v *vcf.Variant, infoStr string) Vector {
	t.Helper()
	info, _ := vcf.ParseInfo(infoStr)
	return Extract(v, info)
}

func TestExtract_NumericAnnotations(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}
	vec := extractFromInfo(t, v, "CADD=12.3;AF=0.001;DP=55")

	assert.Equal(t, 12.3, vec.CADD)
	assert.Equal(t, 0.001, vec.AF)
	assert.Equal(t, 55.0, vec.DP)
}

func TestExtract_MissingAnnotationsFillNaN(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}
	vec := extractFromInfo(t, v, "DP=10")

	assert.True(t, math.IsNaN(vec.CADD), "missing CADD must fill to NaN")
	assert.True(t, math.IsNaN(vec.AF), "missing AF must fill to NaN")
	assert.Equal(t, 10.0, vec.DP)
}

func TestExtract_UnparsableNumericTreatedAsAbsent(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}
	vec := extractFromInfo(t, v, "CADD=high;DP=55")

	assert.True(t, math.IsNaN(vec.CADD))
	assert.Equal(t, 55.0, vec.DP)
}

func TestExtract_SNP(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}
	vec := extractFromInfo(t, v, ".")

	assert.True(t, vec.IsSNP)
	assert.False(t, vec.IsIndel)
	assert.False(t, vec.IsDeletion)
	assert.False(t, vec.IsInsertion)
	assert.Equal(t, 1, vec.RefLen)
	assert.Equal(t, 1, vec.AltLen)
}

func TestExtract_Deletion(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "AG", Alt: "A"}
	vec := extractFromInfo(t, v, ".")

	assert.True(t, vec.IsIndel)
	assert.True(t, vec.IsDeletion)
	assert.False(t, vec.IsInsertion)
	assert.False(t, vec.IsSNP)
}

func TestExtract_StructuralConsistency(t *testing.T) {
	pairs := []struct{ ref, alt string }{
		{"A", "T"}, {"AG", "A"}, {"A", "AGG"}, {"AT", "GC"},
		{"ATTT", "A"}, {"C", "CCCCC"}, {"GATTACA", "GATTACA"},
	}

	for _, p := range pairs {
		v := &vcf.Variant{Ref: p.ref, Alt: p.alt}
		vec := extractFromInfo(t, v, ".")

		// is_deletion and is_insertion are mutually exclusive, both false
		// exactly when lengths are equal.
		assert.False(t, vec.IsDeletion && vec.IsInsertion,
			"%s>%s: deletion and insertion are mutually exclusive", p.ref, p.alt)
		if len(p.ref) == len(p.alt) {
			assert.False(t, vec.IsDeletion || vec.IsInsertion,
				"%s>%s: equal lengths mean neither deletion nor insertion", p.ref, p.alt)
			assert.False(t, vec.IsIndel, "%s>%s", p.ref, p.alt)
		} else {
			assert.True(t, vec.IsIndel, "%s>%s: differing lengths mean indel", p.ref, p.alt)
			assert.False(t, vec.IsSNP, "%s>%s", p.ref, p.alt)
		}
	}
}

func TestExtract_SpliceScoreMaxOverPipeList(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}

	vec := extractFromInfo(t, v, "SpliceAI=0.1|nan|0.85|0.2")
	assert.Equal(t, 0.85, vec.SpliceScore)

	vec = extractFromInfo(t, v, "SpliceAI=nan|nan")
	assert.True(t, math.IsNaN(vec.SpliceScore), "all-non-numeric list must fill to NaN")

	vec = extractFromInfo(t, v, "DP=10")
	assert.True(t, math.IsNaN(vec.SpliceScore), "missing list must fill to NaN")
}

func TestExtract_QualAbsent(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}
	vec := extractFromInfo(t, v, ".")
	assert.True(t, math.IsNaN(vec.Qual))

	v.Qual = 42.5
	v.HasQual = true
	vec = extractFromInfo(t, v, ".")
	assert.Equal(t, 42.5, vec.Qual)
}

func TestExtract_CanonicalGnomADCasing(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}

	vec := extractFromInfo(t, v, "gnomAD_AF=0.02")
	assert.Equal(t, 0.02, vec.GnomADAF)

	// The drifted lowercase key from sibling implementations is not a
	// silent alias; only the canonical key binds.
	vec = extractFromInfo(t, v, "gnomad_AF=0.02")
	assert.True(t, math.IsNaN(vec.GnomADAF))
}

func TestExtract_Deterministic(t *testing.T) {
	v := &vcf.Variant{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A", Qual: 50, HasQual: true}
	info, _ := vcf.ParseInfo("CADD=25.1;AF=0.0001;DP=40;SpliceAI=0.3|0.1")

	first := Extract(v, info)
	second := Extract(v, info)
	assert.Equal(t, first, second, "identical inputs must produce bit-identical vectors")
	assert.Equal(t, first.Values(), second.Values())
}

func TestVectorValues_SchemaOrder(t *testing.T) {
	v := &vcf.Variant{Chrom: "1", Pos: 7, Ref: "AG", Alt: "A", Qual: 9, HasQual: true}
	vec := extractFromInfo(t, v, "CADD=1;AF=2;DP=3;gnomAD_AF=4;SpliceAI=5")

	values := vec.Values()
	assert.Len(t, values, SchemaV1.NumFeatures())

	// POS, REF_LEN, ALT_LEN, is_snp, is_indel, is_deletion, is_insertion,
	// QUAL, CADD, AF, DP, gnomAD_AF, splice_score
	assert.Equal(t, []float64{7, 2, 1, 0, 1, 1, 0, 9, 1, 2, 3, 4, 5}, values)
}
