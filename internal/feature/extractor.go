package feature

import (
	"math"
	"strconv"
	"strings"

	"github.com/labauto/pathovar/internal/vcf"
)

// Vector is one extracted feature vector, field-for-field the active schema.
type Vector struct {
	Pos         int64
	RefLen      int
	AltLen      int
	IsSNP       bool
	IsIndel     bool
	IsDeletion  bool
	IsInsertion bool
	Qual        float64
	CADD        float64
	AF          float64
	DP          float64
	GnomADAF    float64
	SpliceScore float64
}

// Values returns the vector as a numeric row in SchemaV1 field order, with
// booleans encoded as 0/1. Absent values are NaN per the schema fill policy.
func (v Vector) Values() []float64 {
	return []float64{
		float64(v.Pos),
		float64(v.RefLen),
		float64(v.AltLen),
		b2f(v.IsSNP),
		b2f(v.IsIndel),
		b2f(v.IsDeletion),
		b2f(v.IsInsertion),
		v.Qual,
		v.CADD,
		v.AF,
		v.DP,
		v.GnomADAF,
		v.SpliceScore,
	}
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Extract computes the feature vector for a variant. Pure: output depends
// only on the record and its parsed annotations.
//
// Numeric annotations parse as float64; absent or unparsable values fill to
// NaN. Pipe-delimited multi-value annotations reduce by maximum over the
// parseable tokens. Structural features derive from REF/ALT lengths only.
func Extract(v *vcf.Variant, info vcf.InfoAnnotations) Vector {
	qual := math.NaN()
	if v.HasQual {
		qual = v.Qual
	}

	return Vector{
		Pos:         v.Pos,
		RefLen:      len(v.Ref),
		AltLen:      len(v.Alt),
		IsSNP:       v.IsSNP(),
		IsIndel:     v.IsIndel(),
		IsDeletion:  v.IsDeletion(),
		IsInsertion: v.IsInsertion(),
		Qual:        qual,
		CADD:        numeric(info, "CADD"),
		AF:          numeric(info, "AF"),
		DP:          numeric(info, "DP"),
		GnomADAF:    numeric(info, "gnomAD_AF"),
		SpliceScore: maxOfList(info, "SpliceAI"),
	}
}

// numeric looks up a single-valued numeric annotation.
func numeric(info vcf.InfoAnnotations, key string) float64 {
	raw, ok := info[key]
	if !ok {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return math.NaN()
	}
	return f
}

// maxOfList reduces a pipe-delimited multi-value annotation to its maximum
// parseable token. Literal "nan" tokens and other non-numeric entries are
// filtered; if nothing parses, the result is NaN.
func maxOfList(info vcf.InfoAnnotations, key string) float64 {
	raw, ok := info[key]
	if !ok {
		return math.NaN()
	}

	best := math.NaN()
	for _, tok := range strings.Split(raw, "|") {
		f, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil || math.IsNaN(f) {
			continue
		}
		if math.IsNaN(best) || f > best {
			best = f
		}
	}
	return best
}
