// Package vcf provides streaming VCF record reading and INFO field parsing.
package vcf

// Variant represents a single genomic variant from a VCF data line.
// Only the eight fixed leading columns are captured; sample columns are
// out of scope for this pipeline.
type Variant struct {
	Chrom   string  // Chromosome name (e.g., "12", "chr12")
	Pos     int64   // 1-based genomic position
	ID      string  // Variant identifier (e.g., rs ID), "." if absent
	Ref     string  // Reference allele
	Alt     string  // Alternate allele
	Qual    float64 // Quality score; only meaningful when HasQual is true
	HasQual bool    // False when the QUAL column is "." or unparsable
	Filter  string  // Filter status (PASS or filter name)
	Info    string  // Raw INFO column, parsed separately via ParseInfo
}

// IsSNP returns true if the variant is a single nucleotide polymorphism.
func (v *Variant) IsSNP() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IsInsertion returns true if the variant is an insertion.
func (v *Variant) IsInsertion() bool {
	return len(v.Alt) > len(v.Ref)
}

// IsDeletion returns true if the variant is a deletion.
func (v *Variant) IsDeletion() bool {
	return len(v.Ref) > len(v.Alt)
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}
