package vcf

import "testing"

func TestVariantClassification(t *testing.T) {
	tests := []struct {
		name        string
		ref, alt    string
		isSNP       bool
		isIndel     bool
		isDeletion  bool
		isInsertion bool
	}{
		{"snp", "A", "T", true, false, false, false},
		{"deletion", "AG", "A", false, true, true, false},
		{"insertion", "A", "AGG", false, true, false, true},
		{"mnv_equal_len", "AT", "GC", false, false, false, false},
		{"long_deletion", "ATTTT", "AT", false, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Ref: tt.ref, Alt: tt.alt}
			if got := v.IsSNP(); got != tt.isSNP {
				t.Errorf("IsSNP() = %v, want %v", got, tt.isSNP)
			}
			if got := v.IsIndel(); got != tt.isIndel {
				t.Errorf("IsIndel() = %v, want %v", got, tt.isIndel)
			}
			if got := v.IsDeletion(); got != tt.isDeletion {
				t.Errorf("IsDeletion() = %v, want %v", got, tt.isDeletion)
			}
			if got := v.IsInsertion(); got != tt.isInsertion {
				t.Errorf("IsInsertion() = %v, want %v", got, tt.isInsertion)
			}
		})
	}
}

func TestNormalizeChrom(t *testing.T) {
	v := &Variant{Chrom: "chr12"}
	if got := v.NormalizeChrom(); got != "12" {
		t.Errorf("NormalizeChrom() = %q, want %q", got, "12")
	}

	v = &Variant{Chrom: "12"}
	if got := v.NormalizeChrom(); got != "12" {
		t.Errorf("NormalizeChrom() = %q, want %q", got, "12")
	}

	v = &Variant{Chrom: "chr"}
	if got := v.NormalizeChrom(); got != "chr" {
		t.Errorf("NormalizeChrom() = %q, want %q", got, "chr")
	}
}
