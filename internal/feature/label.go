package feature

import (
	"strings"

	"github.com/labauto/pathovar/internal/vcf"
)

// CLNSIGKey is the ClinVar clinical significance annotation key used as the
// training label source.
const CLNSIGKey = "CLNSIG"

// LabelFromCLNSIG derives the binary pathogenicity label from a CLNSIG value.
//
// Rule: the case-normalized value must contain "pathogenic" and contain
// neither "conflicting" nor "benign". "Conflicting_interpretations_of_
// pathogenicity" and "Likely_benign" therefore label 0, while "Pathogenic"
// and "Likely_pathogenic" label 1. A missing annotation labels 0.
func LabelFromCLNSIG(info vcf.InfoAnnotations) int {
	raw, ok := info[CLNSIGKey]
	if !ok {
		return 0
	}

	clnsig := strings.ToLower(raw)
	if !strings.Contains(clnsig, "pathogenic") {
		return 0
	}
	if strings.Contains(clnsig, "conflicting") || strings.Contains(clnsig, "benign") {
		return 0
	}
	return 1
}
