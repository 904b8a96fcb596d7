package vcf

import "strings"

// InfoAnnotations maps INFO annotation keys to their raw string values.
// Flag-style entries (no "=") map to the empty string. Values may contain
// "|" or "," sub-delimiters; interpreting those is the consumer's job.
type InfoAnnotations map[string]string

// Has reports whether the key is present, including flag-style entries.
func (a InfoAnnotations) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// ParseInfo parses a raw INFO column into annotations.
//
// Segments are split on ";"; each segment splits on the first "=" only, so
// values keep any embedded sub-delimiters verbatim. Duplicate keys: last
// occurrence wins. Parsing never fails; segments that cannot be classified
// (empty key) are dropped and reported via the returned warning count.
func ParseInfo(info string) (InfoAnnotations, int) {
	result := make(InfoAnnotations)
	if info == "." || info == "" {
		return result, 0
	}

	warnings := 0
	for _, segment := range strings.Split(info, ";") {
		if segment == "" {
			continue
		}
		key, value, found := strings.Cut(segment, "=")
		if key == "" {
			warnings++
			continue
		}
		if !found {
			// Flag-type INFO field
			result[key] = ""
			continue
		}
		result[key] = value
	}

	return result, warnings
}
