package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaV1_FeatureNames(t *testing.T) {
	names := SchemaV1.FeatureNames()
	require.Len(t, names, 13)

	assert.Equal(t, "POS", names[0])
	assert.Equal(t, "gnomAD_AF", names[11], "canonical casing is part of the schema")
	assert.Equal(t, "splice_score", names[12])
	assert.Equal(t, "nan", SchemaV1.FillPolicy)
	assert.Equal(t, "v1", SchemaV1.Version)
}

func TestSchemaCheck_Match(t *testing.T) {
	err := SchemaV1.Check("v1", SchemaV1.FeatureNames())
	assert.NoError(t, err)
}

func TestSchemaCheck_VersionMismatch(t *testing.T) {
	err := SchemaV1.Check("v2", SchemaV1.FeatureNames())
	require.Error(t, err)

	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Error(), "v2")
	assert.Contains(t, mismatch.Error(), "v1")
}

func TestSchemaCheck_CasingDriftIsMismatch(t *testing.T) {
	drifted := SchemaV1.FeatureNames()
	for i, n := range drifted {
		if n == "gnomAD_AF" {
			drifted[i] = "gnomad_AF"
		}
	}

	err := SchemaV1.Check("v1", drifted)
	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Error(), "gnomad_AF")
}

func TestSchemaCheck_MissingFeature(t *testing.T) {
	truncated := SchemaV1.FeatureNames()[:5]

	err := SchemaV1.Check("v1", truncated)
	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
}
