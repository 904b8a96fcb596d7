package serve

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labauto/pathovar/internal/feature"
	"github.com/labauto/pathovar/internal/model"
	"github.com/labauto/pathovar/internal/table"
	"github.com/labauto/pathovar/internal/vcf"
)

const trainingVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
1	100	.	A	T	.	.	CLNSIG=Benign;CADD=2.1;AF=0.2;DP=30
1	200	.	G	C	.	.	CLNSIG=Benign;CADD=1.4;AF=0.1;DP=25
1	300	.	C	A	.	.	CLNSIG=Benign;CADD=3.0;AF=0.15;DP=28
2	100	.	A	G	.	.	CLNSIG=Pathogenic;CADD=28.5;AF=0.0001;DP=40
2	200	.	T	C	.	.	CLNSIG=Pathogenic;CADD=31.0;AF=0.0002;DP=45
2	300	.	G	A	.	.	CLNSIG=Pathogenic;CADD=26.4;AF=0.0001;DP=38
`

const scoringVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
3	100	.	A	T	.	.	CADD=29.0;AF=0.0001;DP=42
3	200	.	G	C	.	.	CADD=2.0;AF=0.18;DP=27
`

func buildTable(t *testing.T, content string, labeled bool) *table.Table {
	t.Helper()
	r, err := vcf.NewReader(strings.NewReader(content), vcf.Options{})
	require.NoError(t, err)
	tbl, err := table.NewBuilder(feature.SchemaV1, labeled).Build(r)
	require.NoError(t, err)
	return tbl
}

func trainTestModel(t *testing.T) *model.LogisticModel {
	t.Helper()
	m, err := model.Train(buildTable(t, trainingVCF, true), model.TrainOptions{})
	require.NoError(t, err)
	return m
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(trainTestModel(t), feature.SchemaV1, vcf.Options{})
	require.NoError(t, err)
	return s
}

func gzipUpload(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()

	var compressed bytes.Buffer
	gw := gzip.NewWriter(&compressed)
	_, err := gw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(UploadField, "upload.vcf.gz")
	require.NoError(t, err)
	_, err = part.Write(compressed.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestNewService_SchemaMismatchRefused(t *testing.T) {
	m := trainTestModel(t)
	m.SchemaVersion = "v0"

	_, err := NewService(m, feature.SchemaV1, vcf.Options{})
	require.Error(t, err)

	var mismatch *feature.SchemaMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestPredict_Pipeline(t *testing.T) {
	s := newTestService(t)

	pred, err := s.Predict(strings.NewReader(scoringVCF))
	require.NoError(t, err)

	assert.Equal(t, 2, pred.N)
	assert.Equal(t, 1, pred.PathogenicCalls, "only the high-CADD variant should be called")
	require.Len(t, pred.Probabilities, 2)
	assert.Greater(t, pred.Probabilities[0], pred.Probabilities[1])
}

func TestPredict_TrainingServingParity(t *testing.T) {
	m := trainTestModel(t)
	s, err := NewService(m, feature.SchemaV1, vcf.Options{})
	require.NoError(t, err)

	// Scoring through the service must produce exactly the probabilities of
	// running the training-path builder plus the model by hand.
	pred, err := s.Predict(strings.NewReader(scoringVCF))
	require.NoError(t, err)

	want := m.PredictProba(buildTable(t, scoringVCF, false).Matrix())
	assert.Equal(t, want, pred.Probabilities)
}

func TestPredict_EmptyUpload(t *testing.T) {
	s := newTestService(t)

	_, err := s.Predict(strings.NewReader("##fileformat=VCFv4.2\n"))
	assert.ErrorIs(t, err, table.ErrEmptyResult)
}

func TestHTTP_AnnotateVariants(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := Router(newTestService(t))

	body, contentType := gzipUpload(t, scoringVCF)
	req := httptest.NewRequest(http.MethodPost, "/tool/annotate_variants", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		N               int `json:"n"`
		PathogenicCount int `json:"pathogenic_variant_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.N)
	assert.Equal(t, 1, resp.PathogenicCount)
}

func TestHTTP_MissingUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := Router(newTestService(t))

	req := httptest.NewRequest(http.MethodPost, "/tool/annotate_variants", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTP_EmptyUploadRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := Router(newTestService(t))

	body, contentType := gzipUpload(t, "##fileformat=VCFv4.2\n")
	req := httptest.NewRequest(http.MethodPost, "/tool/annotate_variants", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no usable variant records")
}

func TestHTTP_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := Router(newTestService(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
