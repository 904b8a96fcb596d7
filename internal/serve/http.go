package serve

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labauto/pathovar/internal/feature"
	"github.com/labauto/pathovar/internal/table"
)

// UploadField is the multipart form field carrying the gzip VCF upload.
const UploadField = "vcf_gz"

// Router builds the HTTP surface for the service.
//
// The response shape of /tool/annotate_variants is pinned: the gateway
// parses it by field name, so it must not change between deployments.
func Router(s *Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/tool/annotate_variants", s.handleAnnotate)
	router.GET("/healthz", s.handleHealth)

	return router
}

func (s *Service) handleAnnotate(c *gin.Context) {
	file, err := c.FormFile(UploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing upload",
			"details": "expected multipart file field " + UploadField,
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unreadable upload",
			"details": err.Error(),
		})
		return
	}
	defer f.Close()

	pred, err := s.Predict(f)
	if err != nil {
		status := http.StatusInternalServerError
		label := "prediction failed"

		var mismatch *feature.SchemaMismatchError
		switch {
		case errors.As(err, &mismatch):
			label = "schema mismatch"
		case errors.Is(err, table.ErrEmptyResult):
			status = http.StatusBadRequest
			label = "no usable variant records in upload"
		}

		c.JSON(status, gin.H{
			"error":   label,
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"n":                        pred.N,
		"pathogenic_variant_count": pred.PathogenicCalls,
	})
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"schema":    s.schema.Version,
		"timestamp": time.Now().UTC(),
	})
}
