// Package gateway proxies the variant annotation and robot control services
// behind a single HTTP surface. The gateway adds timeouts and a uniform
// error mapping; it never retries and never reshapes upstream responses.
package gateway

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/labauto/pathovar/internal/serve"
)

// Default per-upstream timeouts, matching the long-running nature of a full
// VCF scoring pass versus a bounded robot run.
const (
	DefaultVariantTimeout = 300 * time.Second
	DefaultRobotTimeout   = 120 * time.Second
)

// Config points the gateway at its upstreams.
type Config struct {
	VariantURL     string
	RobotURL       string
	VariantTimeout time.Duration
	RobotTimeout   time.Duration
}

// UpstreamError reports an unreachable or failing collaborator service.
type UpstreamError struct {
	Upstream string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Upstream, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Gateway proxies requests to the variant and robot services.
type Gateway struct {
	cfg           Config
	variantClient *http.Client
	robotClient   *http.Client
	logger        *zap.Logger
}

// New creates a gateway for the given upstream configuration.
func New(cfg Config) *Gateway {
	if cfg.VariantTimeout == 0 {
		cfg.VariantTimeout = DefaultVariantTimeout
	}
	if cfg.RobotTimeout == 0 {
		cfg.RobotTimeout = DefaultRobotTimeout
	}

	return &Gateway{
		cfg:           cfg,
		variantClient: &http.Client{Timeout: cfg.VariantTimeout},
		robotClient:   &http.Client{Timeout: cfg.RobotTimeout},
		logger:        zap.NewNop(),
	}
}

// SetLogger sets the logger for proxy-level messages.
func (g *Gateway) SetLogger(l *zap.Logger) {
	g.logger = l
}

// Router builds the gateway HTTP surface.
func (g *Gateway) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/tool/annotate_variants", g.handleAnnotate)
	router.POST("/tool/aliquot_plate", g.handleAliquot)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return router
}

// handleAnnotate streams the uploaded VCF through to the variant service.
func (g *Gateway) handleAnnotate(c *gin.Context) {
	file, err := c.FormFile(serve.UploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing upload",
			"details": "expected multipart file field " + serve.UploadField,
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unreadable upload",
			"details": err.Error(),
		})
		return
	}
	defer src.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile(serve.UploadField, file.Filename)
		if err == nil {
			_, err = io.Copy(part, src)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, g.cfg.VariantURL, pr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "proxy request", "details": err.Error()})
		return
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	g.forward(c, g.variantClient, req, "variant")
}

// handleAliquot forwards a run request to the robot service.
func (g *Gateway) handleAliquot(c *gin.Context) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, g.cfg.RobotURL, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "proxy request", "details": err.Error()})
		return
	}

	g.forward(c, g.robotClient, req, "robot")
}

// forward executes the upstream call and relays status and body verbatim.
// Connection failures and timeouts surface as 503 with the upstream error
// text attached; they are not retried.
func (g *Gateway) forward(c *gin.Context, client *http.Client, req *http.Request, upstream string) {
	resp, err := client.Do(req)
	if err != nil {
		uerr := &UpstreamError{Upstream: upstream, Err: err}
		g.logger.Warn("upstream unavailable",
			zap.String("upstream", upstream),
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "service unavailable",
			"details": uerr.Error(),
		})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "service unavailable",
			"details": (&UpstreamError{Upstream: upstream, Err: err}).Error(),
		})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, body)
}
