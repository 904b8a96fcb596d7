package robot

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LogLineLimit caps the number of log lines returned per run.
const LogLineLimit = 20

// Server exposes the robot simulator over HTTP.
type Server struct {
	logger *zap.Logger
}

// NewServer creates a robot server.
func NewServer() *Server {
	return &Server{logger: zap.NewNop()}
}

// SetLogger sets the logger for run-level messages.
func (s *Server) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Router builds the robot HTTP surface.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/run_aliquot", s.handleRunAliquot)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return router
}

// handleRunAliquot runs the aliquot protocol in simulation and returns the
// first LogLineLimit log lines.
func (s *Server) handleRunAliquot(c *gin.Context) {
	// Each request gets a fresh deck; runs are independent.
	log, err := NewProtocol().Run()
	if err != nil {
		s.logger.Warn("aliquot run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "protocol run failed",
			"details": err.Error(),
		})
		return
	}

	if len(log) > LogLineLimit {
		log = log[:LogLineLimit]
	}

	s.logger.Info("aliquot run complete", zap.Int("log_lines", len(log)))
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"log":    log,
	})
}
