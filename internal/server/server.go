// Package server exposes the quality check over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reelcheck/reelcheck/internal/config"
	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
	"github.com/reelcheck/reelcheck/internal/logging"
	"github.com/reelcheck/reelcheck/internal/pipeline"
	"github.com/reelcheck/reelcheck/internal/report"
	"github.com/reelcheck/reelcheck/internal/retrieve"
	"github.com/reelcheck/reelcheck/internal/util"
)

// maxBodyBytes caps request bodies; check requests are small JSON
// documents, never uploads.
const maxBodyBytes = 1 << 20

// CheckRequest is the POST /api/check_quality body. Exactly one of URL
// or Path must be set.
type CheckRequest struct {
	URL        string   `json:"url"`
	Path       string   `json:"path"`
	Vocabulary []string `json:"vocabulary"`
}

// checkFunc runs one quality check; swapped out in tests.
type checkFunc func(ctx context.Context, cfg *config.Config, job pipeline.Job) (*report.Report, error)

// fetchFunc downloads a share link into a work directory.
type fetchFunc func(ctx context.Context, shareURL, destDir string) (string, error)

// Server wires the HTTP routes to the pipeline.
type Server struct {
	cfg    *config.Config
	log    *logging.Logger
	check  checkFunc
	fetch  fetchFunc
	engine *gin.Engine
}

// New creates a server around the given configuration.
func New(cfg *config.Config, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Global()
	}
	s := &Server{
		cfg: cfg,
		log: log,
		check: func(ctx context.Context, cfg *config.Config, job pipeline.Job) (*report.Report, error) {
			return pipeline.Run(ctx, cfg, job, pipeline.Capabilities{}, nil)
		},
		fetch: func(ctx context.Context, shareURL, destDir string) (string, error) {
			client := retrieve.NewClient()
			lastDecile := int64(-1)
			client.Progress = func(downloaded, total int64) {
				if total <= 0 {
					return
				}
				pct := downloaded * 100 / total
				if d := pct / 10; d > lastDecile {
					lastDecile = d
					log.Debug("download progress", "percent", pct)
				}
			}
			return client.Fetch(ctx, shareURL, destDir)
		},
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/check_quality", s.handleCheck)
	return r
}

// Handler returns the HTTP handler, used by tests and custom servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.log.Info("server listening", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCheck(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.URL == "" && req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either url or path is required"})
		return
	}
	if req.URL != "" && req.Path != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url and path are mutually exclusive"})
		return
	}

	jobID := uuid.NewString()
	log := s.log.With("job_id", jobID)

	path := req.Path
	if req.URL != "" {
		workDir, err := os.MkdirTemp("", "reelcheck-"+jobID)
		if err != nil {
			log.Error("workdir creation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "job_id": jobID})
			return
		}
		defer os.RemoveAll(workDir)

		log.Info("fetching video", "url", req.URL)
		path, err = s.fetch(c.Request.Context(), req.URL, workDir)
		if err != nil {
			log.Error("fetch failed", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "job_id": jobID})
			return
		}
	} else if !util.FileExists(path) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file does not exist", "job_id": jobID})
		return
	}

	log.Info("check started", "file", util.GetFilename(path))
	rpt, err := s.check(c.Request.Context(), s.cfg, pipeline.Job{
		Path:       path,
		Vocabulary: req.Vocabulary,
	})
	if err != nil {
		log.Error("check failed", "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "job_id": jobID})
		return
	}

	log.Info("check complete", "status", rpt.Status)
	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "report": rpt})
}

// statusFor maps job error kinds to HTTP status codes.
func statusFor(err error) int {
	var qcErr *qcerrors.Error
	if !errors.As(err, &qcErr) {
		return http.StatusInternalServerError
	}
	switch qcErr.Kind {
	case qcerrors.KindRetrieval:
		return http.StatusBadGateway
	case qcerrors.KindProbe, qcerrors.KindNoVideoStream, qcerrors.KindConfig:
		return http.StatusUnprocessableEntity
	case qcerrors.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
