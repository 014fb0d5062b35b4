package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"accentdetect/internal/config"
	"accentdetect/internal/model"
	"accentdetect/internal/pipeline"
	"accentdetect/internal/scratch"
	"accentdetect/internal/storage"
	"accentdetect/internal/utils"
)

// Server wires the HTTP surface to the pipeline and the analysis store.
type Server struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	store    *storage.Store
}

func NewServer(cfg *config.Config, pl *pipeline.Pipeline, store *storage.Store) *Server {
	return &Server{cfg: cfg, pipeline: pl, store: store}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	// Health check
	r.GET("/health", s.healthCheck)

	// API v1
	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyze/upload", s.analyzeUpload)
		v1.POST("/analyze/url", s.analyzeURL)
		v1.GET("/analyses", s.listAnalyses)
		v1.GET("/analyses/:id", s.getAnalysis)
	}
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "accentdetect-backend",
	})
}

// analyzeUpload handles POST /api/v1/analyze/upload: a multipart video
// upload analyzed synchronously.
func (s *Server) analyzeUpload(c *gin.Context) {
	file, err := c.FormFile("video_file")
	if err != nil {
		// Try alternative field names
		if file, err = c.FormFile("video"); err != nil {
			if file, err = c.FormFile("file"); err != nil {
				utils.Error(c, http.StatusBadRequest, "video_file is required. Error: "+err.Error())
				return
			}
		}
	}

	// Reject oversized uploads before writing anything to disk.
	if file.Size > s.cfg.MaxUploadBytes {
		utils.Error(c, http.StatusBadRequest, "file size exceeds 200MB limit")
		return
	}

	dir, err := scratch.Dir()
	if err != nil {
		log.Printf("[Upload] Failed to allocate scratch storage: %v", err)
		utils.Error(c, http.StatusInternalServerError, "failed to allocate temporary storage")
		return
	}
	path, err := scratch.SaveUpload(file, dir)
	if err != nil {
		log.Printf("[Upload] Failed to save upload: %v", err)
		scratch.CleanupDir(dir)
		utils.Error(c, http.StatusInternalServerError, "failed to save uploaded file")
		return
	}
	defer scratch.Cleanup(path)

	log.Printf("[Upload] Saved %s (%d bytes) to %s", file.Filename, file.Size, path)

	analysis, perr := s.pipeline.Run(c.Request.Context(), pipeline.Input{
		FilePath: path,
		FileName: file.Filename,
		Size:     file.Size,
	})
	s.respondAnalysis(c, analysis, perr)
}

// AnalyzeURLRequest represents the request body for URL analysis
type AnalyzeURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// analyzeURL handles POST /api/v1/analyze/url: a remote video URL analyzed
// synchronously.
func (s *Server) analyzeURL(c *gin.Context) {
	var req AnalyzeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "url is required")
		return
	}

	analysis, perr := s.pipeline.Run(c.Request.Context(), pipeline.Input{URL: req.URL})
	s.respondAnalysis(c, analysis, perr)
}

// getAnalysis handles GET /api/v1/analyses/:id
func (s *Server) getAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid id format")
		return
	}

	analysis, ok := s.store.Get(id)
	if !ok {
		utils.Error(c, http.StatusNotFound, "analysis not found")
		return
	}
	utils.Success(c, analysisPayload(analysis))
}

// listAnalyses handles GET /api/v1/analyses
func (s *Server) listAnalyses(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	analyses := s.store.List(limit)
	items := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, analysisPayload(a))
	}

	utils.Success(c, gin.H{
		"items": items,
		"limit": limit,
		"count": len(items),
	})
}

func (s *Server) respondAnalysis(c *gin.Context, analysis *model.Analysis, perr *pipeline.Error) {
	if perr != nil {
		utils.ErrorWithTips(c, statusForKind(perr.Kind), perr.Error(), tipsForKind(perr.Kind, analysis.Source))
		return
	}
	utils.Success(c, analysisPayload(analysis))
}

func analysisPayload(a *model.Analysis) gin.H {
	payload := gin.H{
		"analysis_id": a.ID.String(),
		"source":      a.Source,
		"status":      a.Status,
		"created_at":  a.CreatedAt,
	}
	if a.Result != nil {
		payload["detected"] = a.Result.Detected
		if a.Result.Detected {
			payload["accent_label"] = a.Result.AccentLabel
			payload["confidence_percent"] = a.Result.ConfidencePercent
			payload["clarity"] = a.Result.Clarity
			payload["summary"] = a.Result.Summary
			if commentary, ok := a.Metadata["ai_commentary"].(string); ok {
				payload["commentary"] = commentary
			}
		} else {
			payload["reason"] = a.Result.Reason
			payload["message"] = a.Result.Summary
			if a.Result.LanguageCode != "" {
				payload["language_code"] = a.Result.LanguageCode
			}
		}
	}
	if a.ErrorMessage != nil {
		payload["error_message"] = *a.ErrorMessage
	}
	if a.ErrorKind != nil {
		payload["error_kind"] = *a.ErrorKind
	}
	if a.ProcessingTimeMs != nil {
		payload["processing_time_ms"] = *a.ProcessingTimeMs
	}
	return payload
}

func statusForKind(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindValidation, pipeline.KindDurationExceeded:
		return http.StatusBadRequest
	case pipeline.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

var (
	generalTips = []string{
		"The video is in a supported format (mp4, mov, avi, mkv)",
		"The video contains clear English speech",
		"The video is no longer than 10 minutes",
	}
	urlTips = []string{
		"The video URL is publicly accessible",
		"The URL is a direct video link, a Loom share link, or a YouTube link",
		"The video contains clear English speech",
		"The video is no longer than 10 minutes",
	}
	forbiddenTips = []string{
		"The video may be private or restricted",
		"The platform may enforce region restrictions or anti-bot measures",
		"Try a different video",
		"Use a direct MP4 link or a Loom video instead",
		"Ensure the video is public and accessible",
	}
)

func tipsForKind(kind pipeline.Kind, source string) []string {
	switch {
	case kind == pipeline.KindForbidden:
		return forbiddenTips
	case source == "url":
		return urlTips
	default:
		return generalTips
	}
}
