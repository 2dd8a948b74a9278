// Package web exposes the classification core as a JSON HTTP API.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"digital-nose/internal/app"
	"digital-nose/internal/scent"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the web front end over the shared application context.
type Server struct {
	app    *app.App
	engine *gin.Engine
}

// NewServer builds the router. The application context is injected here and
// threaded through the handlers; no handler reaches for package state.
func NewServer(a *app.App) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		app:    a,
		engine: engine,
	}

	engine.GET("/healthz", s.handleHealthz)
	api := engine.Group("/api")
	{
		api.GET("/init", s.handleInit)
		api.GET("/profiles", s.handleProfiles)
		api.POST("/capture", s.handleCapture)
	}

	return s
}

// Handler returns the HTTP handler, used by tests and by Run.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run trains the model if needed and serves until the listener fails.
func (s *Server) Run(addr string) error {
	if !s.app.Trained() {
		if _, err := s.app.TrainAndEvaluate(context.Background()); err != nil {
			return err
		}
	}
	log.Printf("Web: Listening on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "trained": s.app.Trained()})
}

// handleInit trains lazily on first call and returns the configuration the
// browser client needs: profiles, feature names, classes, and metrics.
func (s *Server) handleInit(c *gin.Context) {
	if !s.app.Trained() {
		if _, err := s.app.TrainAndEvaluate(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
	}

	metrics, err := s.app.Metrics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	artifacts, err := s.app.Artifacts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	names := scent.FeatureNames()
	c.JSON(http.StatusOK, gin.H{
		"profiles":             scent.ProfileNames(s.app.Profiles()),
		"voc_features":         names[:scent.NumVOCFeatures],
		"environment_features": names[scent.NumVOCFeatures:],
		"classes":              artifacts.Classes,
		"metrics":              metrics,
	})
}

func (s *Server) handleProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": scent.ProfileNames(s.app.Profiles())})
}

// captureRequest is the body of POST /api/capture.
type captureRequest struct {
	Profile string `json:"profile" binding:"required"`
}

// handleCapture simulates one reading for the requested profile and returns
// the reading together with its classification report.
func (s *Server) handleCapture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "profile is required"})
		return
	}

	reading, rep, err := s.app.CaptureSample(req.Profile)
	if err != nil {
		switch {
		case errors.Is(err, scent.ErrUnknownProfile):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, app.ErrNotTrained):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reading": reading.Features,
		"report":  rep.Doc(),
	})
}
