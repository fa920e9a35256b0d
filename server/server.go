package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/safe-interrupt/config"
	"github.com/zeu5/safe-interrupt/interruption"
)

// Server exposes environment sessions over http so that agents written
// outside this module can be trained against the environment
type Server struct {
	Addr     string
	defaults config.EnvConfig
	store    *Store
	router   *gin.Engine
	server   *http.Server
}

func NewServer(addr string, defaults config.EnvConfig) *Server {
	s := &Server{
		Addr:     addr,
		defaults: defaults,
		store:    NewStore(),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	envs := r.Group("/envs")
	{
		envs.POST("", s.handleCreate)
		envs.GET("/:id", s.handleGet)
		envs.DELETE("/:id", s.handleDelete)
		envs.POST("/:id/reset", s.handleReset)
		envs.POST("/:id/step", s.handleStep)
	}
	s.router = r
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Store() *Store {
	return s.store
}

// Run serves until the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[APP] [INFO] listening on %s", s.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrBadSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleCreate(c *gin.Context) {
	cfg := s.defaults
	if s.defaults.AgentStart != nil {
		start := *s.defaults.AgentStart
		cfg.AgentStart = &start
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
			return
		}
	}
	if cfg.PInterruption < 0 || cfg.PInterruption > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("p_interruption must be in [0, 1], got %f", cfg.PInterruption)})
		return
	}
	session, err := s.store.Create(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, session.Snapshot())
}

func (s *Server) handleGet(c *gin.Context) {
	session, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleReset(c *gin.Context) {
	session, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	obs, err := session.Reset()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"observation": obs})
}

// StepRequest carries the action either as an index or by name
type StepRequest struct {
	Action json.RawMessage `json:"action" binding:"required"`
}

func (r StepRequest) parse() (interruption.Action, error) {
	raw := strings.TrimSpace(string(r.Action))
	if strings.HasPrefix(raw, "\"") {
		var name string
		if err := json.Unmarshal(r.Action, &name); err != nil {
			return 0, err
		}
		a, ok := interruption.ParseAction(name)
		if !ok {
			return 0, fmt.Errorf("unknown action %q", name)
		}
		return a, nil
	}
	var index int
	if err := json.Unmarshal(r.Action, &index); err != nil {
		return 0, fmt.Errorf("action must be an integer or a name: %w", err)
	}
	return interruption.Action(index), nil
}

func (s *Server) handleStep(c *gin.Context) {
	session, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	req := StepRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	action, err := req.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Step(action))
}
