// Package api serves the elhem HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fentz26/elhem/internal/assistant"
	"github.com/fentz26/elhem/internal/config"
	"github.com/fentz26/elhem/internal/metrics"
	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/store"
	"github.com/fentz26/elhem/internal/tasks"
	"github.com/fentz26/elhem/internal/team"
)

// Request headers identifying the caller. Ids are trusted as sent.
const (
	HeaderUserID   = "user-id"
	HeaderUserRole = "user-role"
)

const maxBodyBytes = 1 << 20

// Deps holds the components the server dispatches to.
type Deps struct {
	Store     store.Store
	Tasks     *tasks.Repository
	Team      *team.Resolver
	Assistant *assistant.Assistant
	Settings  config.AssistantConfig
	Metrics   *metrics.Collector
	Logger    *zap.Logger
}

// Server provides the HTTP API for elhem.
type Server struct {
	Deps
	addr   string
	server *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(deps Deps, addr string) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{Deps: deps, addr: addr}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.instrument("/health", s.handleHealth))

	mux.HandleFunc("/tasks", s.instrument("/tasks", s.handleTasks))
	mux.HandleFunc("/tasks/", s.instrument("/tasks/{id}", s.handleTaskByID))

	mux.HandleFunc("/team", s.instrument("/team", s.getOnly(s.listTeam)))
	mux.HandleFunc("/performance", s.instrument("/performance", s.getOnly(s.listPerformance)))
	mux.HandleFunc("/config", s.instrument("/config", s.getOnly(s.getConfig)))

	mux.HandleFunc("/agents/employee", s.instrument("/agents/employee", s.handleAgent(assistant.RoleEmployee)))
	mux.HandleFunc("/agents/manager", s.instrument("/agents/manager", s.handleAgent(assistant.RoleManager)))

	if s.Metrics != nil {
		mux.Handle("/metrics", s.Metrics.Handler())
	}
	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.Logger.Info("starting elhem api", zap.String("addr", s.addr), zap.String("store", string(s.Store.Driver())))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Store   string `json:"store"`
	Driver  string `json:"driver"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{
		OK:      true,
		Store:   "ok",
		Driver:  string(s.Store.Driver()),
		Version: s.Settings.Version,
		Time:    models.FormatTime(time.Now()),
	}
	status := http.StatusOK
	if _, err := s.Store.Load(r.Context(), store.Tasks); err != nil {
		resp.OK = false
		resp.Store = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// handleTasks handles GET /tasks and POST /tasks
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTasks(w, r)
	case http.MethodPost:
		s.createTask(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTaskByID handles GET and PUT /tasks/{id}
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/tasks/")
	if taskID == "" || strings.Contains(taskID, "/") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTask(w, r, taskID)
	case http.MethodPut:
		s.updateTask(w, r, taskID)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// listTasks scopes the task list by the caller's role: executives see
// everything, managers see their team, everyone else sees their own.
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(HeaderUserID)
	role := strings.ToLower(r.Header.Get(HeaderUserRole))
	if userID == "" || role == "" {
		s.fail(w, ErrUnauthenticated)
		return
	}

	ctx := r.Context()
	var (
		records []models.Record
		err     error
	)
	switch role {
	case "executive":
		records, err = s.Tasks.All(ctx)
	case assistant.RoleManager:
		_, ok, lerr := s.Team.Lookup(ctx, userID)
		switch {
		case lerr != nil:
			err = lerr
		case !ok:
			err = ErrUserNotFound
		default:
			records, err = s.Tasks.TasksForManager(ctx, userID)
		}
	default:
		records, err = s.Tasks.TasksFor(ctx, userID)
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeRecords(w, records)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req tasks.NewTask
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	req.CreatedBy = r.Header.Get(HeaderUserID)

	task, err := s.Tasks.Create(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request, taskID string) {
	rec, ok, err := s.Tasks.Get(r.Context(), taskID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !ok {
		s.fail(w, ErrTaskNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, taskID string) {
	var fields map[string]any
	if err := decodeBody(w, r, &fields); err != nil {
		s.fail(w, err)
		return
	}

	res, err := s.Tasks.UpdateAny(r.Context(), r.Header.Get(HeaderUserID), taskID, fields)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !res.OK() {
		s.fail(w, ErrTaskNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": res.Message})
}

func (s *Server) listTeam(w http.ResponseWriter, r *http.Request) {
	records, err := s.Team.All(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeRecords(w, records)
}

func (s *Server) listPerformance(w http.ResponseWriter, r *http.Request) {
	records, err := s.Store.Load(r.Context(), store.Performance)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeRecords(w, records)
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Settings)
}

type agentRequest struct {
	EmployeeID string `json:"employeeId"`
	ManagerID  string `json:"managerId"`
	Message    string `json:"message"`
}

type agentResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

func (s *Server) handleAgent(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req agentRequest
		if err := decodeBody(w, r, &req); err != nil {
			s.fail(w, err)
			return
		}
		id, label := req.EmployeeID, "Employee ID"
		if role == assistant.RoleManager {
			id, label = req.ManagerID, "Manager ID"
		}
		if id == "" || req.Message == "" {
			s.writeError(w, http.StatusBadRequest, label+" and message are required")
			return
		}

		resp, err := s.Assistant.Respond(r.Context(), role, id, req.Message)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, agentResponse{Success: true, Response: resp})
	}
}

func (s *Server) getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(rec, r)
		s.Metrics.Request(route, strconv.Itoa(rec.status))
		s.Logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", zap.Error(err))
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidJSON)
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeRecords(w http.ResponseWriter, records []models.Record) {
	if records == nil {
		records = []models.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
