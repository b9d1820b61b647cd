// Package server exposes generation and export over HTTP. A request
// carries an IFS document; the response is the encoded file.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/san-kum/ifscloud/internal/chaos"
	"github.com/san-kum/ifscloud/internal/config"
	"github.com/san-kum/ifscloud/internal/export"
	"github.com/san-kum/ifscloud/internal/pointcloud"
	"github.com/san-kum/ifscloud/internal/viz"
)

const (
	// DefaultMaxPoints bounds the iterations a single request may ask for.
	DefaultMaxPoints = chaos.DefaultHighDensityPoints

	// DefaultMaxBody bounds the size of an uploaded document.
	DefaultMaxBody = 1 << 20

	shutdownTimeout = 5 * time.Second
)

var ErrTooManyPoints = errors.New("server: requested point count exceeds limit")

type Server struct {
	logger    *log.Logger
	maxPoints int
	maxBody   int64
	now       func() time.Time
	router    chi.Router
}

type Option func(*Server)

func WithMaxPoints(n int) Option { return func(s *Server) { s.maxPoints = n } }

func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

func New(logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		logger:    logger,
		maxPoints: DefaultMaxPoints,
		maxBody:   DefaultMaxBody,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Get("/presets", s.presets)
	r.Get("/formats", s.formats)
	r.Post("/estimate", s.estimate)
	r.Post("/export/{format}", s.export)
	r.Post("/preview.svg", s.preview)
	r.Get("/ws/generate", s.stream)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": export.Version})
}

type presetInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Transforms  int    `json:"transforms"`
}

func (s *Server) presets(w http.ResponseWriter, r *http.Request) {
	names := config.ListPresets()
	out := make([]presetInfo, 0, len(names))
	for _, name := range names {
		p := config.Presets[name]
		out = append(out, presetInfo{
			Name:        name,
			Title:       p.Title,
			Description: p.Description,
			Difficulty:  p.Difficulty,
			Transforms:  len(p.Matrices),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type formatInfo struct {
	Format      export.Format `json:"format"`
	Extension   string        `json:"extension"`
	Description string        `json:"description"`
}

func (s *Server) formats(w http.ResponseWriter, r *http.Request) {
	var out []formatInfo
	for _, e := range export.Formats() {
		out = append(out, formatInfo{e.Format, e.Extension, e.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

type estimateRequest struct {
	export.Options
	Points int `json:"points"`
}

type estimateResponse struct {
	Format export.Format `json:"format"`
	Points int           `json:"points"`
	Bytes  int64         `json:"bytes"`
}

func (s *Server) estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, s.maxBody)).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, "", fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Points < 0 {
		s.fail(w, http.StatusBadRequest, req.Format, fmt.Errorf("%w: points must be >= 0", chaos.ErrInvalidConfig))
		return
	}
	n, err := export.Estimate(req.Options, req.Points, req.IncludeColors)
	if err != nil {
		s.fail(w, http.StatusBadRequest, req.Format, err)
		return
	}
	writeJSON(w, http.StatusOK, estimateResponse{Format: req.Format, Points: req.Points, Bytes: n})
}

// export generates the posted document and streams it back as a download.
// Query parameters override the export defaults: encoding, colors, mesh,
// density, scale.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.fail(w, http.StatusNotFound, "", err)
		return
	}
	opts, err := s.exportOptions(f, r)
	if err != nil {
		s.fail(w, http.StatusBadRequest, f, err)
		return
	}
	cloud, status, err := s.generate(r)
	if err != nil {
		s.fail(w, status, f, err)
		return
	}

	var buf bytes.Buffer
	st, err := export.Encode(&buf, cloud, opts)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, f, err)
		return
	}
	e, _ := export.Lookup(f)
	name := export.DefaultFilename(f, opts.Now())

	s.logger.Info("exported", "format", f, "points", st.Vertices, "faces", st.Faces, "bytes", st.Bytes)
	w.Header().Set("Content-Type", contentType(f, opts.Encoding))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Vertex-Count", strconv.Itoa(st.Vertices))
	if st.Faces > 0 {
		w.Header().Set("X-Face-Count", strconv.Itoa(st.Faces))
	}
	w.Header().Set("X-Format-Description", e.Description)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	cloud, status, err := s.generate(r)
	if err != nil {
		s.fail(w, status, "", err)
		return
	}
	opts := viz.SVGOptions{}
	if v := r.URL.Query().Get("width"); v != "" {
		opts.Width, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("height"); v != "" {
		opts.Height, _ = strconv.Atoi(v)
	}
	var buf bytes.Buffer
	if err := viz.SVG(&buf, cloud, nil, opts); err != nil {
		s.fail(w, http.StatusInternalServerError, "", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}

func (s *Server) exportOptions(f export.Format, r *http.Request) (export.Options, error) {
	opts := export.DefaultOptions(f)
	opts.Now = s.now
	q := r.URL.Query()
	if v := q.Get("encoding"); v != "" {
		enc, err := export.ParseEncoding(v)
		if err != nil {
			return opts, err
		}
		opts.Encoding = enc
	}
	var err error
	if v := q.Get("colors"); v != "" {
		if opts.IncludeColors, err = strconv.ParseBool(v); err != nil {
			return opts, fmt.Errorf("colors: %w", err)
		}
	}
	if v := q.Get("mesh"); v != "" {
		if opts.GenerateMesh, err = strconv.ParseBool(v); err != nil {
			return opts, fmt.Errorf("mesh: %w", err)
		}
	}
	if v := q.Get("density"); v != "" {
		if opts.MeshDensity, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, fmt.Errorf("density: %w", err)
		}
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, fmt.Errorf("scale: %w", err)
		}
	}
	return opts, nil
}

// generate decodes the request body as a JSON document and runs it. The
// returned status applies when err is non-nil.
func (s *Server) generate(r *http.Request) (*pointcloud.Cloud, int, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, s.maxBody))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	doc, status, err := s.decode(data)
	if err != nil {
		return nil, status, err
	}

	start := time.Now()
	cloud, err := doc.Generate(r.Context(), nil)
	if err != nil {
		if errors.Is(err, chaos.ErrCanceled) {
			s.logger.Warn("generation canceled", "err", err)
			return nil, http.StatusServiceUnavailable, err
		}
		return nil, http.StatusUnprocessableEntity, err
	}
	s.logger.Debug("generated", "points", cloud.Len(), "took", time.Since(start).Round(time.Millisecond))
	return cloud, 0, nil
}

// decode parses a JSON document and enforces the point limit. Discarded
// warm-up iterations count against the limit too.
func (s *Server) decode(data []byte) (*config.Document, int, error) {
	doc, err := config.Unmarshal(data, config.JSON)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	n, skip := doc.Settings.Iterations, doc.Settings.SkipInitial
	if n > s.maxPoints || skip > s.maxPoints-n {
		return nil, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: %d+%d > %d", ErrTooManyPoints, n, skip, s.maxPoints)
	}
	return doc, 0, nil
}

func (s *Server) fail(w http.ResponseWriter, status int, f export.Format, err error) {
	s.logger.Error("request failed", "status", status, "err", err)
	writeJSON(w, status, export.Result{
		Success: false,
		Format:  f,
		Error:   err.Error(),
		Message: "Export failed: " + err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentType(f export.Format, enc export.Encoding) string {
	switch {
	case f == export.PLY && enc == export.ASCII, f == export.OBJ, f == export.FBX:
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
