package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/simova-report/internal/compliance"
	"github.com/sells-group/simova-report/internal/config"
	"github.com/sells-group/simova-report/internal/fetcher"
	"github.com/sells-group/simova-report/internal/ingest"
	"github.com/sells-group/simova-report/internal/model"
	"github.com/sells-group/simova-report/internal/render"
	"github.com/sells-group/simova-report/internal/report"
)

const (
	shutdownTimeout = 10 * time.Second
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance upload server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		srv, err := newServer(cfg)
		if err != nil {
			return err
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           srv.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		return runServer(ctx, httpSrv)
	},
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, httpSrv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("starting server", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return eris.Wrap(httpSrv.Shutdown(shutdownCtx), "server shutdown")
	})

	return g.Wait()
}

// server holds the upload handlers and their shared cache.
type server struct {
	defaults       settings
	indicator      model.Indicator
	renderCfg      config.RenderConfig
	cache          *report.Cache
	limiter        *rate.Limiter
	maxUpload      int64
	allowedOrigins []string
}

func newServer(c *config.Config) (*server, error) {
	policy, err := compliance.PolicyFromConfig(c.Rules)
	if err != nil {
		return nil, err
	}
	ind, err := model.ParseIndicator(c.Report.Indicator)
	if err != nil {
		return nil, err
	}

	s := &server{
		defaults:       buildSettings(c.Ingest, policy, c.Report),
		indicator:      ind,
		renderCfg:      c.Render,
		cache:          report.NewCache(c.Server.CacheSize),
		maxUpload:      int64(c.Server.MaxUploadMB) << 20,
		allowedOrigins: c.Server.AllowedOrigins,
	}
	if c.Server.RatePerSec > 0 {
		burst := c.Server.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(c.Server.RatePerSec), burst)
	}
	return s, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1/reports", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/", s.handleUpload)
		r.Get("/{id}", s.handleView)
		r.Get("/{id}/records", s.handleRecords)
		r.Get("/{id}/workbook", s.handleWorkbook)
	})
	return r
}

func (s *server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// uploadResponse is the body returned for a new or re-used upload.
type uploadResponse struct {
	render.Document
	Filename string `json:"filename"`
	Cached   bool   `json:"cached"`
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload exceeds size limit"})
			return
		}
		writeError(w, badRequest("invalid multipart upload: "+err.Error()))
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			writeError(w, ingest.ErrNoInput)
			return
		}
		writeError(w, eris.Wrap(err, "read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, eris.Wrap(err, "read upload"))
		return
	}
	if len(data) == 0 {
		writeError(w, ingest.ErrNoInput)
		return
	}

	opts, err := s.uploadSettings(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ind, err := s.queryIndicator(r)
	if err != nil {
		writeError(w, err)
		return
	}

	key := report.Key(data, opts.fingerprint())
	entry, cached, err := s.cache.GetOrBuild(key, hdr.Filename, func() (*report.Report, error) {
		in, err := ingest.Load(r.Context(), hdr.Filename, data, opts.ingest)
		if err != nil {
			return nil, err
		}
		return report.Build(in, opts.report)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	zap.L().Info("report ready",
		zap.String("id", entry.ID),
		zap.String("filename", entry.Filename),
		zap.Bool("cached", cached),
	)

	doc := render.NewDocument(entry.Report, ind)
	doc.ID = entry.ID
	status := http.StatusCreated
	if cached {
		status = http.StatusOK
	}
	writeJSON(w, status, uploadResponse{Document: doc, Filename: entry.Filename, Cached: cached})
}

// uploadSettings applies form overrides to the server defaults.
func (s *server) uploadSettings(r *http.Request) (settings, error) {
	out := s.defaults

	if v := r.FormValue("header_row"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return settings{}, badRequest("header_row must be a non-negative integer")
		}
		out.ingest.HeaderRow = n
	}
	if v := r.FormValue("sheet"); v != "" {
		out.ingest.Sheet = v
	}
	if v := r.FormValue("columns"); v != "" {
		out.ingest.Columns = splitColumns(v)
	}
	if v := r.FormValue("entry_mode"); v != "" {
		p := out.report.Policy
		p.EntryMode = compliance.EntryMode(v)
		if err := p.Validate(); err != nil {
			return settings{}, badRequest(err.Error())
		}
		out.report.Policy = p
	}
	for name, dst := range map[string]*bool{
		"exclude_sundays": &out.report.Days.ExcludeSundays,
		"normalize":       &out.report.Normalize,
	} {
		v := r.FormValue(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return settings{}, badRequest(name + " must be a boolean")
		}
		*dst = b
	}
	return out, nil
}

func (s *server) queryIndicator(r *http.Request) (model.Indicator, error) {
	v := r.URL.Query().Get("indicator")
	if v == "" {
		return s.indicator, nil
	}
	return model.ParseIndicator(v)
}

func (s *server) entry(w http.ResponseWriter, r *http.Request) (*report.Entry, bool) {
	entry, err := s.cache.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return entry, true
}

func (s *server) handleView(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	ind, err := s.queryIndicator(r)
	if err != nil {
		writeError(w, err)
		return
	}

	doc := render.NewDocument(entry.Report, ind)
	doc.ID = entry.ID
	if v := r.URL.Query().Get("order"); v != "" {
		order, err := report.ParseOrder(v)
		if err != nil {
			writeError(w, err)
			return
		}
		doc.Ranking = entry.Report.Rank(ind, order)
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *server) handleRecords(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}

	records := entry.Report.Records
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, badRequest("limit must be a non-negative integer"))
			return
		}
		if n > 0 && n < len(records) {
			records = records[:n]
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      entry.ID,
		"total":   len(entry.Report.Records),
		"records": records,
	})
}

func (s *server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	ind, err := s.queryIndicator(r)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := render.WorkbookBytes(entry.Report, render.WorkbookOptionsFromConfig(s.renderCfg, ind))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "compliance-"+ind.String()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// errBadRequest marks request validation failures.
var errBadRequest = eris.New("bad request")

func badRequest(msg string) error {
	return eris.Wrap(errBadRequest, msg)
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case eris.Is(err, report.ErrNotFound):
		return http.StatusNotFound
	case eris.Is(err, errBadRequest),
		eris.Is(err, ingest.ErrNoInput),
		eris.Is(err, ingest.ErrColumnMismatch),
		eris.Is(err, ingest.ErrMissingColumn),
		eris.Is(err, ingest.ErrUnknownColumn),
		eris.Is(err, ingest.ErrNoHeader),
		eris.Is(err, fetcher.ErrUnsupportedFormat),
		eris.Is(err, model.ErrUnknownIndicator),
		eris.Is(err, report.ErrUnknownOrder):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
