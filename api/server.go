// Package api exposes statement extraction over HTTP.
// This is a capability module that can be enabled via the CLI or used programmatically.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aqlanhadi/mpx/export"
	"github.com/aqlanhadi/mpx/extractor"
	"github.com/aqlanhadi/mpx/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadMemory = 32 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	requestIDHeader = "X-Request-ID"
)

// Config holds the API server configuration
type Config struct {
	Port    string
	Extract extractor.Options
	Sheets  export.SheetNames
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:   ":8080",
		Sheets: export.DefaultSheetNames(),
	}
}

// Server represents the HTTP API server
type Server struct {
	config Config
	router *mux.Router
}

// New creates a new API server with the given configuration
func New(cfg Config) *Server {
	s := &Server{
		config: cfg,
		router: mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(requestLogger)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/extract", s.handleExtract).Methods(http.MethodPost)
	s.router.HandleFunc("/convert", s.handleConvert).Methods(http.MethodPost)
}

// Handler returns the http.Handler for the server
// This allows the server to be used with custom http.Server configurations
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	log.Info().Str("addr", s.config.Port).Msg("starting server")
	server := &http.Server{
		Addr:              s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags every request with an id, echoed in X-Request-ID, and logs it
// once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		reqLog := log.With().Str("request_id", id).Logger()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), reqLog)))

		reqLog.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// ExtractOptions holds the options for extraction
type ExtractOptions struct {
	StatementOnly   bool
	TransactionOnly bool
	TextOnly        bool
}

// parseExtractOptions extracts options from the HTTP request
func (s *Server) parseExtractOptions(r *http.Request) ExtractOptions {
	return ExtractOptions{
		StatementOnly:   flag(r, "statement_only"),
		TransactionOnly: flag(r, "transaction_only"),
		TextOnly:        flag(r, "text_only"),
	}
}

// flag accepts a form value or a query parameter
func flag(r *http.Request, name string) bool {
	return coalesce(r.FormValue(name), r.URL.Query().Get(name)) == "true"
}

// upload reads the multipart "file" field into memory
func upload(w http.ResponseWriter, r *http.Request, reqLog zerolog.Logger) (*bytes.Reader, string, bool) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		reqLog.Warn().Err(err).Msg("error parsing multipart form")
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		reqLog.Warn().Err(err).Msg("error getting file from form")
		http.Error(w, "Could not get uploaded file: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		reqLog.Error().Err(err).Msg("error reading file bytes")
		http.Error(w, "Could not read file: "+err.Error(), http.StatusInternalServerError)
		return nil, "", false
	}

	reqLog.Debug().Str("filename", header.Filename).Int("bytes", len(data)).Msg("received file")
	return bytes.NewReader(data), header.Filename, true
}

// extractionFailed maps an extraction error to a response: unreadable uploads are the
// client's fault, anything else is ours.
func extractionFailed(w http.ResponseWriter, reqLog zerolog.Logger, err error) {
	if errors.Is(err, extractor.ErrSourceRead) {
		reqLog.Warn().Err(err).Msg("unreadable statement")
		http.Error(w, "Could not extract text from file: "+err.Error(), http.StatusBadRequest)
		return
	}
	reqLog.Error().Err(err).Msg("extraction failed")
	http.Error(w, "Extraction failed: "+err.Error(), http.StatusInternalServerError)
}

// handleExtract returns the parsed statement as JSON
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.FromContext(r.Context())

	reader, filename, ok := upload(w, r, reqLog)
	if !ok {
		return
	}

	opts := s.parseExtractOptions(r)

	if opts.TextOnly {
		text, err := extractor.ExtractText(reader, filename, s.config.Extract)
		if err != nil {
			extractionFailed(w, reqLog, err)
			return
		}
		writeJSON(w, map[string]string{
			"filename": filename,
			"text":     text,
		})
		return
	}

	stmt, err := extractor.ProcessReader(reader, filename, s.config.Extract)
	if err != nil {
		extractionFailed(w, reqLog, err)
		return
	}

	writeJSON(w, extractor.CreateFinalOutput(stmt, opts.TransactionOnly, opts.StatementOnly))
}

// handleConvert returns the statement as an xlsx workbook
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	reqLog := logger.FromContext(r.Context())

	reader, filename, ok := upload(w, r, reqLog)
	if !ok {
		return
	}

	stmt, err := extractor.ProcessReader(reader, filename, s.config.Extract)
	if err != nil {
		extractionFailed(w, reqLog, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, export.Tables(stmt, s.config.Sheets)); err != nil {
		reqLog.Error().Err(err).Msg("error writing workbook")
		http.Error(w, "Could not write workbook: "+err.Error(), http.StatusInternalServerError)
		return
	}

	name := stmt.Source
	if name == "" {
		name = "statement"
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(name, `"`, "")+`.xlsx"`)
	w.Header().Set("X-Statement-Outcome", string(extractor.Classify(stmt)))
	if _, err := buf.WriteTo(w); err != nil {
		reqLog.Warn().Err(err).Msg("error sending workbook")
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("error encoding response")
	}
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
