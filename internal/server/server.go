package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-texttok/internal/config"
	"github.com/example/go-texttok/internal/sequence"
	"github.com/example/go-texttok/internal/tokenizer"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Tokenizer is the fitted tokenizer served over HTTP.
type Tokenizer interface {
	TextToTokens(text string, opts tokenizer.EncodeOptions) ([]int, error)
	TokensToText(ids []int) string
	TokensToWords(ids []int) []string
	Snapshot() tokenizer.Snapshot
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes int
	maxTokens    int
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes: 4096,
		maxTokens:    4096,
		logger:       slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /encode.
// Non-positive values keep the default.
func WithMaxTextBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTextBytes = n
		}
	}
}

// WithMaxTokens sets the maximum number of ids accepted by POST /decode.
// Non-positive values keep the default.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// bodyOverhead covers JSON keys, flags and whitespace around the payload.
const bodyOverhead = 1024

// encodeBodyLimit allows every text byte to be written as a \uXXXX escape.
func (o options) encodeBodyLimit() int64 {
	return int64(o.maxTextBytes)*6 + bodyOverhead
}

// decodeBodyLimit allows every id to be a full-width int64 plus a separator.
func (o options) decodeBodyLimit() int64 {
	return int64(o.maxTokens)*21 + bodyOverhead
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	tok  Tokenizer
	opts options
	log  *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /vocab,
// POST /encode and POST /decode.
func NewHandler(tok Tokenizer, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		tok:  tok,
		opts: opts,
		log:  opts.logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/vocab", h.handleVocab)
	mux.HandleFunc("/encode", h.handleEncode)
	mux.HandleFunc("/decode", h.handleDecode)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleVocab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, h.tok.Snapshot())
}

type encodeRequest struct {
	Text    string `json:"text"`
	Reverse bool   `json:"reverse"`
	Pad     bool   `json:"pad"`
	Padding string `json:"padding"`
}

type encodeResponse struct {
	Tokens []int `json:"tokens"`
}

func (h *handler) handleEncode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req encodeRequest
	if !decodeBody(w, r, h.opts.encodeBodyLimit(), &req) {
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	start := time.Now()
	ids, err := h.tok.TextToTokens(req.Text, tokenizer.EncodeOptions{
		Reverse: req.Reverse,
		Pad:     req.Pad,
		Padding: sequence.Side(strings.ToLower(strings.TrimSpace(req.Padding))),
	})
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tokenizer.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		h.log.WarnContext(r.Context(), "encode failed",
			slog.Int("text_len", len(req.Text)),
			slog.String("padding", req.Padding),
			slog.String("error", err.Error()),
		)
		writeError(w, status, err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "encode complete",
		slog.Int("text_len", len(req.Text)),
		slog.Int("tokens", len(ids)),
		slog.Bool("reverse", req.Reverse),
		slog.Bool("pad", req.Pad),
		slog.Int64("duration_ms", durationMS),
	)

	if ids == nil {
		ids = []int{}
	}
	writeJSON(w, http.StatusOK, encodeResponse{Tokens: ids})
}

type decodeRequest struct {
	Tokens []int `json:"tokens"`
}

type decodeResponse struct {
	Text  string   `json:"text"`
	Words []string `json:"words"`
}

func (h *handler) handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req decodeRequest
	if !decodeBody(w, r, h.opts.decodeBodyLimit(), &req) {
		return
	}

	if len(req.Tokens) > h.opts.maxTokens {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("tokens exceed maximum count of %d", h.opts.maxTokens))
		return
	}

	words := h.tok.TokensToWords(req.Tokens)

	h.log.InfoContext(r.Context(), "decode complete",
		slog.Int("tokens", len(req.Tokens)),
		slog.Int("words", len(words)),
	)

	writeJSON(w, http.StatusOK, decodeResponse{
		Text:  strings.Join(words, " "),
		Words: words,
	})
}

// decodeBody reads at most limit bytes of JSON request body into v. It writes
// a 413 when the body is larger and a 400 on any other failure.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}

	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	tok             Tokenizer
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config, tok Tokenizer) *Server {
	timeout := 30 * time.Second
	if cfg.Server.ShutdownTimeout > 0 {
		timeout = time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	}

	return &Server{
		cfg:             cfg,
		tok:             tok,
		logger:          slog.Default(),
		shutdownTimeout: timeout,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithLogger overrides the request logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

func (s *Server) Start(ctx context.Context) error {
	if s.tok == nil {
		return errors.New("server: tokenizer is required")
	}

	h := NewHandler(s.tok,
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithMaxTokens(s.cfg.Server.MaxTokens),
		WithLogger(s.logger),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
