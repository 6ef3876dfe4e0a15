package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// MAX_BODY_SIZE caps request bodies, a request is a handful of battle states
const MAX_BODY_SIZE = 1 * 1024 * 1024

type Server struct {
	bot      searcher.Bot
	searcher *searcher.Searcher
	dex      *engine.Dex
	timeout  time.Duration
	logger   zerolog.Logger
}

type Option func(*Server)

// WithTimeout bounds every request on top of whatever budget the bot has
func WithTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.timeout = timeout
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func NewServer(bot searcher.Bot, s *searcher.Searcher, dex *engine.Dex, opts ...Option) *Server {
	server := &Server{
		bot:      bot,
		searcher: s,
		dex:      dex,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	return server
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/bots", s.bots)
		r.Post("/decide", s.decide)
		r.Post("/matrix", s.matrix)
	})

	return r
}

// Serve runs the router on addr until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("bot", s.bot.Name()).Msg("listening")
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "bot": s.bot.Name()})
}

func (s *Server) bots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"bots": searcher.BOT_NAMES, "active": s.bot.Name()})
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request) {
	req := searcher.Request{}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if len(req.Hypotheses) == 0 {
		writeError(w, r, http.StatusBadRequest, searcher.ErrNoHypotheses)
		return
	}
	for h, state := range req.Hypotheses {
		if err := s.checkState(state); err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Errorf("hypothesis %d: %w", h, err))
			return
		}
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	decision, err := s.bot.Choose(ctx, req)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	hlog.FromRequest(r).Debug().
		Str("decision_id", decision.ID.String()).
		Str("action", decision.Action.String()).
		Float64("floor", decision.Floor).
		Int("depth", decision.Report.Depth).
		Bool("degraded", decision.Report.Degraded).
		Msg("decided")

	writeJSON(w, http.StatusOK, decision)
}

// MatrixRequest asks for the payoff matrix of every legal pair in one state
type MatrixRequest struct {
	State *engine.BattleState `json:"state"`
	Depth int                 `json:"depth"`
}

type MatrixResponse struct {
	Matrix *searcher.PayoffMatrix `json:"matrix"`
	Report searcher.Report        `json:"report"`
}

func (s *Server) matrix(w http.ResponseWriter, r *http.Request) {
	req := MatrixRequest{}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.checkState(req.State); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	mine, theirs, err := engine.LegalOptions(req.State)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	m, report, err := s.searcher.Evaluate(ctx, req.State, mine, theirs, req.Depth)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, MatrixResponse{Matrix: m, Report: report})
}

func (s *Server) checkState(state *engine.BattleState) error {
	if state == nil {
		return errors.New("missing state")
	}
	if err := state.Validate(); err != nil {
		return err
	}
	return s.dex.CheckState(state)
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(r.Context(), s.timeout)
	}
	return context.WithCancel(r.Context())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MAX_BODY_SIZE))
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrIllegalAction),
		errors.Is(err, engine.ErrUnknownMove),
		errors.Is(err, engine.ErrUnknownSpecies),
		errors.Is(err, engine.ErrNoLegalAction),
		errors.Is(err, searcher.ErrEmptyMatrix),
		errors.Is(err, searcher.ErrNoHypotheses):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	event := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.Err(err).Int("status", status).Msg("request failed")

	writeJSON(w, status, map[string]any{"error": err.Error()})
}
