package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/b3quant/apurador/pkg/accounting"
	"github.com/b3quant/apurador/pkg/common"
	"github.com/b3quant/apurador/pkg/utility"
	"github.com/b3quant/apurador/pkg/utility/fixed"
)

// Archiver persists computed account results out of band. Optional.
type Archiver interface {
	Append(ctx context.Context, traceID utility.TraceID, ts time.Time, results []common.AccountResult) error
}

// Server is the HTTP boundary around the accounting engine. The engine is
// pure, so concurrent requests are safe by construction.
type Server struct {
	logger  *zap.Logger
	router  *mux.Router
	hub     *Hub
	metrics *Metrics
	archive Archiver

	base    accounting.Options
	origins []string
	started time.Time
}

type Option func(*Server)

func WithArchive(a Archiver) Option {
	return func(s *Server) { s.archive = a }
}

func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// NewServer wires routes and middleware around a base option set. Request
// envelopes may override reference data but never the side-mapping policy.
func NewServer(logger *zap.Logger, base accounting.Options, options ...Option) *Server {
	s := &Server{
		logger:  logger,
		router:  mux.NewRouter(),
		hub:     NewHub(logger),
		metrics: NewMetrics(),
		base:    base,
		started: time.Now(),
	}
	for _, option := range options {
		option(s)
	}
	s.base.Logger = logger

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	calculate := Chain(
		withTraceID(),
		withRecovery(s.logger),
		withRequestLog(s.logger),
		withMetrics(s.metrics, "calculate"),
	)(http.HandlerFunc(s.handleCalculate))

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.Handle("/calculate", calculate).Methods(http.MethodPost)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// Handler returns the full middleware-wrapped handler, CORS included.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Run serves until the context is cancelled, then drains gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.hub.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	records, opts, err := s.decodeRequest(body)
	if err != nil {
		var status int
		switch {
		case errors.Is(err, errUndecodableBody):
			status = http.StatusUnprocessableEntity
		default:
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusBadRequest, accounting.ErrEmptyBatch.Error())
		return
	}

	report, err := accounting.Compute(records, opts)
	if err != nil {
		switch {
		case errors.Is(err, accounting.ErrEmptyBatch), errors.Is(err, accounting.ErrNoSideMapping):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("compute failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "computation failed")
		}
		return
	}

	s.metrics.FillsAccepted.Add(float64(report.Diagnostics.Accepted))
	s.metrics.RecordsDropped.Add(float64(report.Diagnostics.Dropped))

	traceID := traceIDFrom(r.Context())
	response := calculateResponse{
		TraceID:     strconv.FormatUint(traceID, 10),
		Results:     report.Results,
		Diagnostics: report.Diagnostics,
	}

	if s.archive != nil {
		if err := s.archive.Append(r.Context(), traceID, time.Now().UTC(), report.Results); err != nil {
			s.logger.Warn("archive append failed", zap.Error(err), zap.Uint64("tid", traceID))
		}
	}
	if payload, err := json.Marshal(response); err == nil {
		s.hub.Broadcast(payload)
	}

	respondJSON(w, http.StatusOK, response)
}

var errUndecodableBody = errors.New("request body is neither a fill array nor a fills envelope")

// decodeRequest accepts a bare array of fill records or an envelope object
// with side-channel reference data, and merges the latter over the server's
// base options.
func (s *Server) decodeRequest(body []byte) ([]accounting.RawRecord, accounting.Options, error) {
	opts := s.base

	var records []accounting.RawRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records, opts, nil
	}

	var envelope calculateEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, opts, errUndecodableBody
	}

	records = envelope.Fills
	if len(records) == 0 {
		records = envelope.Orders
	}

	if envelope.ReferenceAccount != "" {
		opts.ReferenceAccount = envelope.ReferenceAccount
	}
	if envelope.Granularity != "" {
		g, err := accounting.ParseGranularity(envelope.Granularity)
		if err != nil {
			return nil, opts, err
		}
		opts.Granularity = g
	}
	if len(envelope.ReferencePrices) > 0 {
		prices := make(map[string]fixed.Point, len(envelope.ReferencePrices))
		for key, px := range envelope.ReferencePrices {
			point, err := fixed.TryFromFloat64(px)
			if err != nil {
				return nil, opts, fmt.Errorf("reference price for %s: %w", key, err)
			}
			prices[key] = point
		}
		opts.ReferencePrices = prices
	}
	if len(envelope.InstrumentSpecs) > 0 {
		specs := accounting.DefaultInstruments()
		for prefix, sp := range envelope.InstrumentSpecs {
			mult, err := fixed.TryFromFloat64(sp.ContractMultiplier)
			if err != nil {
				return nil, opts, fmt.Errorf("contract multiplier for %s: %w", prefix, err)
			}
			fee, err := fixed.TryFromFloat64(sp.FeePerUnit)
			if err != nil {
				return nil, opts, fmt.Errorf("fee per unit for %s: %w", prefix, err)
			}
			specs[prefix] = common.InstrumentSpec{
				ContractMultiplier: mult,
				FeePerUnit:         fee,
			}
		}
		opts.Specs = specs
	}

	return records, opts, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		ExecutionID: utility.GetExecutionID().String(),
		Uptime:      time.Since(s.started).Round(time.Second).String(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
