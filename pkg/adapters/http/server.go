package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/threeprimes"
	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/ports"
	"github.com/aretw0/threeprimes/pkg/primality"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies; integers of a few thousand digits fit easily.
const maxBodyBytes = 1 << 20

// MaxBatchSize bounds the numbers accepted by one POST /primality.
const MaxBatchSize = 1000

// Engine defines what the HTTP adapter needs from the core.
type Engine interface {
	ports.PrimalityTester
	ports.TripleFinder
	ModExpContext(ctx context.Context, base, exponent, modulus *big.Int) (*big.Int, error)
	TestWitnesses(ctx context.Context, n *big.Int, witnesses int) (domain.Primality, error)
	Witnesses() int
}

// Jobs defines the asynchronous search service. It is optional.
type Jobs interface {
	Submit(ctx context.Context, n *big.Int) (*domain.Job, error)
	Get(ctx context.Context, id string) (*domain.Job, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	Engine        Engine
	Jobs          Jobs
	Gatherer      prometheus.Gatherer
	Concurrency   int
	SearchTimeout time.Duration
	Logger        *slog.Logger

	spec       *openapi3.T
	apiVersion string
}

// Option configures the Server.
type Option func(*Server)

// WithJobs enables the /jobs endpoints.
func WithJobs(j Jobs) Option {
	return func(s *Server) {
		s.Jobs = j
	}
}

// WithMetrics exposes g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithConcurrency bounds parallel primality tests per request.
func WithConcurrency(n int) Option {
	return func(s *Server) {
		s.Concurrency = n
	}
}

// WithSearchTimeout bounds every synchronous computation: /modexp, /primality
// and /triples. Zero disables the limit.
func WithSearchTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.SearchTimeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = l
	}
}

// WithSpec reuses an already loaded OpenAPI document for /info.
func WithSpec(doc *openapi3.T) Option {
	return func(s *Server) {
		s.spec = doc
	}
}

// NewHandler creates a new HTTP handler for the engine.
// Without WithSpec the embedded OpenAPI document is loaded once here.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:      engine,
		Concurrency: 1,
		Logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	if server.spec == nil {
		doc, err := LoadSpec(context.Background())
		if err != nil {
			server.Logger.Warn("openapi document unavailable", "error", err)
		}
		server.spec = doc
	}
	server.apiVersion = "unknown"
	if server.spec != nil && server.spec.Info != nil {
		server.apiVersion = server.spec.Info.Version
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Post("/modexp", server.ModExp)
	r.Post("/primality", server.TestPrimality)
	r.Post("/triples", server.FindTriple)
	if server.Jobs != nil {
		r.Post("/jobs", server.SubmitJob)
		r.Get("/jobs/{id}", server.GetJob)
	}
	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ModExpRequest is the body of POST /modexp.
type ModExpRequest struct {
	Base     string `json:"base"`
	Exponent string `json:"exponent"`
	Modulus  string `json:"modulus"`
}

// ModExpResponse is the result of POST /modexp.
type ModExpResponse struct {
	Result string `json:"result"`
}

// PrimalityRequest is the body of POST /primality.
type PrimalityRequest struct {
	Numbers   []string `json:"numbers"`
	Witnesses *int     `json:"witnesses,omitempty"`
}

// PrimalityResult is one verdict of POST /primality.
type PrimalityResult struct {
	N       string           `json:"n"`
	Verdict domain.Primality `json:"verdict"`
}

// PrimalityResponse is the result of POST /primality.
type PrimalityResponse struct {
	Witnesses int               `json:"witnesses"`
	Results   []PrimalityResult `json:"results"`
}

// TripleRequest is the body of POST /triples and POST /jobs.
type TripleRequest struct {
	N string `json:"n"`
}

// TripleResponse is the result of POST /triples.
type TripleResponse struct {
	N      string         `json:"n"`
	Found  bool           `json:"found"`
	Triple *domain.Triple `json:"triple,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ModExp handles the POST /modexp request.
func (s *Server) ModExp(w http.ResponseWriter, r *http.Request) {
	var body ModExpRequest
	if !s.decode(w, r, &body) {
		return
	}
	vals, err := domain.ParseDecimals(body.Base, body.Exponent, body.Modulus)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	result, err := s.Engine.ModExpContext(ctx, vals[0], vals[1], vals[2])
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, ModExpResponse{Result: result.String()})
}

// TestPrimality handles the POST /primality request.
func (s *Server) TestPrimality(w http.ResponseWriter, r *http.Request) {
	var body PrimalityRequest
	if !s.decode(w, r, &body) {
		return
	}
	if len(body.Numbers) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("numbers must not be empty"))
		return
	}
	if len(body.Numbers) > MaxBatchSize {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("at most %d numbers per request, got %d", MaxBatchSize, len(body.Numbers)))
		return
	}
	ns, err := domain.ParseDecimals(body.Numbers...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	witnesses := s.Engine.Witnesses()
	if body.Witnesses != nil {
		witnesses = *body.Witnesses
	}
	if witnesses < 1 || witnesses > domain.MaxWitnesses {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("witnesses must be in [1, %d]", domain.MaxWitnesses))
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	tester := witnessTester{engine: s.Engine, witnesses: witnesses}
	results, err := primality.TestAll(ctx, tester, ns, s.Concurrency)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp := PrimalityResponse{Witnesses: witnesses, Results: make([]PrimalityResult, len(results))}
	for i, res := range results {
		resp.Results[i] = PrimalityResult{N: res.N.String(), Verdict: res.Verdict}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// FindTriple handles the POST /triples request.
func (s *Server) FindTriple(w http.ResponseWriter, r *http.Request) {
	var body TripleRequest
	if !s.decode(w, r, &body) {
		return
	}
	vals, err := domain.ParseDecimals(body.N)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	n := vals[0]

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	triple, found, err := s.Engine.Find(ctx, n)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp := TripleResponse{N: n.String(), Found: found}
	if found {
		resp.Triple = &triple
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// SubmitJob handles the POST /jobs request.
func (s *Server) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var body TripleRequest
	if !s.decode(w, r, &body) {
		return
	}
	vals, err := domain.ParseDecimals(body.N)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	job, err := s.Jobs.Submit(r.Context(), vals[0])
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Location", "/jobs/"+job.ID)
	s.writeJSON(w, http.StatusAccepted, job)
}

// GetJob handles the GET /jobs/{id} request.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.Jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":         "threeprimes-http",
		"version":     strings.TrimSpace(threeprimes.Version),
		"api_version": s.apiVersion,
		"witnesses":   s.Engine.Witnesses(),
	})
}

// witnessTester pins the round count for a batch.
type witnessTester struct {
	engine    Engine
	witnesses int
}

func (t witnessTester) Test(ctx context.Context, n *big.Int) (domain.Primality, error) {
	return t.engine.TestWitnesses(ctx, n, t.witnesses)
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.SearchTimeout > 0 {
		return context.WithTimeout(ctx, s.SearchTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499 // client closed request
	}
	return http.StatusInternalServerError
}
