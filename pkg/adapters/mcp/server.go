package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/threeprimes"
	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// Engine defines what the MCP server needs from the core.
type Engine interface {
	ports.TripleFinder
	ModExpContext(ctx context.Context, base, exponent, modulus *big.Int) (*big.Int, error)
	TestWitnesses(ctx context.Context, n *big.Int, witnesses int) (domain.Primality, error)
	Witnesses() int
}

// ModExpArgs are the arguments of the mod_exp tool.
type ModExpArgs struct {
	Base     string `mapstructure:"base"`
	Exponent string `mapstructure:"exponent"`
	Modulus  string `mapstructure:"modulus"`
}

// PrimalityArgs are the arguments of the test_primality tool.
type PrimalityArgs struct {
	N         string `mapstructure:"n"`
	Witnesses int    `mapstructure:"witnesses"`
}

// TripleArgs are the arguments of the find_triple tool.
type TripleArgs struct {
	N string `mapstructure:"n"`
}

// TripleResult is the structured output of find_triple.
type TripleResult struct {
	N      string   `json:"n" jsonschema_description:"The odd integer that was decomposed"`
	Found  bool     `json:"found" jsonschema_description:"False if no triple exists below n"`
	Triple []string `json:"triple,omitempty" jsonschema_description:"Three probable primes i <= j <= k summing to n"`
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine        Engine
	searchTimeout time.Duration
	logger        *slog.Logger
	mcpServer     *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSearchTimeout bounds every tool call. Zero disables the limit.
func WithSearchTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.searchTimeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("threeprimes-mcp", strings.TrimSpace(threeprimes.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("mod_exp",
		mcp.WithDescription("Compute base^exponent mod modulus for arbitrary precision decimal integers."),
		mcp.WithString("base", mcp.Required(), mcp.Description("Decimal base, may be negative")),
		mcp.WithString("exponent", mcp.Required(), mcp.Description("Non-negative decimal exponent")),
		mcp.WithString("modulus", mcp.Required(), mcp.Description("Positive decimal modulus")),
	), s.handleModExp)

	s.mcpServer.AddTool(mcp.NewTool("test_primality",
		mcp.WithDescription("Run the Miller-Rabin test on a non-negative decimal integer."),
		mcp.WithString("n", mcp.Required(), mcp.Description("Decimal integer to test, as a string")),
		mcp.WithNumber("witnesses", mcp.Description("Number of random witness rounds (default from server config)")),
	), s.handleTestPrimality)

	s.mcpServer.AddTool(mcp.NewTool("find_triple",
		mcp.WithDescription("Find three probable primes summing to an odd integer greater than 7."),
		mcp.WithString("n", mcp.Required(), mcp.Description("Odd decimal integer greater than 7")),
		mcp.WithOutputSchema[TripleResult](),
	), s.handleFindTriple)
}

func (s *Server) handleModExp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ModExpArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vals, err := domain.ParseDecimals(args.Base, args.Exponent, args.Modulus)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.engine.ModExpContext(ctx, vals[0], vals[1], vals[2])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("mod_exp failed: %v", err)), nil
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleTestPrimality(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args PrimalityArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vals, err := domain.ParseDecimals(args.N)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	witnesses := args.Witnesses
	if witnesses == 0 {
		witnesses = s.engine.Witnesses()
	}
	if witnesses > domain.MaxWitnesses {
		return mcp.NewToolResultError(fmt.Sprintf("witnesses must be at most %d", domain.MaxWitnesses)), nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	verdict, err := s.engine.TestWitnesses(ctx, vals[0], witnesses)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("test failed: %v", err)), nil
	}
	return mcp.NewToolResultText(verdict.String()), nil
}

func (s *Server) handleFindTriple(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args TripleArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vals, err := domain.ParseDecimals(args.N)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n := vals[0]

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	triple, found, err := s.engine.Find(ctx, n)
	if err != nil {
		s.logger.Warn("find_triple failed", "n", n, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	result := TripleResult{N: n.String(), Found: found}
	text := fmt.Sprintf("no triple found for %v", n)
	if found {
		result.Triple = []string{triple.I.String(), triple.J.String(), triple.K.String()}
		text = triple.String()
	}
	return mcp.NewToolResultStructured(result, text), nil
}

// maxExactInteger is the largest integer a JSON number carries without rounding (2^53-1).
const maxExactInteger = 1<<53 - 1

// decodeArgs maps the loosely typed tool arguments onto dst.
// Integers may arrive as JSON strings or as JSON numbers small enough to be exact.
func decodeArgs(request mcp.CallToolRequest, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		DecodeHook:       mapstructure.DecodeHookFuncType(exactIntegerHook),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(request.GetArguments()); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// exactIntegerHook rejects JSON numbers that are fractional or beyond float64's
// exact integer range, and formats the rest without exponent notation.
func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.searchTimeout > 0 {
		return context.WithTimeout(ctx, s.searchTimeout)
	}
	return context.WithCancel(ctx)
}

func exactIntegerHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32 {
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || math.Abs(f) > maxExactInteger {
		return nil, fmt.Errorf("%v is not an exact integer, send large values as decimal strings: %w", f, domain.ErrInvalidInput)
	}
	if to.Kind() == reflect.String {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return data, nil
}
