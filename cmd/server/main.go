// Package main runs the presale service: an HTTP API for purchases,
// claims and vesting snapshots over a pricing calendar, with a
// simulated or RPC-backed chain ledger behind it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"presale-vesting-service/internal/chain"
	"presale-vesting-service/internal/config"
	"presale-vesting-service/internal/domain"
	"presale-vesting-service/internal/ledger"
	"presale-vesting-service/internal/observability"
	"presale-vesting-service/internal/oracle"
	"presale-vesting-service/internal/pricing"
	"presale-vesting-service/internal/reporting"
	"presale-vesting-service/internal/storage"
	chstore "presale-vesting-service/internal/storage/clickhouse"
	"presale-vesting-service/internal/storage/memory"
	"presale-vesting-service/internal/storage/migrations"
	pgstore "presale-vesting-service/internal/storage/postgres"
	"presale-vesting-service/internal/vesting"
)

// Server holds all components of the presale service.
type Server struct {
	cfg         config.Config
	calendar    *pricing.Calendar
	vestingCfg  domain.VestingConfig
	ledger      *ledger.Ledger
	chainLedger chain.Ledger
	prices      oracle.Source
	generator   *reporting.Generator
	logger      *log.Logger

	// State
	mu        sync.Mutex
	started   time.Time
	purchases int
	claims    int
}

func main() {
	// Load .env file if exists
	config.LoadEnvFile()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	// Parse flags (env-derived config as defaults)
	listenAddr := flag.String("listen-addr", cfg.ListenAddr, "HTTP listen address")
	ledgerMode := flag.String("ledger-mode", cfg.LedgerMode, "Ledger mode: simulated or onchain")
	rpcEndpoint := flag.String("rpc-endpoint", cfg.RPCEndpoint, "Chain RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", cfg.WSEndpoint, "Price stream WebSocket endpoint")
	oracleEndpoint := flag.String("oracle-endpoint", cfg.OracleEndpoint, "Price oracle HTTP endpoint")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL")

	flag.Parse()

	cfg.ListenAddr = *listenAddr
	cfg.LedgerMode = *ledgerMode
	cfg.RPCEndpoint = *rpcEndpoint
	cfg.WSEndpoint = *wsEndpoint
	cfg.OracleEndpoint = *oracleEndpoint
	cfg.PostgresDSN = *postgresDSN
	cfg.ClickhouseDSN = *clickhouseDSN
	cfg.UseMemory = *useMemory

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	purchaseStore, eventStore, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Create ledger. A postgres store can be shared with cmd/report or
	// another server instance, so only memory storage is sole-writer.
	led, err := ledger.New(ledger.Options{
		Store:      purchaseStore,
		Events:     eventStore,
		SoleWriter: cfg.UseMemory,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatalf("Failed to create ledger: %v", err)
	}

	// Create chain ledger
	chainLedger, err := createChainLedger(cfg)
	if err != nil {
		logger.Fatalf("Failed to create chain ledger: %v", err)
	}

	// Create price source
	prices, closePrices, err := createPriceSource(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create price source: %v", err)
	}
	defer closePrices()

	server := &Server{
		cfg:         cfg,
		calendar:    pricing.DefaultCalendar(),
		vestingCfg:  cfg.VestingConfig(),
		ledger:      led,
		chainLedger: chainLedger,
		prices:      prices,
		generator:   reporting.NewGenerator(led, eventStore),
		logger:      logger,
		started:     time.Now(),
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.routes(),
	}

	go tickUptime(ctx)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s (ledger mode: %s)", cfg.ListenAddr, cfg.LedgerMode)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// tickUptime feeds the uptime counter until shutdown.
func tickUptime(ctx context.Context) {
	const interval = 15 * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			observability.RecordUptimeTick(interval.Seconds())
		}
	}
}

// createStores creates the purchase and event stores.
func createStores(ctx context.Context, cfg config.Config) (storage.PurchaseStore, storage.EventStore, func(), error) {
	if cfg.UseMemory {
		return memory.NewPurchaseStore(), memory.NewEventStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}
	purchaseStore := pgstore.NewPurchaseStore(pool)

	// ClickHouse is optional; events fall back to memory without it.
	if cfg.ClickhouseDSN == "" {
		return purchaseStore, memory.NewEventStore(), func() { pool.Close() }, nil
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return purchaseStore, chstore.NewEventStore(chConn), cleanup, nil
}

// createChainLedger builds the chain boundary for the configured mode.
func createChainLedger(cfg config.Config) (chain.Ledger, error) {
	var rpc *chain.HTTPClient
	var wallet chain.Wallet
	if cfg.LedgerMode == chain.ModeOnChain {
		rpc = chain.NewHTTPClient(cfg.RPCEndpoint)
		// Key custody is deployment-specific; the stub signs nothing.
		wallet = chain.NewStubWallet(os.Getenv("PRESALE_WALLET_ADDRESS"))
	}
	return chain.FromMode(cfg.LedgerMode, rpc, wallet)
}

// createPriceSource builds the oracle chain: stream first, HTTP poll as
// fallback, static price as the floor.
func createPriceSource(ctx context.Context, cfg config.Config, logger *log.Logger) (oracle.Source, func(), error) {
	var base oracle.Source = oracle.StaticSource{Price: cfg.FallbackPrice}
	if cfg.OracleEndpoint != "" {
		base = oracle.NewHTTPSource(cfg.OracleEndpoint,
			oracle.WithFallbackPrice(cfg.FallbackPrice),
			oracle.WithSourceLogger(logger),
		)
	}
	if cfg.WSEndpoint == "" {
		return base, func() {}, nil
	}

	stream, err := oracle.NewStreamClient(ctx, cfg.WSEndpoint, "SOL", nil, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect price stream: %w", err)
	}
	source := oracle.NewStreamSource(stream.Updates(), base, 0)
	cleanup := func() {
		stream.Close()
		source.Close()
	}
	return source, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/purchase", s.instrument("/api/purchase", s.handlePurchase))
	mux.HandleFunc("/api/claim", s.instrument("/api/claim", s.handleClaim))
	mux.HandleFunc("/api/purchases", s.instrument("/api/purchases", s.handlePurchases))
	mux.HandleFunc("/api/snapshot", s.instrument("/api/snapshot", s.handleSnapshot))
	mux.HandleFunc("/api/aggregate", s.instrument("/api/aggregate", s.handleAggregate))
	mux.HandleFunc("/api/pricing", s.instrument("/api/pricing", s.handlePricing))
	mux.HandleFunc("/api/statement", s.instrument("/api/statement", s.handleStatement))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)

	return mux
}

// instrument wraps a handler with request metrics.
func (s *Server) instrument(path string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		observability.RecordHTTPRequest(path, strconv.Itoa(rec.status), time.Since(start).Seconds())
	}
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// purchaseRequest is the POST /api/purchase body. Exactly one of the
// amounts must be positive.
type purchaseRequest struct {
	UserID       string  `json:"user_id"`
	NativeAmount float64 `json:"native_amount,omitempty"`
	StableAmount float64 `json:"stable_amount,omitempty"`
}

// purchaseResponse echoes the recorded purchase with its pricing.
type purchaseResponse struct {
	Purchase    *domain.Purchase `json:"purchase"`
	PeriodLabel string           `json:"period_label"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if (req.NativeAmount > 0) == (req.StableAmount > 0) {
		writeError(w, http.StatusBadRequest, "exactly one of native_amount or stable_amount must be positive")
		return
	}

	now := time.Now().UTC()
	period := s.calendar.ActivePeriod(now)
	if period == nil {
		writeError(w, http.StatusConflict, "presale is not active")
		return
	}

	quote := s.prices.NativePrice(r.Context())

	var tokens float64
	switch {
	case req.NativeAmount > 0:
		if req.NativeAmount < s.cfg.MinNativeAmount || req.NativeAmount > s.cfg.MaxNativeAmount {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("native amount must be between %g and %g",
				s.cfg.MinNativeAmount, s.cfg.MaxNativeAmount))
			return
		}
		tokens = pricing.TokensFromNative(req.NativeAmount, quote.Price, period.PriceUSD)
	default:
		if req.StableAmount < s.cfg.MinStableAmount || req.StableAmount > s.cfg.MaxStableAmount {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("stable amount must be between %g and %g",
				s.cfg.MinStableAmount, s.cfg.MaxStableAmount))
			return
		}
		tokens = pricing.TokensFromStable(req.StableAmount, period.PriceUSD)
	}
	if tokens <= 0 {
		writeError(w, http.StatusBadRequest, "amount converts to zero tokens")
		return
	}

	purchase, err := s.ledger.AddPurchase(r.Context(), req.UserID, ledger.PurchaseParams{
		NativeSpent:     req.NativeAmount,
		StableSpent:     req.StableAmount,
		TokensPurchased: tokens,
		PriceContext: domain.PriceContext{
			NativeUSDPrice: quote.Price,
			TokenUSDPrice:  period.PriceUSD,
			Degraded:       quote.Degraded,
		},
		VestingConfig: s.vestingCfg,
		At:            now,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ref, err := s.chainLedger.SubmitPurchase(r.Context(), chain.PurchaseIntent{
		UserAddress:  req.UserID,
		PurchaseID:   purchase.ID,
		NativeAmount: req.NativeAmount,
		StableAmount: req.StableAmount,
		TokenAmount:  tokens,
	})
	if err != nil {
		// The purchase is recorded; the submit can be retried.
		s.logger.Printf("submit purchase %s: %v", purchase.ID, err)
	} else if err := s.ledger.SetTransactionRef(r.Context(), req.UserID, purchase.ID, ref); err != nil {
		s.logger.Printf("record tx ref for purchase %s: %v", purchase.ID, err)
	} else {
		purchase.TransactionRef = ref
	}

	s.mu.Lock()
	s.purchases++
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, purchaseResponse{Purchase: purchase, PeriodLabel: period.Label()})
}

// claimRequest is the POST /api/claim body.
type claimRequest struct {
	UserID       string `json:"user_id"`
	PurchaseID   string `json:"purchase_id"`
	TrancheIndex int    `json:"tranche_index"`
}

// claimResponse reports the released amount.
type claimResponse struct {
	Amount         float64 `json:"amount"`
	TransactionRef string  `json:"transaction_ref,omitempty"`
	// PersistWarning is set when the claim applied but its write-back
	// failed; retrying the claim will report it as already claimed.
	PersistWarning string `json:"persist_warning,omitempty"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" || req.PurchaseID == "" {
		writeError(w, http.StatusBadRequest, "user_id and purchase_id are required")
		return
	}

	now := time.Now().UTC()
	amount, err := s.ledger.Claim(r.Context(), req.UserID, req.PurchaseID, req.TrancheIndex, now)

	resp := claimResponse{Amount: amount}
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrClaimPersistence):
		resp.PersistWarning = err.Error()
	case errors.Is(err, ledger.ErrPurchaseNotFound), errors.Is(err, vesting.ErrTrancheNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, vesting.ErrAlreadyClaimed), errors.Is(err, vesting.ErrNotYetUnlocked):
		writeError(w, http.StatusConflict, err.Error())
		return
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ref, err := s.chainLedger.SubmitClaim(r.Context(), chain.ClaimIntent{
		UserAddress:  req.UserID,
		PurchaseID:   req.PurchaseID,
		TrancheIndex: req.TrancheIndex,
		TokenAmount:  amount,
	})
	if err != nil {
		s.logger.Printf("submit claim %s/%d: %v", req.PurchaseID, req.TrancheIndex, err)
	} else {
		resp.TransactionRef = ref
	}

	s.mu.Lock()
	s.claims++
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurchases(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	purchases, err := s.ledger.ListPurchases(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"purchases": purchases})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	purchaseID := r.URL.Query().Get("purchase_id")
	if userID == "" || purchaseID == "" {
		writeError(w, http.StatusBadRequest, "user_id and purchase_id are required")
		return
	}

	snap, err := s.ledger.SnapshotPurchase(r.Context(), userID, purchaseID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, ledger.ErrPurchaseNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	agg, err := s.ledger.Aggregate(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// pricingResponse is the GET /api/pricing payload.
type pricingResponse struct {
	Active   *domain.PricingPeriod  `json:"active,omitempty"`
	Next     *domain.PricingPeriod  `json:"next,omitempty"`
	Progress pricing.Progress       `json:"progress"`
	Periods  []domain.PricingPeriod `json:"periods"`
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, pricingResponse{
		Active:   s.calendar.ActivePeriod(now),
		Next:     s.calendar.NextPeriod(now),
		Progress: s.calendar.Progress(now),
		Periods:  s.calendar.Periods(),
	})
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	statement, err := s.generator.Generate(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, statement)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(reporting.RenderMarkdown(statement)))
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte(reporting.RenderCSV(statement.Tranches)))
	default:
		writeError(w, http.StatusBadRequest, "format must be json, markdown or csv")
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	LedgerMode string `json:"ledger_mode"`
	Purchases  int    `json:"purchases"`
	Claims     int    `json:"claims"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:     "running",
		Uptime:     time.Since(s.started).String(),
		LedgerMode: s.cfg.LedgerMode,
		Purchases:  s.purchases,
		Claims:     s.claims,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
