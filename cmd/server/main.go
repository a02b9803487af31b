package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/config"
	"github.com/nikolayk812/cart-checkout/internal/httpapi"
	"github.com/nikolayk812/cart-checkout/internal/metrics"
	"github.com/nikolayk812/cart-checkout/internal/payment"
	"github.com/nikolayk812/cart-checkout/internal/repository"
	"github.com/nikolayk812/cart-checkout/internal/service"
	"github.com/nikolayk812/cart-checkout/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := telemetry.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("tracer shutdown", slog.Any("error", err))
		}
	}()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(connectCtx); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	carts := repository.NewCart(pool)
	products := repository.NewProduct(pool)
	orders := repository.NewOrder(pool)
	checkouts := repository.NewCheckout(pool)
	reconciliations := repository.NewReconciliation(pool)

	sandbox := payment.NewSandbox(cfg.GatewayLatency)
	gateway := payment.WithTimeout(sandbox, cfg.PaymentTimeout)
	verifier := payment.VerifierWithTimeout(sandbox, cfg.PaymentTimeout)

	cartService := service.NewCartService(carts, m, logger)
	checkoutService := service.NewCheckoutService(checkouts, orders, reconciliations, gateway, service.CheckoutConfig{
		MaxTxRetries:    cfg.MaxTxRetries,
		InFlightWait:    cfg.CheckoutWait,
		ClaimStaleAfter: cfg.ClaimStaleAfter,
		Currency:        cfg.Currency,
	}, m, logger)
	confirmationService := service.NewConfirmationService(orders, products, carts, reconciliations, verifier, service.ConfirmationConfig{
		MaxTxRetries:  cfg.MaxTxRetries,
		ClearAttempts: cfg.CartClearAttempts,
		Currency:      cfg.Currency,
	}, m, logger)
	defer confirmationService.Close()
	orderService := service.NewOrderService(orders, reconciliations, logger)

	handler := httpapi.NewHandler(cartService, checkoutService, confirmationService, orderService, products, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		UserHeader: cfg.UserHeader,
		AdminToken: cfg.AdminToken,
	}, m, registry, pool)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "http"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
