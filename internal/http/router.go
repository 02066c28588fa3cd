package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"dinedesk-pos-service/internal/config"
	"dinedesk-pos-service/internal/http/handlers"
	"dinedesk-pos-service/internal/kds"
	"dinedesk-pos-service/internal/middleware"
	"dinedesk-pos-service/internal/pos"
	"dinedesk-pos-service/internal/reports"
	"dinedesk-pos-service/internal/upstream"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Deps struct {
	Logger   *zap.Logger
	Config   config.Config
	Registry *pos.Registry
	Kitchen  *kds.Service
	Feed     *kds.Feed
	Reports  *reports.Service
	Upstream *upstream.Client
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(deps.Logger))

	cfg := deps.Config
	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{
		Logger:   deps.Logger,
		Config:   cfg,
		Registry: deps.Registry,
		Kitchen:  deps.Kitchen,
		Feed:     deps.Feed,
		Reports:  deps.Reports,
		Upstream: deps.Upstream,
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/menu", h.PublicMenu)
		r.Post("/orders", h.PublicOrderCreate)
	})

	r.Route("/api/pos", func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.JWTSecret))
		r.Use(middleware.RequireRestaurant())

		r.Post("/workspace", h.WorkspaceOpen)
		r.Get("/workspace", h.WorkspaceSnapshot)
		r.Delete("/workspace", h.WorkspaceClose)

		r.Post("/orders/select-table", h.OrderSelectTable)
		r.Post("/orders/adopt", h.OrderAdopt)
		r.Post("/orders/takeaway", h.OrderTakeaway)
		r.Post("/orders/delivery", h.OrderDelivery)
		r.Post("/orders/items", h.OrderAddItem)
		r.Post("/orders/manual-items", h.OrderAddManualItem)
		r.Patch("/orders/items/{lineId}", h.OrderChangeQuantity)
		r.Delete("/orders/items/{lineId}", h.OrderRemoveLine)
		r.Post("/orders/kot", h.OrderSendKOT)
		r.Post("/orders/finalize", h.OrderFinalize)
		r.Get("/orders/{orderId}/receipt", h.OrderReceiptPDF)
	})

	r.Route("/api/kds", func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.JWTSecret))
		r.Use(middleware.RequireRestaurant())

		r.Get("/orders", h.KitchenOrders)
		r.Post("/orders/{orderId}/items/{itemId}/advance", h.KitchenAdvanceItem)
	})

	r.Route("/api/tables", func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.JWTSecret))
		r.Use(middleware.RequireRestaurant())

		r.Get("/qr-link", h.TableQRLink)
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.JWTSecret))
		r.Use(middleware.RequireRestaurant())

		r.Get("/dashboard", h.ReportsDashboard)
	})

	// Token auth happens after the upgrade inside the handler.
	r.Get("/ws/kds", h.KitchenFeedWS)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

// Hijack keeps websocket upgrades working through the logging stack.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
