package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/linemk/coin-trader/internal/app/handlers"
	"github.com/linemk/coin-trader/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/coin-trader/internal/lib/logger/handlers/urllog"
)

// NewRouter собирает маршруты. Публичные: /, /register, /login, /coins;
// остальные требуют bearer-токен.
func NewRouter(log *slog.Logger, allowedOrigins []string, svc *Services, keys jwtmiddleware.KeyFinder, users jwtmiddleware.UserFinder) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/", handlers.IndexHandler())
	router.Post("/register", handlers.RegisterHandler(log, svc.Auth))
	router.Post("/login", handlers.LoginHandler(log, svc.Auth))
	router.Get("/coins", handlers.CoinsHandler(log, svc.Market))
	router.Get("/coins/{coin}", handlers.PriceHandler(log, svc.Market))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(log, keys, users))
		r.Get("/balance", handlers.BalanceHandler(log, svc.Accounts))
		r.Get("/trades", handlers.TradesHandler(log, svc.Trades))
		r.Post("/coin/{coin}/buy", handlers.BuyHandler(log, svc.Trades))
		r.Post("/coin/{coin}/sell", handlers.SellHandler(log, svc.Trades))
	})

	return router
}
