package main

import (
	"context"
	"errors"
	"expvar"
	"mytreviews/docs" //this is required to generate swagger docs
	"mytreviews/internal/crm"
	"mytreviews/internal/ratelimiter"
	"mytreviews/internal/store"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config      config
	store       store.Reviews
	logger      *zap.SugaredLogger
	crm         *crm.Dispatcher
	rateLimiter *ratelimiter.FixedWindowRateLimiter
}

type config struct {
	addr          string
	env           string
	apiURL        string
	frontendURL   string
	wordpress     store.Config
	cloudinaryURL string
	crm           crm.Config
	auth          authConfig
	rateLimiter   ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
}

type basicConfig struct {
	user string
	pass string
}

func (c config) isDevelopment() bool {
	return c.env == "development"
}

func (c config) isProduction() bool {
	return c.env == "production"
}

// allowedOrigins is the configured frontend in production and the local dev
// servers everywhere else.
func (c config) allowedOrigins() []string {
	if c.isProduction() && c.frontendURL != "" {
		return []string{c.frontendURL}
	}
	return []string{"http://localhost:5173", "http://localhost:3000"}
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(securityHeaders)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(app.RateLimiterMiddleware)

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.NotFound(app.routeNotFoundHandler)
	r.MethodNotAllowed(app.routeNotFoundHandler)

	r.Get("/health", app.healthCheckHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/", app.listReviewsHandler)
		r.Post("/", app.submitReviewHandler)
		r.Get("/test-connection", app.testConnectionHandler)

		r.Route("/{reviewID}", func(r chi.Router) {
			r.Get("/", app.getReviewHandler)
			r.Put("/status", app.updateReviewStatusHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 90,
		ReadTimeout:  time.Second * 30,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		if err := srv.Shutdown(ctx); err != nil {
			shutdown <- err
			return
		}

		// pending CRM updates get whatever is left of the shutdown budget
		app.logger.Infow("waiting for pending CRM updates")
		shutdown <- app.crm.Wait(ctx)
	}()

	app.logger.Infow("server has started",
		"addr", app.config.addr,
		"env", app.config.env,
		"mode", app.store.Mode(),
	)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
