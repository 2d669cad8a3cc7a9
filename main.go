package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"ctonews/cache"
	"ctonews/cmd/crawl"
	"ctonews/config"
	"ctonews/jobs"
	"ctonews/log"
	ctomiddleware "ctonews/middleware"
	"ctonews/routes"
	"ctonews/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use: "ctonews",
		Run: func(_ *cobra.Command, _ []string) {
			runServer()
		},
	}
	rootCmd.AddCommand(crawl.Cmd)

	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

func runServer() {
	articleCache := cache.New()
	articleStore := store.New(config.Cfg.DataFile)
	runner := jobs.NewRunner(jobs.DefaultWorkerCount)
	deps := jobs.Deps{Cache: articleCache, Store: articleStore}

	handler := &routes.Handler{
		Cache:  articleCache,
		Store:  articleStore,
		Runner: runner,
	}

	r := chi.NewRouter()
	r.Use(ctomiddleware.Logger)
	r.Use(chimiddleware.Compress(5))
	r.Use(ctomiddleware.Recoverer)
	r.Use(chimiddleware.GetHead)

	r.Get("/", handler.Root)
	r.Get("/health", handler.Health)
	r.Route("/api/news", func(r chi.Router) {
		r.Get("/", handler.NewsIndex)
		r.Get("/status/info", handler.NewsStatus)
		r.Post("/crawl", handler.NewsCrawl)
		r.Post("/cache/refresh", handler.CacheRefresh)
		r.Get("/{articleId}", handler.NewsShow)
	})

	jobs.StartupLoad(runner, deps)

	server := &http.Server{
		Addr:              config.Cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", config.Cfg.ListenAddr).Msg("Started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	// Interrupted crawls flush their partial batches before the workers
	// exit.
	runner.Shutdown()
	log.Info().Msg("Shutdown complete")
}
