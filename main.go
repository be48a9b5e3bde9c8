package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"bookrec/backend/features/book"
	"bookrec/backend/features/recommend"
	"bookrec/backend/internal/adapter/gemini"
	"bookrec/backend/internal/app"
	"bookrec/backend/internal/config"
	"bookrec/backend/internal/index"
	"bookrec/backend/internal/logger"
)

func main() {
	// Structured JSON logs with correlation IDs from request contexts.
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Catalog. A missing or unreadable file degrades the endpoints that
	// need it to 500s instead of killing the process.
	catalog, err := book.NewStore(cfg.CatalogPath, cfg.NoCoverURL)
	if err != nil {
		slog.Error("failed to load book catalog", "error", err, "path", cfg.CatalogPath)
	} else {
		slog.Info("book catalog loaded", "books", catalog.Len(), "path", cfg.CatalogPath)
	}

	// Embedding backend and vector index. Build-or-load happens once here,
	// before the listener starts; a failure leaves a non-ready index and
	// recommendations serve empty results.
	ctx := context.Background()
	var embedder index.Embedder
	if e, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel); err != nil {
		slog.Error("embedding backend unavailable", "error", err)
	} else {
		embedder = e
	}

	searcher, err := index.Open(ctx, embedder, cfg.VectorDBPath, cfg.CorpusPath)
	if err != nil {
		slog.Error("vector index unavailable, recommendations will be empty", "error", err)
	}

	queryLogger, err := recommend.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = recommend.NewQueryLogger(os.Stdout)
	}

	application := app.New(cfg, catalog, searcher, queryLogger)

	slog.Info("server starting", "port", cfg.ServerPort)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.ServerPort), application.Handler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
