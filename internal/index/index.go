// Package index wraps the vector-similarity backend behind build-or-load
// semantics: if the persist directory exists the index is loaded from it,
// otherwise the corpus is embedded and the result persisted for next time.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/viant/sqlite-vec/engine"
	"github.com/viant/sqlite-vec/index/bruteforce"

	"bookrec/backend/internal/vector"
)

const dbFile = "index.db"

// Match is one nearest-neighbor hit, best first. Content is the raw
// document text; callers own its interpretation.
type Match struct {
	Content string
	Score   float64
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Adapter holds the in-memory kNN index. A zero or failed-to-open Adapter
// is usable: Search on it returns no matches instead of an error, so the
// service degrades to "no recommendations".
type Adapter struct {
	embedder Embedder
	idx      *bruteforce.Index
	contents map[string]string
	ready    bool
}

// Open loads the persisted index from dir, or builds it from the corpus at
// corpusPath when dir does not exist. On error the returned Adapter is
// still non-nil and not ready.
func Open(ctx context.Context, embedder Embedder, dir, corpusPath string) (*Adapter, error) {
	a := &Adapter{embedder: embedder}
	if embedder == nil {
		return a, fmt.Errorf("index: no embedding backend configured")
	}

	var docs []vector.Document
	var err error
	if _, statErr := os.Stat(dir); statErr == nil {
		docs, err = load(ctx, filepath.Join(dir, dbFile))
		if err != nil {
			return a, err
		}
		slog.InfoContext(ctx, "vector index loaded", "path", dir, "documents", len(docs))
	} else {
		docs, err = build(ctx, embedder, dir, corpusPath)
		if err != nil {
			return a, err
		}
		slog.InfoContext(ctx, "vector index built", "path", dir, "documents", len(docs))
	}

	ids := make([]string, len(docs))
	vecs := make([][]float32, len(docs))
	contents := make(map[string]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		vecs[i] = d.Embedding
		contents[d.ID] = d.Content
	}

	idx := &bruteforce.Index{}
	if err := idx.Build(ids, vecs); err != nil {
		return a, fmt.Errorf("index: build: %w", err)
	}

	a.idx = idx
	a.contents = contents
	a.ready = true
	return a, nil
}

func (a *Adapter) Ready() bool {
	return a.ready
}

// Search returns up to k documents ranked by cosine similarity, highest
// first. A non-ready adapter returns no matches and no error.
func (a *Adapter) Search(ctx context.Context, query string, k int) ([]Match, error) {
	if !a.ready || a.idx == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("index: embed query: %w", err)
	}

	ids, scores, err := a.idx.Query(vec, k)
	if err != nil {
		return nil, fmt.Errorf("index: query: %w", err)
	}

	out := make([]Match, 0, len(ids))
	for i, id := range ids {
		out = append(out, Match{Content: a.contents[id], Score: scores[i]})
	}
	return out, nil
}

func load(ctx context.Context, path string) ([]vector.Document, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", path, err)
	}
	defer db.Close()

	docs, err := vector.NewStore(db).LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: load %s: %w", path, err)
	}
	return docs, nil
}

func build(ctx context.Context, embedder Embedder, dir, corpusPath string) ([]vector.Document, error) {
	raw, err := os.ReadFile(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("index: read corpus: %w", err)
	}

	// One corpus line is exactly one document; no semantic chunking.
	var docs []vector.Document
	var texts []string
	for i, line := range strings.Split(string(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		docs = append(docs, vector.Document{ID: strconv.Itoa(i), Content: line})
		texts = append(texts, line)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("index: corpus %s has no documents", corpusPath)
	}

	slog.InfoContext(ctx, "building vector index from corpus", "documents", len(docs), "corpus", corpusPath)
	embeddings, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("index: embed corpus: %w", err)
	}
	if len(embeddings) != len(docs) {
		return nil, fmt.Errorf("index: got %d embeddings for %d documents", len(embeddings), len(docs))
	}
	for i := range docs {
		docs[i].Embedding = embeddings[i]
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("index: create %s: %w", dir, err)
	}
	db, err := engine.Open(filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", dir, err)
	}
	defer db.Close()

	store := vector.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("index: ensure schema: %w", err)
	}
	if err := store.SaveAll(ctx, docs); err != nil {
		return nil, fmt.Errorf("index: persist: %w", err)
	}
	return docs, nil
}
