package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	ServerPort int `envconfig:"SERVER_PORT" default:"8000"`

	// Embedding backend. The key is only needed when the vector index has
	// to be built or queried; catalog endpoints serve without it.
	GeminiAPIKey   string `envconfig:"GEMINI_API_KEY"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"gemini-embedding-001"`

	// Static data sources.
	CatalogPath  string `envconfig:"CATALOG_PATH" default:"data/books_with_emotions.csv"`
	CorpusPath   string `envconfig:"CORPUS_PATH" default:"data/tagged_description.txt"`
	VectorDBPath string `envconfig:"VECTOR_DB_PATH" default:"data/vector_db"`

	// Server surface.
	StaticDir     string `envconfig:"STATIC_DIR" default:"./static"`
	NoCoverURL    string `envconfig:"NO_COVER_URL" default:"http://localhost:8000/static/cover-not-found.jpg"`
	BooksPageSize int    `envconfig:"BOOKS_PAGE_SIZE" default:"20"`
	QueryLogPath  string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`
}

func Load() (*Config, error) {
	// Env vars may be set in the shell instead; a missing .env is fine.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("%w: CATALOG_PATH", ErrMissingRequired)
	}
	if c.CorpusPath == "" {
		return fmt.Errorf("%w: CORPUS_PATH", ErrMissingRequired)
	}
	if c.VectorDBPath == "" {
		return fmt.Errorf("%w: VECTOR_DB_PATH", ErrMissingRequired)
	}
	return nil
}
