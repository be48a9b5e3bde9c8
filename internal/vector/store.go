package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
)

// Document is one persisted corpus record with its embedding.
type Document struct {
	ID        string
	Content   string
	Embedding []float32
}

// Store persists documents and their embeddings in a SQLite database so the
// index can be rebuilt in memory on later startups without re-embedding.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (id TEXT PRIMARY KEY, content TEXT NOT NULL, embedding BLOB NOT NULL)`)
	return err
}

func (s *Store) SaveAll(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents(id, content, embedding) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("vector: document ID must be set")
		}
		if _, err := stmt.ExecContext(ctx, d.ID, d.Content, encodeEmbedding(d.Embedding)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) LoadAll(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, embedding FROM documents ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var blob []byte
		if err := rows.Scan(&d.ID, &d.Content, &blob); err != nil {
			return nil, err
		}
		emb, err := decodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("vector: document %s: %w", d.ID, err)
		}
		d.Embedding = emb
		out = append(out, d)
	}
	return out, rows.Err()
}

// Embeddings are stored as little-endian float32 BLOBs.
func encodeEmbedding(vec []float32) []byte {
	out := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

func decodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(blob))
	}
	out := make([]float32, len(blob)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return out, nil
}
