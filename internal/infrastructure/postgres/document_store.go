package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/formaciones-api/internal/infrastructure/docstore"
)

var _ docstore.Store = (*DocumentStore)(nil)

// querier lo que comparten *pgxpool.Pool y pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentStore almacén documental sobre una única tabla JSONB (documents).
type DocumentStore struct {
	*documentOps
	pool *pgxpool.Pool
}

// NewDocumentStore construye el store sobre el pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{documentOps: &documentOps{q: pool, inTx: false}, pool: pool}
}

// RunTx inicia una transacción, ejecuta fn con operaciones atadas a la tx y hace Commit o Rollback.
func (s *DocumentStore) RunTx(ctx context.Context, fn func(tx docstore.Ops) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&documentOps{q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type documentOps struct {
	q    querier
	inTx bool
}

const selectDocument = `SELECT key, data, version, updated_at FROM documents`

func scanDocument(row pgx.Row) (*docstore.Document, error) {
	var d docstore.Document
	var data []byte
	if err := row.Scan(&d.Key, &data, &d.Version, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Data = data
	return &d, nil
}

func (o *documentOps) get(ctx context.Context, query, key string) (*docstore.Document, error) {
	d, err := scanDocument(o.q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document %s: %w", key, err)
	}
	return d, nil
}

// Get obtiene un documento; (nil, nil) si no existe.
func (o *documentOps) Get(ctx context.Context, key string) (*docstore.Document, error) {
	return o.get(ctx, selectDocument+` WHERE key = $1`, key)
}

// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) hasta el fin de la transacción.
func (o *documentOps) GetForUpdate(ctx context.Context, key string) (*docstore.Document, error) {
	if !o.inTx {
		return o.Get(ctx, key)
	}
	return o.get(ctx, selectDocument+` WHERE key = $1 FOR UPDATE`, key)
}

// Put upsert sin condición.
func (o *documentOps) Put(ctx context.Context, key string, data []byte) (int64, error) {
	query := `
		INSERT INTO documents (key, data, version, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, version = documents.version + 1, updated_at = now()
		RETURNING version`
	var v int64
	if err := o.q.QueryRow(ctx, query, key, data).Scan(&v); err != nil {
		return 0, fmt.Errorf("put document %s: %w", key, err)
	}
	return v, nil
}

// PutIf escritura condicional: version 0 exige que la clave no exista.
func (o *documentOps) PutIf(ctx context.Context, key string, data []byte, version int64) (int64, error) {
	var (
		query string
		args  []any
	)
	if version == 0 {
		query = `
			INSERT INTO documents (key, data, version, updated_at)
			VALUES ($1, $2, 1, now())
			ON CONFLICT (key) DO NOTHING
			RETURNING version`
		args = []any{key, data}
	} else {
		query = `
			UPDATE documents SET data = $2, version = version + 1, updated_at = now()
			WHERE key = $1 AND version = $3
			RETURNING version`
		args = []any{key, data, version}
	}
	var v int64
	if err := o.q.QueryRow(ctx, query, args...).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, docstore.ErrVersionConflict
		}
		if isUniqueViolation(err) {
			return 0, docstore.ErrVersionConflict
		}
		return 0, fmt.Errorf("put document %s: %w", key, err)
	}
	return v, nil
}

// Delete elimina la clave (no falla si no existe).
func (o *documentOps) Delete(ctx context.Context, key string) error {
	if _, err := o.q.Exec(ctx, `DELETE FROM documents WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

// Scan recorre por prefijo en orden binario de clave.
func (o *documentOps) Scan(ctx context.Context, prefix string) ([]*docstore.Document, error) {
	rows, err := o.q.Query(ctx, selectDocument+` WHERE starts_with(key, $1) ORDER BY key COLLATE "C"`, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan documents %s: %w", prefix, err)
	}
	defer rows.Close()

	out := make([]*docstore.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan documents %s: %w", prefix, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// isUniqueViolation 23505: dos INSERT concurrentes de la misma clave.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
