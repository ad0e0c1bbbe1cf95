package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/ports"
)

//go:embed schema.sql
var schema string

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository keeps the import ledger, staged review batches and
// created wardrobe items in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var (
	_ ports.ImportLedger = (*PostgresRepository)(nil)
	_ ports.ReviewStore  = (*PostgresRepository)(nil)
	_ ports.CatalogSink  = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the tables if they do not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// AlreadyProcessed returns a map with IDs that already exist in storage.
func (r *PostgresRepository) AlreadyProcessed(ctx context.Context, ids []string) (map[string]bool, error) {
	if r.db == nil || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := processedQuery(ids)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// MarkProcessed records message IDs as consumed by batchID.
func (r *PostgresRepository) MarkProcessed(ctx context.Context, batchID string, ids []string) error {
	if r.db == nil || len(ids) == 0 {
		return nil
	}

	query, args, err := markProcessedQuery(batchID, ids)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert processed: %w", err)
	}
	return nil
}

// SaveBatch stages review items under batchID, replacing a previous attempt.
func (r *PostgresRepository) SaveBatch(ctx context.Context, batchID string, items []domain.ReviewItem) error {
	if r.db == nil || len(items) == 0 {
		return nil
	}

	query, args, err := reviewItemsQuery(batchID, items)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM review_items WHERE batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("clear batch: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert review items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CreateItems adds items to the wardrobe; an image already present is kept as is.
func (r *PostgresRepository) CreateItems(ctx context.Context, batchID string, items []domain.ReviewItem) error {
	if r.db == nil || len(items) == 0 {
		return nil
	}

	query, args, err := wardrobeItemsQuery(batchID, items)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert wardrobe items: %w", err)
	}
	return nil
}

func processedQuery(ids []string) (string, []interface{}, error) {
	query, args, err := psql.
		Select("message_id").
		From("processed_messages").
		Where(sq.Expr("message_id = ANY(?)", pq.StringArray(ids))).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build processed query: %w", err)
	}
	return query, args, nil
}

func markProcessedQuery(batchID string, ids []string) (string, []interface{}, error) {
	insert := psql.Insert("processed_messages").Columns("message_id", "batch_id")
	for _, id := range ids {
		insert = insert.Values(id, batchID)
	}
	query, args, err := insert.Suffix("ON CONFLICT (message_id) DO NOTHING").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build processed insert: %w", err)
	}
	return query, args, nil
}

func reviewItemsQuery(batchID string, items []domain.ReviewItem) (string, []interface{}, error) {
	insert := psql.Insert("review_items").
		Columns("batch_id", "position", "name", "image_url", "brand", "size", "color")
	for pos, item := range items {
		insert = insert.Values(batchID, pos, item.Name, item.ImageURL, item.Brand, item.Size, item.Color)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build review insert: %w", err)
	}
	return query, args, nil
}

func wardrobeItemsQuery(batchID string, items []domain.ReviewItem) (string, []interface{}, error) {
	insert := psql.Insert("wardrobe_items").
		Columns("image_url", "batch_id", "name", "brand", "size", "color")
	for _, item := range items {
		insert = insert.Values(item.ImageURL, batchID, item.Name, item.Brand, item.Size, item.Color)
	}
	query, args, err := insert.Suffix("ON CONFLICT (image_url) DO NOTHING").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build wardrobe insert: %w", err)
	}
	return query, args, nil
}
