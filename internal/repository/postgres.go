package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/easydelivery/easydelivery/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresRepository stores documents as JSONB rows. Identifiers are ULIDs.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a connection pool, verifies it and applies the schema.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to PostgresRepository.
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// InsertUser inserts a user. The unique index on email turns duplicates into ErrEmailExists.
func (r *PostgresRepository) InsertUser(ctx context.Context, user model.Document) (string, error) {
	id, err := r.insert(ctx, `INSERT INTO users (id, doc) VALUES ($1, $2)`, user)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// FindUserByEmail returns the user with the exact email.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (model.Document, error) {
	query := `
		SELECT id, doc
		FROM users
		WHERE doc->>'email' = $1
	`

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return doc, nil
}

// InsertParcel inserts a parcel and returns its identifier.
func (r *PostgresRepository) InsertParcel(ctx context.Context, parcel model.Document) (string, error) {
	id, err := r.insert(ctx, `INSERT INTO parcels (id, doc) VALUES ($1, $2)`, parcel)
	if err != nil {
		return "", fmt.Errorf("failed to insert parcel: %w", err)
	}
	return id, nil
}

// FindParcels returns parcels matching filter, newest createdAt first.
// Rows sharing a createdAt are returned by id descending.
func (r *PostgresRepository) FindParcels(ctx context.Context, filter ParcelFilter) ([]model.Document, error) {
	query := `
		SELECT id, doc
		FROM parcels
		WHERE ($1::text = '' OR doc->>'created_by' = $1::text)
		ORDER BY doc->>'createdAt' DESC NULLS LAST, id DESC
	`

	rows, err := r.pool.Query(ctx, query, filter.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcels: %w", err)
	}
	defer rows.Close()

	parcels := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parcel: %w", err)
		}
		parcels = append(parcels, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parcels: %w", err)
	}

	return parcels, nil
}

// FindParcelByID returns the parcel with the given ULID.
func (r *PostgresRepository) FindParcelByID(ctx context.Context, id string) (model.Document, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, ErrInvalidID
	}

	query := `
		SELECT id, doc
		FROM parcels
		WHERE id = $1
	`

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find parcel: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) insert(ctx context.Context, query string, doc model.Document) (string, error) {
	body, err := json.Marshal(doc.Without(model.FieldID))
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	id := ulid.Make().String()
	if _, err := r.pool.Exec(ctx, query, id, body); err != nil {
		return "", err
	}
	return id, nil
}

// scanDocument reads an (id, doc) row into a Document carrying _id.
func scanDocument(row pgx.Row) (model.Document, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return nil, err
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	if doc == nil {
		doc = model.Document{}
	}
	doc[model.FieldID] = id
	return doc, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
