package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres stores each table as (id TEXT PRIMARY KEY, doc JSONB).
// Scan filters are evaluated by the database.
type Postgres struct {
	db *sql.DB
}

var _ Backend = (*Postgres)(nil)

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres opens a pgx-backed *sql.DB and pings it.
func OpenPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ident(table string) string {
	return pgx.Identifier{table}.Sanitize()
}

// EnsureTables creates the given tables if they do not exist.
func (p *Postgres) EnsureTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, doc JSONB NOT NULL)`, ident(table))
		if _, err := p.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, table, key string) ([]byte, bool, error) {
	var doc []byte
	err := p.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, ident(table)), key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (p *Postgres) Put(ctx context.Context, table, key string, doc []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, ident(table))
	_, err := p.db.ExecContext(ctx, query, key, doc)
	return err
}

func (p *Postgres) Scan(ctx context.Context, table string, filter Filter) ([][]byte, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s`, ident(table))
	var args []any

	switch f := filter.(type) {
	case nil:
	case Equals:
		query += ` WHERE doc->>$1 = $2`
		args = append(args, f.Attribute, f.Value)
	case Between:
		query += ` WHERE doc->>$1 BETWEEN $2 AND $3`
		args = append(args, f.Attribute, f.Lower, f.Upper)
	default:
		return p.scanFiltered(ctx, table, filter)
	}
	query += ` ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// scanFiltered handles filters the database cannot evaluate.
func (p *Postgres) scanFiltered(ctx context.Context, table string, filter Filter) ([][]byte, error) {
	all, err := p.Scan(ctx, table, nil)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, doc := range all {
		ok, err := matches(filter, doc)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (p *Postgres) Update(ctx context.Context, table, key string, attrs Attributes) error {
	patch, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1`, ident(table)), key, patch)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, table, key string) error {
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, ident(table)), key)
	return err
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
