package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

const createAssessmentsTable = `CREATE TABLE IF NOT EXISTS assessments (
	id          BIGSERIAL PRIMARY KEY,
	project     TEXT        NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	document    JSONB       NOT NULL
)`

const insertAssessment = `INSERT INTO assessments (project, created_at, document) VALUES ($1, $2, $3)`

// execer is the subset of *sql.DB used by PostgresPublisher.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresPublisher stores reports in the assessments table.
type PostgresPublisher struct {
	db      execer
	closer  func() error
	project string
	now     func() time.Time
}

// OpenPostgresPublisher connects to url with the pgx driver, verifies the
// connection and creates the assessments table when missing.
func OpenPostgresPublisher(ctx context.Context, url, project string) (*PostgresPublisher, error) {
	if url == "" {
		return nil, &PublishError{Target: "postgres", Err: errors.New("database url is required")}
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, &PublishError{Target: "postgres", Err: fmt.Errorf("open: %w", err)}
	}
	db.SetMaxOpenConns(2)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &PublishError{Target: "postgres", Err: fmt.Errorf("ping: %w", err)}
	}
	if _, err := db.ExecContext(ctx, createAssessmentsTable); err != nil {
		_ = db.Close()
		return nil, &PublishError{Target: "postgres", Err: fmt.Errorf("create table: %w", err)}
	}

	p := newPostgresPublisher(db, project)
	p.closer = db.Close
	return p, nil
}

func newPostgresPublisher(db execer, project string) *PostgresPublisher {
	return &PostgresPublisher{db: db, project: project, now: time.Now}
}

// Name identifies the collector in messages.
func (p *PostgresPublisher) Name() string {
	return "postgres"
}

// Publish inserts doc as one row.
func (p *PostgresPublisher) Publish(ctx context.Context, doc []byte) error {
	if _, err := p.db.ExecContext(ctx, insertAssessment, p.project, p.now().UTC(), string(doc)); err != nil {
		return &PublishError{Target: p.Name(), Err: fmt.Errorf("insert: %w", err)}
	}
	return nil
}

// Close releases the database handle.
func (p *PostgresPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
