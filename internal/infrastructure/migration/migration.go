package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup.
// Every statement is idempotent so the list can run on each boot.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range Migrations() {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func Migrations() []Migration {
	return []Migration{
		{Name: "create_users", Up: execSQL(createUsers)},
		{Name: "create_resumes", Up: execSQL(createResumes)},
		{Name: "create_subscriptions", Up: execSQL(createSubscriptions)},
		{Name: "create_payment_orders", Up: execSQL(createPaymentOrders)},
	}
}

func execSQL(query string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, query)
		return err
	}
}

const createUsers = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const createResumes = `
CREATE TABLE IF NOT EXISTS resumes (
	id         UUID PRIMARY KEY,
	owner_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	template   TEXT NOT NULL CHECK (template IN ('corporate', 'fresher', 'general', 'technical', 'internship')),
	content    JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS resumes_owner_updated_idx ON resumes (owner_id, updated_at DESC);`

const createSubscriptions = `
CREATE TABLE IF NOT EXISTS subscriptions (
	id                UUID PRIMARY KEY,
	owner_id          UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	status            TEXT NOT NULL DEFAULT 'inactive',
	plan_type         TEXT NOT NULL,
	expires_at        TIMESTAMPTZ,
	payment_ref       TEXT,
	ai_downloads_used INTEGER NOT NULL DEFAULT 0 CHECK (ai_downloads_used >= 0),
	total_downloads   INTEGER NOT NULL DEFAULT 0 CHECK (total_downloads >= 0),
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const createPaymentOrders = `
CREATE TABLE IF NOT EXISTS payment_orders (
	order_id   TEXT PRIMARY KEY,
	owner_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	plan_type  TEXT NOT NULL,
	amount     BIGINT NOT NULL,
	currency   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'created',
	payment_id TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS payment_orders_owner_idx ON payment_orders (owner_id);`
