package db_test

import (
	"context"
	"testing"

	dbembed "github.com/garnizeh/internradar/db"
	"github.com/garnizeh/internradar/internal/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, "file:"+t.Name()+"?mode=memory&cache=shared", nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestMigrateCreatesSchema(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	if err := db.Migrate(ctx, d, dbembed.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"users", "internships", "applications", "jobs", "dead_letter_jobs"} {
		var name string
		row := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err := row.Scan(&name); err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	if err := db.Migrate(ctx, d, dbembed.Migrations); err != nil {
		t.Fatalf("first migrate: %v", err)
	}

	var before int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&before); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if before == 0 {
		t.Fatal("expected at least one applied migration")
	}

	if err := db.Migrate(ctx, d, dbembed.Migrations); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var after int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&after); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if after != before {
		t.Errorf("rerun changed applied migrations: before=%d after=%d", before, after)
	}
}
