// verify_db sanity-checks a grantscout database: applies pending migrations
// and prints per-table row counts plus the application funnel by status.
package main

import (
	"context"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nmercer/grantscout/internal/db"
)

func main() {
	ctx := context.Background()

	pool, err := db.Connect(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Table", "Rows"})
	for _, name := range []string{"users", "organization_profiles", "applications"} {
		var count int
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM "+name).Scan(&count); err != nil {
			log.Fatalf("Count query failed for %s: %v", name, err)
		}
		t.AppendRow(table.Row{name, count})
	}
	t.Render()

	rows, err := pool.Query(ctx, `
		SELECT status, count(*)
		FROM applications
		GROUP BY status
		ORDER BY count(*) DESC
	`)
	if err != nil {
		log.Fatalf("Funnel query failed: %v", err)
	}
	defer rows.Close()

	funnel := table.NewWriter()
	funnel.SetOutputMirror(os.Stdout)
	funnel.AppendHeader(table.Row{"Status", "Applications"})
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		funnel.AppendRow(table.Row{status, count})
	}
	funnel.Render()
}
