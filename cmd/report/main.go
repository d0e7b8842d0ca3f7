// Package main generates a vesting statement for one user from the
// persisted ledger and writes it as Markdown, CSV or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"presale-vesting-service/internal/config"
	"presale-vesting-service/internal/ledger"
	"presale-vesting-service/internal/reporting"
	"presale-vesting-service/internal/storage"
	chstore "presale-vesting-service/internal/storage/clickhouse"
	pgstore "presale-vesting-service/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	config.LoadEnvFile()

	userID := flag.String("user", "", "User ID to generate the statement for")
	format := flag.String("format", "markdown", "Output format: markdown, csv or json")
	outputDir := flag.String("output-dir", "", "Write to <output-dir>/statement_<user>.<ext> instead of stdout")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional, adds activity history)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}
	if *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var events storage.EventStore
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		events = chstore.NewEventStore(conn)
	}

	// The server may be writing concurrently; never trust cached reads.
	led, err := ledger.New(ledger.Options{
		Store:      pgstore.NewPurchaseStore(pool),
		Events:     events,
		SoleWriter: false,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger: %v\n", err)
		os.Exit(1)
	}

	statement, err := reporting.NewGenerator(led, events).Generate(ctx, *userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating statement: %v\n", err)
		os.Exit(1)
	}

	var out string
	var ext string
	switch *format {
	case "markdown":
		out, ext = reporting.RenderMarkdown(statement), "md"
	case "csv":
		out, ext = reporting.RenderCSV(statement.Tranches), "csv"
	case "json":
		data, err := json.MarshalIndent(statement, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding statement: %v\n", err)
			os.Exit(1)
		}
		out, ext = string(data)+"\n", "json"
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(1)
	}

	if *outputDir == "" {
		fmt.Print(out)
		return
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}
	path := filepath.Join(*outputDir, fmt.Sprintf("statement_%s.%s", *userID, ext))
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing statement: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Statement written to %s\n", path)
}
