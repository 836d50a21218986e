// Package main is the entrypoint for the intent-router.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/morezero/intent-router/internal/config"
	"github.com/morezero/intent-router/internal/server"
	"github.com/morezero/intent-router/pkg/audit"
	"github.com/morezero/intent-router/pkg/intents"
	"github.com/morezero/intent-router/pkg/nlu"
)

const usage = `Usage: router [command]

Commands:
  (default)         Start the intent router (NATS, dispatch loop, HTTP).
  migrate up        Create the dispatch audit schema if missing.
  migrate status    Report whether the audit schema exists and its row count.
  history <corrId>  Print the audit records for one correlation id.
  recognize <text>  Recognize one utterance locally and print the outcome.

Environment: COMMS_URL, DATABASE_URL (migrate), INTENTS_FILE, RESPONSES_FILE. See README for full list.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "migrate":
		sub := "up"
		if len(args) > 1 {
			sub = args[1]
		}
		if err := runMigrate(sub); err != nil {
			log.Fatalf("router migrate: %v", err)
		}
		return
	case "history":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "history needs a correlation id.\n%s", usage)
			os.Exit(1)
		}
		if err := runHistory(args[1]); err != nil {
			log.Fatalf("router history: %v", err)
		}
		return
	case "recognize":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "recognize needs an utterance.\n%s", usage)
			os.Exit(1)
		}
		if err := runRecognize(strings.Join(args[1:], " ")); err != nil {
			log.Fatalf("router recognize: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "":
		// fall through to server
	default:
		// unknown subcommand
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("router: fatal error: %v", err)
	}
}

func runMigrate(sub string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := audit.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	switch sub {
	case "up":
		if err := audit.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		fmt.Println("audit schema is up to date")
		return nil
	case "status":
		exists, rows, err := audit.SchemaStatus(ctx, pool)
		if err != nil {
			return fmt.Errorf("schema status: %w", err)
		}
		if !exists {
			fmt.Println("audit schema: missing (run 'router migrate up')")
			return nil
		}
		fmt.Printf("audit schema: present, %d row(s)\n", rows)
		return nil
	default:
		return fmt.Errorf("unknown migrate subcommand %q (want up or status)", sub)
	}
}

func runHistory(correlationID string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := audit.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	repo := audit.NewRepository(pool)
	records, err := repo.RecentByCorrelation(ctx, correlationID, 50)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	if len(records) == 0 {
		fmt.Printf("no dispatch records for correlation id %s\n", correlationID)
		return nil
	}
	for _, rec := range records {
		outcome := "ok"
		if !rec.Ok {
			outcome = rec.ErrorCode
		}
		fmt.Printf("%s  %-24s %-14s %4dms  %s\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Intent, outcome, rec.DurationMs, rec.EnvelopeID)
	}
	return nil
}

// runRecognize loads the configured vocabulary and recognizes one utterance
// without touching NATS or the queue.
func runRecognize(text string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	manifest := intents.LoadManifest(cfg.IntentsFile)
	engine := nlu.NewEngine(nlu.EngineOpts{})
	engine.Load(manifest.Intents)
	resolver := nlu.NewAliasResolver(manifest.Aliases)

	rec := nlu.Recognize(engine, resolver, text)
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
