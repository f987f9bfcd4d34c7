package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"conferente/infrastructure/history"
	httpserver "conferente/infrastructure/http"
	"conferente/infrastructure/sqlite"
	"conferente/infrastructure/tarememory"
)

func main() {
	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "conferente.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// Empty dir selects the embedded migrations.
	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	memory := tarememory.NewStore(context.Background(), db)
	weighingLog := history.NewStore(db)

	server := httpserver.NewServer(addr, db, memory, weighingLog)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("conferente listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
