package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/Skotchmaster/content_backend/internal/db"
)

func main() {
	dsn := flag.String("dsn", "", "postgres connection string (default $DATABASE_URL)")
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	_ = godotenv.Load()
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" || strings.HasPrefix(*dsn, db.SQLitePrefix) {
		log.Fatal("migrate: a postgres DATABASE_URL is required")
	}

	sqlDB, err := sql.Open("postgres", *dsn)
	if err != nil {
		log.Fatalf("migrate: open: %v", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.RunMigrations(ctx, sqlDB, command); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
	log.Printf("migrate %s: done", command)
}
