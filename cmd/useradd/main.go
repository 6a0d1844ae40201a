package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/Skotchmaster/content_backend/internal/config"
	"github.com/Skotchmaster/content_backend/internal/db"
	"github.com/Skotchmaster/content_backend/internal/events"
	"github.com/Skotchmaster/content_backend/internal/hash"
	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/repo"
	"github.com/Skotchmaster/content_backend/internal/service"
	"github.com/Skotchmaster/content_backend/internal/transport"
)

func main() {
	username := flag.String("u", "", "username")
	email := flag.String("e", "", "email")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	password, err := readPassword()
	if err != nil {
		log.Fatalf("password: %v", err)
	}

	req := transport.RegisterRequest{Username: *username, Email: *email, Password: password}
	if err := req.Validate(); err != nil {
		log.Fatalf("invalid input: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logging.IntoContext(ctx, logging.New(cfg.LogLevel))

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close(gdb)
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)
	defer publisher.Close()

	svc := &service.AuthService{
		Repo:   &repo.GormRepo{DB: gdb},
		Hasher: hash.New(cfg.BcryptCost),
		Events: publisher,
	}
	user, err := svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		log.Fatalf("register: %v", err)
	}
	fmt.Printf("created user %q with id %d\n", user.Username, user.ID)
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
