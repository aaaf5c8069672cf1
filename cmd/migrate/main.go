package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oceanlab/argoscout/internal/pkg/config"
)

// Ordered list of migration files. Down migrations are derived by suffix.
var migrations = []string{
	"001_init_extensions.sql",
	"002_profiles.sql",
}

func main() {
	if len(os.Args) < 2 || (os.Args[1] != "up" && os.Args[1] != "down") {
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down]")
		os.Exit(2)
	}
	direction := os.Args[1]

	cfg, err := config.Load("argoscout-migrate")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	dir := "migrations"
	files := migrations
	if direction == "down" {
		// Apply down scripts in reverse order.
		files = make([]string, 0, len(migrations))
		for i := len(migrations) - 1; i >= 0; i-- {
			files = append(files, migrations[i][:len(migrations[i])-4]+".down.sql")
		}
	}

	for _, name := range files {
		path := filepath.Join(dir, name)
		sql, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			log.Fatalf("apply %s: %v", path, err)
		}
		log.Printf("applied %s", name)
	}

	log.Printf("migrations %s complete", direction)
}
