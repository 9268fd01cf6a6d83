package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"task_manager/internal/migrate"
	"task_manager/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	migs, err := migrate.Load(migrations.FS)
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}

	runner := migrate.NewRunner(db, migs)
	ctx := context.Background()

	if !*apply {
		applied, err := runner.Applied(ctx)
		if err != nil {
			log.Fatalf("read applied versions: %v", err)
		}
		for _, m := range migs {
			status := "pending"
			if applied[m.Version] {
				status = "applied"
			}
			fmt.Printf("%s\t%s\n", m.Name, status)
		}
		return
	}

	n, err := runner.Apply(ctx)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Printf("applied %d migration(s)\n", n)
}
