package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nkoncar/collecto-api/internal/config"
	"github.com/nkoncar/collecto-api/internal/database"
	"github.com/nkoncar/collecto-api/internal/models"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: promote-admin <email>")
		os.Exit(1)
	}

	email := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Pool.Exec(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE email = $2
	`, models.RoleAdmin, email)
	if err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	if result.RowsAffected() == 0 {
		log.Fatalf("No user found with email: %s", email)
	}

	fmt.Printf("Successfully promoted %s to admin\n", email)
}
