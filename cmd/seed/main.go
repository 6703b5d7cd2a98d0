package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pedidoslab/pedidos-api/config"
	"github.com/pedidoslab/pedidos-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@pedidos.local"
	password := "demo123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID int64
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id
	`, email, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s password=%s\n", userID, email, password)

	orders := []struct {
		client   string
		product  string
		quantity int
		status   string
	}{
		{"Acme Corp", "Widget", 12, "Pending"},
		{"Globex", "Gadget", 3, "Shipped"},
		{"Initech", "Widget", 40, "Delivered"},
		{"Acme Corp", "Sprocket", 7, "Pending"},
	}
	for _, o := range orders {
		if _, err := db.Exec(`
			INSERT INTO pedidos (user_id, client, product, quantity, status)
			VALUES ($1, $2, $3, $4, $5)
		`, userID, o.client, o.product, o.quantity, o.status); err != nil {
			log.Fatalf("failed to seed order: %v", err)
		}
	}
	fmt.Printf("seeded %d orders for user %d\n", len(orders), userID)
}
