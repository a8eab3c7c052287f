package database

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name     string
	email    string
	password string
}

type seedProduct struct {
	name   string
	stock  int
	price  float64
	active int
	userID int64
}

var seedUsers = []seedUser{
	{"Elesbão", "elesbao@email.com", "12345"},
	{"Genoveva", "genoveva@email.com", "12345"},
	{"Raoni", "raoni@email.com", "12345"},
}

var seedProducts = []seedProduct{
	{"Mouse Gamer RGB", 25, 149.90, 1, 1},
	{"Teclado Mecânico", 15, 299.99, 1, 1},
	{"Monitor LED 24 pol.", 8, 899.90, 0, 1},
	{"Headset USB Surround", 12, 249.50, 1, 1},
	{"Notebook i5 8GB SSD", 5, 3499.00, 0, 1},
	{"Cabo HDMI 2.1 2m", 40, 49.90, 1, 1},
	{"Suporte Articulado Monitor", 10, 189.00, 1, 1},
	{"Camiseta Básica Algodão", 30, 59.90, 1, 2},
	{"Calça Jeans Slim", 20, 139.90, 1, 2},
	{"Tênis Casual Branco", 12, 249.00, 1, 2},
	{"Jaqueta de Couro Sintético", 5, 399.90, 1, 2},
	{"Boné Esportivo", 18, 79.90, 0, 2},
	{"Vestido Floral Curto", 10, 189.00, 0, 2},
	{"Chinelo de Borracha", 25, 29.90, 1, 2},
	{"Meias Cano Médio (3 pares)", 50, 34.90, 1, 2},
}

// Seed drops both tables, recreates the schema and inserts the demo users
// and products. Destructive on purpose; it exists for local development.
func Seed(db *sql.DB) error {
	if _, err := db.Exec("DROP TABLE IF EXISTS products; DROP TABLE IF EXISTS users;"); err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}

	userStmt, err := db.Prepare("INSERT INTO users (name, email, password) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer userStmt.Close()

	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := userStmt.Exec(u.name, u.email, string(hash)); err != nil {
			return err
		}
	}

	productStmt, err := db.Prepare("INSERT INTO products (name, stock, price, active, userId) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer productStmt.Close()

	for _, p := range seedProducts {
		if _, err := productStmt.Exec(p.name, p.stock, p.price, p.active, p.userID); err != nil {
			return err
		}
	}
	return nil
}
