package services

import (
	"database/sql"

	"github.com/vilebranco/catalogo-be/internal/models"
)

// ProductServiceProvider defines the interface for product services.
type ProductServiceProvider interface {
	ListByUser(userID int64) ([]models.Product, error)
	Get(id int64) (models.Product, error)
	Create(p models.Product) (models.Product, error)
	Update(p models.Product) (models.Product, error)
	ToggleActive(id int64) (models.Product, error)
	Delete(id int64) error
}

// ProductService provides business logic for the product catalog.
type ProductService struct {
	db *sql.DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *sql.DB) *ProductService {
	return &ProductService{db: db}
}

// userExists checks whether the referenced owner is present. Ownership is
// re-checked at the application layer on every product write.
func (s *ProductService) userExists(id int64) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser returns all products owned by the given user, in insertion
// order. Returns ErrUserNotFound when the user does not exist.
func (s *ProductService) ListByUser(userID int64) ([]models.Product, error) {
	ok, err := s.userExists(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	rows, err := s.db.Query("SELECT id, name, stock, price, active, userId FROM products WHERE userId = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Always a JSON array, even when the user has no products.
	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.Price, &p.Active, &p.UserID); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get retrieves a single product by its ID.
func (s *ProductService) Get(id int64) (models.Product, error) {
	var p models.Product
	row := s.db.QueryRow("SELECT id, name, stock, price, active, userId FROM products WHERE id = ?", id)
	err := row.Scan(&p.ID, &p.Name, &p.Stock, &p.Price, &p.Active, &p.UserID)
	if err == sql.ErrNoRows {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Create inserts a new product after checking that its owner exists.
func (s *ProductService) Create(p models.Product) (models.Product, error) {
	ok, err := s.userExists(p.UserID)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, ErrUserNotFound
	}

	res, err := s.db.Exec("INSERT INTO products (name, stock, price, active, userId) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.Stock, p.Price, p.Active, p.UserID)
	if err != nil {
		return models.Product{}, err
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Update overwrites all mutable fields of an existing product. The product
// is checked before the owner, so a request that misses both reports the
// product first.
func (s *ProductService) Update(p models.Product) (models.Product, error) {
	if _, err := s.Get(p.ID); err != nil {
		return models.Product{}, err
	}

	ok, err := s.userExists(p.UserID)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, ErrUserNotFound
	}

	_, err = s.db.Exec("UPDATE products SET name = ?, stock = ?, price = ?, active = ?, userId = ? WHERE id = ?",
		p.Name, p.Stock, p.Price, p.Active, p.UserID, p.ID)
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// ToggleActive flips the product's active flag (active = 1 - active) and
// returns the updated record.
func (s *ProductService) ToggleActive(id int64) (models.Product, error) {
	if _, err := s.Get(id); err != nil {
		return models.Product{}, err
	}

	if _, err := s.db.Exec("UPDATE products SET active = 1 - active WHERE id = ?", id); err != nil {
		return models.Product{}, err
	}
	return s.Get(id)
}

// Delete removes a product. Returns ErrProductNotFound when no row matched.
func (s *ProductService) Delete(id int64) error {
	res, err := s.db.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
