package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/vilebranco/catalogo-be/internal/models"
	"github.com/vilebranco/catalogo-be/internal/services"
	"github.com/vilebranco/catalogo-be/internal/validation"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service services.ProductServiceProvider
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service services.ProductServiceProvider) *ProductHandler {
	return &ProductHandler{service: service}
}

// ProductPayload defines the structure for create/update requests. Numeric
// fields decode into *float64 so validation can tell an absent field from a
// non-integral or negative one.
type ProductPayload struct {
	Name   *string  `json:"name"`
	Stock  *float64 `json:"stock"`
	Price  *float64 `json:"price"`
	Active *float64 `json:"active"`
	UserID *float64 `json:"userId"`
}

// queryID parses an integer query parameter. Zero and negative ids are
// accepted here and report not-found downstream.
func queryID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// validateProduct applies the product field rules and either returns the
// typed record or the field error map. Any failing field short-circuits
// persistence entirely.
func validateProduct(r *http.Request) (models.Product, validation.Fields) {
	var payload ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload = ProductPayload{}
	}

	var p models.Product
	errs := validation.Fields{}

	name, ok := validation.RequiredString(payload.Name)
	if !ok {
		errs.Add("name", "O nome do produto é obrigatório.")
	}
	p.Name = name

	stock, ok := validation.NonNegativeInt(payload.Stock)
	if !ok {
		errs.Add("stock", "O estoque do produto deve ser maior ou igual a zero.")
	}
	p.Stock = stock

	price, ok := validation.NonNegativeFloat(payload.Price)
	if !ok {
		errs.Add("price", "O preço do produto deve ser maior ou igual a zero.")
	}
	p.Price = price

	active, ok := validation.ZeroOrOne(payload.Active)
	if !ok {
		errs.Add("active", "O campo ativo deve ser 0 ou 1.")
	}
	p.Active = active

	userID, ok := validation.Int(payload.UserID)
	if !ok {
		errs.Add("userId", "O id do usuário deve ser um número inteiro.")
	}
	p.UserID = userID

	return p, errs
}

// List returns all products owned by the user given in the query string.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryID(r, "userId")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID do usuário inválido ou ausente.")
		return
	}

	products, err := h.service.ListByUser(userID)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "Usuário não encontrado.")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list products")
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Lista de produtos do usuário obtida com sucesso.", map[string]any{
		"products": products,
	})
}

// Get returns a single product by id.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID do produto inválido ou ausente.")
		return
	}

	product, err := h.service.Get(id)
	if errors.Is(err, services.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Produto não encontrado.")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to get product")
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Produto encontrado com sucesso.", map[string]any{
		"product": product,
	})
}

// Create inserts a new product owned by the user given in the body.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, errs := validateProduct(r)
	if !errs.OK() {
		respondValidationError(w, "Falha ao validar os dados do produto.", errs)
		return
	}

	product, err := h.service.Create(p)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "Usuário não encontrado.")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("user_id", p.UserID).Msg("Failed to create product")
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Produto criado com sucesso.", map[string]any{
		"product": product,
	})
}

// Update overwrites all mutable fields of the product given in the query
// string.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID do produto inválido ou ausente.")
		return
	}

	p, errs := validateProduct(r)
	if !errs.OK() {
		respondValidationError(w, "Falha ao validar os dados do produto.", errs)
		return
	}
	p.ID = id

	product, err := h.service.Update(p)
	if errors.Is(err, services.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Produto não encontrado.")
		return
	}
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "Usuário não encontrado.")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to update product")
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Produto atualizado com sucesso.", map[string]any{
		"product": product,
	})
}

// ToggleActive flips the product's active flag.
func (h *ProductHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID do produto inválido ou ausente.")
		return
	}

	product, err := h.service.ToggleActive(id)
	if errors.Is(err, services.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Produto não encontrado.")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to toggle product")
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Produto ajustado com sucesso.", map[string]any{
		"product": product,
	})
}

// Delete removes a product by id.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "ID do produto inválido ou ausente.")
		return
	}

	err := h.service.Delete(id)
	if errors.Is(err, services.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Produto não encontrado.")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to delete product")
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Produto excluído com sucesso.", nil)
}
