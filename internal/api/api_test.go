package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vilebranco/catalogo-be/internal/database"
	"github.com/vilebranco/catalogo-be/internal/services"
)

type testServer struct {
	router *chi.Mux
	db     *sql.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	router := NewRouter(services.NewUserService(db), services.NewProductService(db), "", []string{"*"})
	return &testServer{router: router, db: db}
}

// do performs a request against the router and decodes the JSON envelope.
func (ts *testServer) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"),
		"expected JSON response, got %q", rec.Header().Get("Content-Type"))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func (ts *testServer) register(t *testing.T, name, email, password string) map[string]any {
	t.Helper()
	rec, envelope := ts.do(t, http.MethodPost, "/users/register", map[string]any{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return envelope["user"].(map[string]any)
}

func (ts *testServer) addProduct(t *testing.T, name string, stock int, price float64, active int, userID float64) map[string]any {
	t.Helper()
	rec, envelope := ts.do(t, http.MethodPost, "/products/add", map[string]any{
		"name": name, "stock": stock, "price": price, "active": active, "userId": userID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return envelope["product"].(map[string]any)
}

func TestRegisterThenLogin(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "Elesbão", "elesbao@email.com", "12345")
	assert.Equal(t, "Elesbão", user["name"])
	assert.NotContains(t, user, "password")

	rec, envelope := ts.do(t, http.MethodPost, "/users/login", map[string]any{
		"email": "elesbao@email.com", "password": "12345",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", envelope["type"])
	assert.Equal(t, "Login realizado com sucesso.", envelope["message"])
	assert.Equal(t, user["id"], envelope["user"].(map[string]any)["id"])
}

func TestRegisterShortPassword(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.do(t, http.MethodPost, "/users/register", map[string]any{
		"name": "Elesbão", "email": "elesbao@email.com", "password": "ab",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", envelope["type"])

	errs := envelope["errors"].(map[string]any)
	assert.Equal(t, "A senha do usuário deve ter pelo menos 5 caracteres.", errs["password"])

	// Validation short-circuits persistence: no row was inserted.
	var count int
	require.NoError(t, ts.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestRegisterInvalidBodyFailsEveryField(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	errs := envelope["errors"].(map[string]any)
	assert.Len(t, errs, 3)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Elesbão", "elesbao@email.com", "12345")

	rec, envelope := ts.do(t, http.MethodPost, "/users/register", map[string]any{
		"name": "Outro", "email": "elesbao@email.com", "password": "12345",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "O e-mail informado já está em uso.", envelope["message"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Raoni", "raoni@email.com", "12345")

	recUnknown, envUnknown := ts.do(t, http.MethodPost, "/users/login", map[string]any{
		"email": "nobody@email.com", "password": "12345",
	})
	recWrong, envWrong := ts.do(t, http.MethodPost, "/users/login", map[string]any{
		"email": "raoni@email.com", "password": "errada",
	})

	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, envUnknown["message"], envWrong["message"])
}

func TestLoginMissingCredentials(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.do(t, http.MethodPost, "/users/login", map[string]any{"email": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Credenciais inválidas.", envelope["message"])
}

func TestListProducts(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Elesbão", "elesbao@email.com", "12345")
	userID := user["id"].(float64)

	ts.addProduct(t, "Mouse Gamer RGB", 25, 149.90, 1, userID)
	ts.addProduct(t, "Teclado Mecânico", 15, 299.99, 1, userID)

	rec, envelope := ts.do(t, http.MethodGet, "/products/list?userId=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	products := envelope["products"].([]any)
	require.Len(t, products, 2)
	assert.Equal(t, "Mouse Gamer RGB", products[0].(map[string]any)["name"])
}

func TestListProductsEmptyArray(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Elesbão", "elesbao@email.com", "12345")

	rec, envelope := ts.do(t, http.MethodGet, "/products/list?userId=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	products, ok := envelope["products"].([]any)
	require.True(t, ok, "products must be a JSON array, not null")
	assert.Empty(t, products)
}

func TestListProductsUnknownUser(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.do(t, http.MethodGet, "/products/list?userId=42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Usuário não encontrado.", envelope["message"])
}

func TestListProductsInvalidUserID(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.do(t, http.MethodGet, "/products/list?userId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ID do usuário inválido ou ausente.", envelope["message"])

	rec, _ = ts.do(t, http.MethodGet, "/products/list", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Elesbão", "elesbao@email.com", "12345")
	ts.addProduct(t, "Mouse Gamer RGB", 25, 149.90, 1, user["id"].(float64))

	rec, envelope := ts.do(t, http.MethodGet, "/products/get?id=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	product := envelope["product"].(map[string]any)
	assert.Equal(t, "Mouse Gamer RGB", product["name"])
	assert.Equal(t, 149.90, product["price"])

	rec, envelope = ts.do(t, http.MethodGet, "/products/get?id=99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Produto não encontrado.", envelope["message"])
}

func TestCreateProductValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Elesbão", "elesbao@email.com", "12345")

	rec, envelope := ts.do(t, http.MethodPost, "/products/add", map[string]any{
		"name": "", "stock": -1, "price": -0.5, "active": 2, "userId": 1.5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Falha ao validar os dados do produto.", envelope["message"])

	errs := envelope["errors"].(map[string]any)
	assert.Len(t, errs, 5)
	assert.Equal(t, "O campo ativo deve ser 0 ou 1.", errs["active"])

	var count int
	require.NoError(t, ts.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestCreateProductUnknownOwner(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.do(t, http.MethodPost, "/products/add", map[string]any{
		"name": "Mouse", "stock": 1, "price": 10, "active": 1, "userId": 42,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Usuário não encontrado.", envelope["message"])
}

func TestUpdateProduct(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Elesbão", "elesbao@email.com", "12345")
	ts.addProduct(t, "Mouse", 1, 10, 1, user["id"].(float64))

	rec, envelope := ts.do(t, http.MethodPut, "/products/update?id=1", map[string]any{
		"name": "Mouse Gamer RGB", "stock": 25, "price": 149.90, "active": 0, "userId": 1,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Produto atualizado com sucesso.", envelope["message"])

	product := envelope["product"].(map[string]any)
	assert.Equal(t, "Mouse Gamer RGB", product["name"])
	assert.Equal(t, float64(0), product["active"])
}

func TestUpdateMissingProduct(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Elesbão", "elesbao@email.com", "12345")

	rec, envelope := ts.do(t, http.MethodPut, "/products/update?id=99", map[string]any{
		"name": "Mouse", "stock": 1, "price": 10, "active": 1, "userId": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Produto não encontrado.", envelope["message"])
}

func TestUpdateMissingOwner(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Elesbão", "elesbao@email.com", "12345")
	original := ts.addProduct(t, "Mouse", 1, 10, 1, user["id"].(float64))

	rec, envelope := ts.do(t, http.MethodPut, "/products/update?id=1", map[string]any{
		"name": "Outro", "stock": 2, "price": 20, "active": 0, "userId": 99,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Usuário não encontrado.", envelope["message"])

	// The product row was not modified.
	_, envelope = ts.do(t, http.MethodGet, "/products/get?id=1", nil)
	assert.Equal(t, original, envelope["product"])
}

func TestToggleActiveTwice(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Elesbão", "elesbao@email.com", "12345")
	ts.addProduct(t, "Mouse", 1, 10, 1, user["id"].(float64))

	rec, envelope := ts.do(t, http.MethodPatch, "/products/toggle-active?id=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", envelope["type"])
	assert.Equal(t, float64(0), envelope["product"].(map[string]any)["active"])

	rec, envelope = ts.do(t, http.MethodPatch, "/products/toggle-active?id=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), envelope["product"].(map[string]any)["active"])
}

func TestToggleActiveMissingProduct(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.do(t, http.MethodPatch, "/products/toggle-active?id=3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Produto não encontrado.", envelope["message"])
}

func TestDeleteProduct(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Elesbão", "elesbao@email.com", "12345")
	ts.addProduct(t, "Mouse", 1, 10, 1, user["id"].(float64))

	rec, envelope := ts.do(t, http.MethodDelete, "/products/delete?id=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Produto excluído com sucesso.", envelope["message"])
	assert.NotContains(t, envelope, "product")

	rec, _ = ts.do(t, http.MethodGet, "/products/get?id=1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMissingProductKeepsRowCount(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Elesbão", "elesbao@email.com", "12345")
	ts.addProduct(t, "Mouse", 1, 10, 1, user["id"].(float64))

	rec, envelope := ts.do(t, http.MethodDelete, "/products/delete?id=99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Produto não encontrado.", envelope["message"])

	var count int
	require.NoError(t, ts.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/users/register"},
		{http.MethodGet, "/users/login"},
		{http.MethodPost, "/products/list?userId=1"},
		{http.MethodPost, "/products/get?id=1"},
		{http.MethodGet, "/products/update?id=1"},
		{http.MethodPut, "/products/toggle-active?id=1"},
		{http.MethodGet, "/products/delete?id=1"},
	}
	for _, tc := range cases {
		rec, envelope := ts.do(t, tc.method, tc.target, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tc.method, tc.target)
		assert.Equal(t, "Método não permitido.", envelope["message"])
	}
}

func TestStorageFailureReturns500Envelope(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Elesbão", "elesbao@email.com", "12345")

	// Closing the pool makes every query fail, standing in for a lost or
	// corrupted store.
	require.NoError(t, ts.db.Close())

	rec, envelope := ts.do(t, http.MethodGet, "/products/list?userId=1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", envelope["type"])
	assert.True(t, strings.HasPrefix(envelope["message"].(string), "Erro ao acessar o banco de dados: "),
		"unexpected message: %q", envelope["message"])

	rec, envelope = ts.do(t, http.MethodPost, "/users/register", map[string]any{
		"name": "Outro", "email": "outro@email.com", "password": "12345",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", envelope["type"])
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.do(t, http.MethodGet, "/products/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", envelope["type"])
}
