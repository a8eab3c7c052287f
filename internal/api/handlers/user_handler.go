package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/vilebranco/catalogo-be/internal/services"
	"github.com/vilebranco/catalogo-be/internal/validation"
)

// UserHandler handles HTTP requests for registration and login.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPayload defines the structure for registration requests. Pointer
// fields distinguish absent values from empty ones during validation.
type RegisterPayload struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// A malformed body validates like an empty one: every field fails.
		payload = RegisterPayload{}
	}

	errs := validation.Fields{}
	name, ok := validation.RequiredString(payload.Name)
	if !ok {
		errs.Add("name", "O nome do usuário é inválido.")
	}
	email, ok := validation.Email(payload.Email)
	if !ok {
		errs.Add("email", "O e-mail do usuário é inválido.")
	}
	password, ok := validation.MinLength(payload.Password, 5)
	if !ok {
		errs.Add("password", "A senha do usuário deve ter pelo menos 5 caracteres.")
	}
	if !errs.OK() {
		respondValidationError(w, "Falha ao validar os dados do usuário.", errs)
		return
	}

	user, err := h.service.Register(name, email, password)
	if errors.Is(err, services.ErrEmailTaken) {
		respondError(w, http.StatusConflict, "O e-mail informado já está em uso.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to register user")
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Usuário registrado com sucesso.", map[string]any{
		"user": user,
	})
}

// Login handles user authentication.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload = AuthPayload{}
	}

	if payload.Email == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Credenciais inválidas.")
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		// Same message for unknown email and wrong password, so the
		// endpoint cannot be used to enumerate accounts.
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, http.StatusUnauthorized, "Credenciais inválidas.")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to authenticate user")
		respondStorageError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Login realizado com sucesso.", map[string]any{
		"user": user,
	})
}
