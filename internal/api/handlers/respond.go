package handlers

import (
	"encoding/json"
	"html"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/vilebranco/catalogo-be/internal/validation"
)

// All responses share the `{type, message, ...payload}` envelope the
// front-end relies on.

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}

// respondSuccess writes a success envelope, merging the payload (e.g.
// "user", "product", "products") into it.
func respondSuccess(w http.ResponseWriter, status int, message string, payload map[string]any) {
	body := map[string]any{
		"type":    "success",
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// respondError writes an error envelope with just a message.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"type":    "error",
		"message": message,
	})
}

// respondValidationError writes a 400 with the per-field error map.
func respondValidationError(w http.ResponseWriter, message string, errs validation.Fields) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"type":    "error",
		"message": message,
		"errors":  errs,
	})
}

// respondStorageError surfaces a storage failure as a 500. The underlying
// message is escaped so it can be embedded safely in the client's DOM.
func respondStorageError(w http.ResponseWriter, err error) {
	respondError(w, http.StatusInternalServerError, "Erro ao acessar o banco de dados: "+html.EscapeString(err.Error()))
}

// NotFound is the router-level handler for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Recurso não encontrado.")
}

// MethodNotAllowed is the router-level handler for known paths hit with the
// wrong HTTP method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "Método não permitido.")
}
