package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tutorway/tutorway-api/internal/api/shared"
	"github.com/tutorway/tutorway-api/internal/domain"
	"github.com/tutorway/tutorway-api/internal/platform/logger"
	"github.com/tutorway/tutorway-api/internal/redact"
	"github.com/tutorway/tutorway-api/internal/service"
)

const (
	accountCreatedMessage = "Usuário criado com sucesso!"
	accountDeletedMessage = "Usuário excluído com sucesso."
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts service.AccountService, logger *slog.Logger) *AccountHandler {
	if accounts == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("account service cannot be nil for AccountHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "account_handler")),
	}
}

// RegisterRoutes mounts the account endpoints on r, which is expected to be
// the /api/usuarios subrouter.
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/criar", h.Create)
	r.Post("/login", h.Login)
	r.Put("/atualizar/{id}", h.Update)
	r.Delete("/apagar/{id}", h.Delete)
}

// List handles GET /api/usuarios requests
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list accounts")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountsToResponse(accounts))
}

// Create handles POST /api/usuarios/criar requests
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateAccountRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	err := h.accounts.Create(r.Context(), service.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Secret,
		Kind:     req.Kind,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, MessageResponse{Message: accountCreatedMessage})
}

// Login handles POST /api/usuarios/login requests.
// Missing fields are passed through so they fail with the same 401 as a bad secret.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), strings.TrimSpace(req.Email), req.Secret)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// Update handles PUT /api/usuarios/atualizar/{id} requests
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateAccountRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	input, err := updateInputFromRequest(req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	account, err := h.accounts.Update(r.Context(), id, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// Delete handles DELETE /api/usuarios/apagar/{id} requests
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: accountDeletedMessage})
}

// updateInputFromRequest converts the wire payload into service input.
// The email is trimmed and the birth date parsed as a calendar date.
func updateInputFromRequest(req UpdateAccountRequest) (service.UpdateAccountInput, error) {
	input := service.UpdateAccountInput{
		Name:     req.Name,
		Password: req.Secret,
		Kind:     req.Kind,
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		input.Email = &email
	}

	if req.BirthDate != nil {
		birthDate, err := time.Parse(domain.BirthDateLayout, *req.BirthDate)
		if err != nil {
			return service.UpdateAccountInput{}, domain.NewValidationError(
				"birthDate", "must be a date in YYYY-MM-DD format", domain.ErrValidation)
		}
		input.BirthDate = &birthDate
	}

	return input, nil
}
