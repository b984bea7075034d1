package api

import (
	"time"

	"github.com/tutorway/tutorway-api/internal/domain"
)

// CreateAccountRequest defines the payload for the account registration endpoint.
type CreateAccountRequest struct {
	Name   string `json:"name"   validate:"required"`
	Email  string `json:"email"  validate:"required"`
	Secret string `json:"secret" validate:"required,maxbytes=72"`
	Kind   string `json:"kind"`
}

// LoginRequest defines the payload for the login endpoint.
// It carries no validation tags: missing fields fail as bad credentials.
type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// UpdateAccountRequest defines the payload for the partial update endpoint.
// Absent fields are left unchanged.
type UpdateAccountRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Secret    *string `json:"secret,omitempty"    validate:"omitempty,maxbytes=72"`
	Kind      *string `json:"kind,omitempty"`
	BirthDate *string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AccountResponse is the wire form of an account. It has no credential field.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Kind      string    `json:"kind"`
	BirthDate string    `json:"birthDate,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessageResponse is returned by endpoints that answer with a status message only.
type MessageResponse struct {
	Message string `json:"message"`
}

// accountToResponse converts a domain.Account to an AccountResponse
func accountToResponse(account *domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Kind:      account.Kind,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	if account.BirthDate != nil {
		resp.BirthDate = account.BirthDate.Format(domain.BirthDateLayout)
	}
	return resp
}

func accountsToResponse(accounts []domain.Account) []AccountResponse {
	resp := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, accountToResponse(&accounts[i]))
	}
	return resp
}
