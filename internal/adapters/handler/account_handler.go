package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/telehealth-companion/booking-service/internal/adapters/middleware"
	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
	verifier ports.BotVerifier
	tokens   ports.TokenStore
}

func NewAccountHandler(accounts ports.AccountService, verifier ports.BotVerifier, tokens ports.TokenStore) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		verifier: verifier,
		tokens:   tokens,
	}
}

type SignupRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Specialisation string `json:"specialisation"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptcha_token"`
}

type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptcha_token"`
}

type LoginResponse struct {
	*domain.Account
	Token string `json:"token"`
}

func (h *AccountHandler) SignupPatient(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verifier.Verify(r.Context(), req.RecaptchaToken); err != nil {
		writeDomainError(w, err)
		return
	}

	account, err := h.accounts.RegisterPatient(r.Context(), ports.RegisterPatientInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) SignupDoctor(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verifier.Verify(r.Context(), req.RecaptchaToken); err != nil {
		writeDomainError(w, err)
		return
	}

	account, err := h.accounts.RegisterDoctor(r.Context(), ports.RegisterDoctorInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialisation: req.Specialisation,
		Password:       req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) LoginPatient(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.KindPatient)
}

func (h *AccountHandler) LoginDoctor(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.KindDoctor)
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request, kind domain.Kind) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verifier.Verify(r.Context(), req.RecaptchaToken); err != nil {
		writeDomainError(w, err)
		return
	}

	account, token, err := h.accounts.Authenticate(r.Context(), kind, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Account: account, Token: token})
}

// Logout denylists the presented session token for its remaining
// lifetime. Runs behind the auth middleware, which stashes the token
// and its expiry in the context.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := r.Context().Value(middleware.TokenKey).(string)
	expiry, _ := r.Context().Value(middleware.ExpiryKey).(time.Time)

	if err := h.tokens.Deny(r.Context(), middleware.TokenHash(token), time.Until(expiry)); err != nil {
		writeDomainError(w, err)
		return
	}
	log.Printf("session revoked for %s", middleware.Subject(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

type CheckEmailRequest struct {
	Email string `json:"email"`
}

type CheckEmailResponse struct {
	Exists bool   `json:"exists"`
	Type   string `json:"type,omitempty"`
}

func (h *AccountHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req CheckEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	check, err := h.accounts.LookupEmail(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := CheckEmailResponse{Exists: check.Exists}
	switch check.Kind {
	case domain.KindPatient:
		resp.Type = "patient"
	case domain.KindDoctor:
		resp.Type = "doctor"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccountHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.accounts.ListDoctors(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *AccountHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	h.getAccount(w, r, domain.KindDoctor)
}

func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.getAccount(w, r, domain.KindPatient)
}

func (h *AccountHandler) getAccount(w http.ResponseWriter, r *http.Request, kind domain.Kind) {
	account, err := h.accounts.GetAccount(r.Context(), kind, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
