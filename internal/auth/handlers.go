package auth

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"farmbooking/internal/booking"
	"farmbooking/internal/models"
)

type Handler struct {
	accounts Accounts
	secret   []byte
	ttl      time.Duration
}

func NewHandler(accounts Accounts, secret []byte, ttl time.Duration) *Handler {
	return &Handler{accounts: accounts, secret: secret, ttl: ttl}
}

type tokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	Username    string `json:"username"`
}

// Login authenticates a username-or-email plus password form and issues an
// access token. Disabled non-admin accounts are refused outright.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	ident := r.PostFormValue("username")
	password := r.PostFormValue("password")

	acct, err := h.accounts.FindByLogin(r.Context(), ident)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials", nil)
			return
		}
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials", nil)
		return
	}
	if !acct.IsActive {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "account disabled", nil)
		return
	}
	token, err := GenerateToken(acct.Login(), acct.Role, h.secret, h.ttl)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, tokenOut{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        acct.Role,
		Email:       acct.Login(),
		Username:    acct.Username,
	})
}

type meOut struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
}

// Me returns the authenticated account behind the presented token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	acct, ok := AccountFrom(r.Context())
	if !ok {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "missing session", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, meOut{
		ID:       acct.ID,
		Username: acct.Username,
		Email:    acct.Email,
		Role:     acct.Role,
	})
}

// HashPassword derives the stored credential form.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
