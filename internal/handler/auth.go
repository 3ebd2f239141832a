package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/oykulab/masal-api/internal/usecase"
	"github.com/oykulab/masal-api/internal/validation"
)

const (
	msgDuplicateEmail     = "Bu email ile zaten bir kullanıcı mevcut"
	msgInvalidCredentials = "Geçersiz email veya şifre"
	msgResetRequested     = "Eğer email kayıtlıysa, şifre sıfırlama linki gönderildi."
	msgResetTokenInvalid  = "Geçersiz veya süresi dolmuş anahtar"
	msgPasswordUpdated    = "Şifre başarıyla güncellendi"
)

// AuthHandler serves registration, login and password recovery routes.
type AuthHandler struct {
	authUsecase  usecase.AuthUsecase
	resetUsecase usecase.PasswordResetUsecase
	validator    *validation.Validator
	logger       *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	resetUsecase usecase.PasswordResetUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		resetUsecase: resetUsecase,
		validator:    validator,
		logger:       logger,
	}
}

// Routes mounts the auth routes on the given router.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/forgotpassword", h.ForgotPassword)
	r.Put("/resetpassword/{resetToken}", h.ResetPassword)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, h.validator.Translate(err))
		return
	}

	authenticated, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			respondMessage(w, http.StatusBadRequest, msgDuplicateEmail)
			return
		}

		h.logger.Error().Err(err).Msg("failed to register user")
		respondMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponse{
		ID:    authenticated.User.ID.Hex(),
		Name:  authenticated.User.Name,
		Email: authenticated.User.Email,
		Token: authenticated.Token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, h.validator.Translate(err))
		return
	}

	authenticated, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respondMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}

		h.logger.Error().Err(err).Msg("failed to log in user")
		respondMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		ID:    authenticated.User.ID.Hex(),
		Name:  authenticated.User.Name,
		Email: authenticated.User.Email,
		Token: authenticated.Token,
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, h.validator.Translate(err))
		return
	}

	if err := h.resetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error().Err(err).Msg("failed to request password reset")
		respondMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	// Same response whether or not the email is registered.
	respondMessage(w, http.StatusOK, msgResetRequested)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, h.validator.Translate(err))
		return
	}

	err := h.resetUsecase.ResetPassword(r.Context(), chi.URLParam(r, "resetToken"), req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidOrExpiredToken) {
			respondMessage(w, http.StatusBadRequest, msgResetTokenInvalid)
			return
		}

		h.logger.Error().Err(err).Msg("failed to reset password")
		respondMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	respondMessage(w, http.StatusOK, msgPasswordUpdated)
}
