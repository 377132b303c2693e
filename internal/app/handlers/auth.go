package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/linemk/coin-trader/internal/lib/api/response"
	"github.com/linemk/coin-trader/internal/service"
)

// RegisterRequest - данные регистрации с правилами валидации
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,alphanum,min=4,max=12"`
	Email    string `json:"email" validate:"required,email,max=99"`
	Password string `json:"password" validate:"required,min=8,max=16"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type KeyPair struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// LoginResponse - выданная пара ключей и токен, подписанный секретом этой пары
type LoginResponse struct {
	Key   KeyPair `json:"key"`
	Token string  `json:"token"`
}

var validate = validator.New()

// сообщения об ошибках по полям формы регистрации
var registerFieldErrors = map[string]string{
	"Name":     "Name error. Name is alphanumeric and 4 ~ 12 letters.",
	"Email":    "Email error. Email format is not correct, or longer than 99 letters.",
	"Password": "Password error. Password is 8 ~ 16 letters.",
}

// RegisterHandler обрабатывает POST /register
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			response.Fail(w, http.StatusBadRequest, "invalid request")
			return
		}

		// на каждое невалидное поле - отдельная ошибка
		if err := validate.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				logger.Error("validation failed", slog.Any("error", err))
				response.Fail(w, http.StatusBadRequest, "validation error")
				return
			}
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			_ = response.JSON(w, http.StatusBadRequest, fieldErrors(verrs))
			return
		}

		if err := authService.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
			writeError(w, logger, err)
			return
		}

		if err := response.JSON(w, http.StatusCreated, struct{}{}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

func fieldErrors(verrs validator.ValidationErrors) []response.Error {
	seen := make(map[string]bool, len(verrs))
	errs := make([]response.Error, 0, len(verrs))
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		msg, ok := registerFieldErrors[fe.Field()]
		if !ok {
			msg = fe.Field() + " error"
		}
		errs = append(errs, response.Error{Error: msg})
	}
	return errs
}

// LoginHandler обрабатывает POST /login
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			response.Fail(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			response.Fail(w, http.StatusBadRequest, "email and password are required")
			return
		}

		creds, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		resp := LoginResponse{
			Key:   KeyPair{PublicKey: creds.PublicKey, SecretKey: creds.SecretKey},
			Token: creds.Token,
		}
		if err := response.JSON(w, http.StatusCreated, resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
