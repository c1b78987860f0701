package controllers

import (
	"net/http"
	"time"

	"github.com/roperoapp/ropero-backend/api/responses"
	"github.com/roperoapp/ropero-backend/api/validators"
	authsvc "github.com/roperoapp/ropero-backend/internal/auth"
	"github.com/roperoapp/ropero-backend/internal/users"
	pkgerrors "github.com/roperoapp/ropero-backend/pkg/errors"
	"github.com/roperoapp/ropero-backend/pkg/logger"
)

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required"`
	Location *string `json:"location,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string             `json:"token"`
	User  users.PublicProfile `json:"user"`
}

func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), authsvc.RegisterInput{
			Email:    payload.Email,
			Password: payload.Password,
			FullName: payload.FullName,
			Location: payload.Location,
			Bio:      payload.Bio,
		}, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, authResponse{
			Token: result.Token,
			User:  users.ToPublicProfile(result.User),
		})
	}
}

func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), authsvc.LoginInput{
			Email:    payload.Email,
			Password: payload.Password,
		}, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, authResponse{
			Token: result.Token,
			User:  users.ToPublicProfile(result.User),
		})
	}
}
