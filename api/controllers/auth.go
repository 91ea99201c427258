package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/api/middleware"
	"github.com/angelmondragon/stride-storefront/api/responses"
	"github.com/angelmondragon/stride-storefront/api/validators"
	"github.com/angelmondragon/stride-storefront/internal/auth"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
)

// AuthLogin exchanges admin credentials for a bearer token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(middleware.AdminIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin context missing"))
			return
		}
		admin, err := svc.Me(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, admin)
	}
}
