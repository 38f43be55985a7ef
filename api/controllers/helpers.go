package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/quickkart/quickkart-backend/api/middleware"
	"github.com/quickkart/quickkart-backend/pkg/enums"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
)

func customerIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	customerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id")
	}
	return customerID, nil
}

func roleFromContext(r *http.Request) enums.ActorRole {
	role, err := enums.ParseActorRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return enums.ActorRoleCustomer
	}
	return role
}
