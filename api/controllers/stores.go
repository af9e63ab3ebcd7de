package controllers

import (
	"net/http"

	"github.com/angelmondragon/retailpos-backend/api/responses"
	"github.com/angelmondragon/retailpos-backend/api/validators"
	storesvc "github.com/angelmondragon/retailpos-backend/internal/stores"
	"github.com/angelmondragon/retailpos-backend/pkg/logger"
)

type registerStoreRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
}

// RegisterStore creates the caller's store and binds them as owner.
// Fresh tokens carry the new store id, so clients should re-login or
// refresh after registering.
func RegisterStore(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload registerStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.RegisterStore(r.Context(), userID, storesvc.RegisterStoreInput{
			Name:        payload.Name,
			Description: payload.Description,
			Address:     payload.Address,
			Phone:       payload.Phone,
			Email:       payload.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

// GetMyStore returns the caller's store profile.
func GetMyStore(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.GetStore(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

type updateStoreRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateMyStore applies a partial update to the caller's store profile.
func UpdateMyStore(svc storesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.UpdateStore(r.Context(), storeID, storesvc.UpdateStoreInput{
			Name:        payload.Name,
			Description: payload.Description,
			Address:     payload.Address,
			Phone:       payload.Phone,
			Email:       payload.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}
