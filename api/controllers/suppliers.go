package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/retailpos-backend/api/responses"
	"github.com/angelmondragon/retailpos-backend/api/validators"
	suppliersvc "github.com/angelmondragon/retailpos-backend/internal/suppliers"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	"github.com/angelmondragon/retailpos-backend/pkg/logger"
)

type createSupplierRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address       string  `json:"address,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
	TaxID         *string `json:"tax_id,omitempty"`
	PaymentTerms  string  `json:"payment_terms,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// CreateSupplier registers a purchasing contact.
func CreateSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createSupplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.CreateSupplier(r.Context(), storeID, suppliersvc.CreateSupplierInput{
			Name:          payload.Name,
			Email:         payload.Email,
			Phone:         payload.Phone,
			Address:       payload.Address,
			ContactPerson: payload.ContactPerson,
			CompanyName:   payload.CompanyName,
			TaxID:         payload.TaxID,
			PaymentTerms:  enums.PaymentTerms(payload.PaymentTerms),
			Notes:         payload.Notes,
			CreatedBy:     userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

type updateSupplierRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address       *string `json:"address,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
	TaxID         *string `json:"tax_id,omitempty"`
	PaymentTerms  *string `json:"payment_terms,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateSupplier applies a partial update to a supplier.
func UpdateSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := validators.ParseUUID(chi.URLParam(r, "id"), "supplier id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSupplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := suppliersvc.UpdateSupplierInput{
			Name:          payload.Name,
			Email:         payload.Email,
			Phone:         payload.Phone,
			Address:       payload.Address,
			ContactPerson: payload.ContactPerson,
			CompanyName:   payload.CompanyName,
			TaxID:         payload.TaxID,
			IsActive:      payload.IsActive,
			Notes:         payload.Notes,
		}
		if payload.PaymentTerms != nil {
			terms := enums.PaymentTerms(*payload.PaymentTerms)
			input.PaymentTerms = &terms
		}

		supplier, err := svc.UpdateSupplier(r.Context(), storeID, supplierID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}

// GetSupplier fetches a single supplier.
func GetSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := validators.ParseUUID(chi.URLParam(r, "id"), "supplier id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.GetSupplier(r.Context(), storeID, supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}

// ListSuppliers returns the store's purchasing contacts.
func ListSuppliers(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		suppliers, err := svc.ListSuppliers(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suppliers)
	}
}

// DeleteSupplier removes a supplier.
func DeleteSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := validators.ParseUUID(chi.URLParam(r, "id"), "supplier id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteSupplier(r.Context(), storeID, supplierID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
