package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/api/responses"
	"github.com/angelmondragon/retailpos-backend/api/validators"
	productsvc "github.com/angelmondragon/retailpos-backend/internal/products"
	"github.com/angelmondragon/retailpos-backend/pkg/logger"
)

type createProductRequest struct {
	Name              string  `json:"name" validate:"required,max=255"`
	Description       string  `json:"description,omitempty"`
	PriceCents        int64   `json:"price_cents" validate:"gte=0"`
	Quantity          int     `json:"quantity" validate:"gte=0"`
	Category          string  `json:"category,omitempty"`
	SupplierID        *string `json:"supplier_id,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
}

// CreateProduct adds a product to the store inventory.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var supplierID *uuid.UUID
		if payload.SupplierID != nil {
			id, err := validators.ParseUUID(*payload.SupplierID, "supplier id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			supplierID = &id
		}

		product, err := svc.CreateProduct(r.Context(), storeID, productsvc.CreateProductInput{
			Name:              payload.Name,
			Description:       payload.Description,
			PriceCents:        payload.PriceCents,
			Quantity:          payload.Quantity,
			Category:          payload.Category,
			SupplierID:        supplierID,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description       *string `json:"description,omitempty"`
	PriceCents        *int64  `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	Quantity          *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Category          *string `json:"category,omitempty"`
	SupplierID        *string `json:"supplier_id,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
}

// UpdateProduct applies a partial update to a product.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:              payload.Name,
			Description:       payload.Description,
			PriceCents:        payload.PriceCents,
			Quantity:          payload.Quantity,
			Category:          payload.Category,
			LowStockThreshold: payload.LowStockThreshold,
		}
		if payload.SupplierID != nil {
			id, err := validators.ParseUUID(*payload.SupplierID, "supplier id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.SupplierID = &id
		}

		product, err := svc.UpdateProduct(r.Context(), storeID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// GetProduct fetches a single product.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), storeID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns the store inventory ordered by name.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ListLowStock returns the products at or under their threshold.
func ListLowStock(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListLowStock(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// DeleteProduct removes a product from the inventory.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), storeID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
