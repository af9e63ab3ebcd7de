package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/api/responses"
	"github.com/angelmondragon/retailpos-backend/api/validators"
	salesvc "github.com/angelmondragon/retailpos-backend/internal/sales"
	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/logger"
	"github.com/angelmondragon/retailpos-backend/pkg/pagination"
)

type saleItemRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type createSaleRequest struct {
	EmployeeID      string            `json:"employee_id" validate:"required,uuid"`
	CustomerID      *string           `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CustomerName    string            `json:"customer_name,omitempty" validate:"omitempty,max=255"`
	PaymentMethod   string            `json:"payment_method,omitempty" validate:"omitempty,max=64"`
	DiscountPercent float64           `json:"discount_percent,omitempty" validate:"gte=0,lte=100"`
	TaxPercent      float64           `json:"tax_percent,omitempty" validate:"gte=0"`
	RedeemPoints    int64             `json:"redeem_points,omitempty" validate:"gte=0"`
	Items           []saleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createSaleResponse struct {
	Sale           *models.Sale            `json:"sale"`
	LowStockAlerts []salesvc.LowStockAlert `json:"low_stock_alerts,omitempty"`
}

// CreateSale runs one transaction through the sale engine.
func CreateSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employeeID, err := validators.ParseUUID(payload.EmployeeID, "employee id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var customerID *uuid.UUID
		if payload.CustomerID != nil {
			id, err := validators.ParseUUID(*payload.CustomerID, "customer id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			customerID = &id
		}

		items := make([]salesvc.SaleItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			productID, err := validators.ParseUUID(item.ProductID, "product id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items = append(items, salesvc.SaleItemInput{
				ProductID:  productID,
				PriceCents: item.PriceCents,
				Quantity:   item.Quantity,
			})
		}

		result, err := svc.CreateSale(r.Context(), storeID, salesvc.CreateSaleInput{
			EmployeeID:      employeeID,
			CustomerID:      customerID,
			CustomerName:    payload.CustomerName,
			PaymentMethod:   payload.PaymentMethod,
			DiscountPercent: payload.DiscountPercent,
			TaxPercent:      payload.TaxPercent,
			RedeemPoints:    payload.RedeemPoints,
			Items:           items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createSaleResponse{
			Sale:           result.Sale,
			LowStockAlerts: result.LowStockAlerts,
		})
	}
}

// GetSale fetches one sale with its line items.
func GetSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saleID, err := validators.ParseUUID(chi.URLParam(r, "id"), "sale id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.GetSale(r.Context(), storeID, saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

type saleListResponse struct {
	Sales      []models.Sale `json:"sales"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ListSales returns a cursor-paginated page of sales, newest first.
func ListSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}

		result, err := svc.ListSales(r.Context(), storeID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, saleListResponse{
			Sales:      result.Sales,
			NextCursor: result.NextCursor,
		})
	}
}

// DeleteSale reverses a sale and restores inventory.
func DeleteSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saleID, err := validators.ParseUUID(chi.URLParam(r, "id"), "sale id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		opts := salesvc.DeleteSaleOptions{
			ReverseLoyaltyEffects: r.URL.Query().Get("reverse_loyalty") == "true",
		}
		if err := svc.DeleteSale(r.Context(), storeID, saleID, opts); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
