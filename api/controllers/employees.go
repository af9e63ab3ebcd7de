package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/retailpos-backend/api/responses"
	"github.com/angelmondragon/retailpos-backend/api/validators"
	employeesvc "github.com/angelmondragon/retailpos-backend/internal/employees"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
	"github.com/angelmondragon/retailpos-backend/pkg/logger"
)

type createEmployeeRequest struct {
	Name             string  `json:"name" validate:"required,max=255"`
	Email            string  `json:"email" validate:"required,email"`
	Phone            string  `json:"phone,omitempty" validate:"omitempty,max=32"`
	Role             string  `json:"role" validate:"required"`
	SalaryCents      int64   `json:"salary_cents" validate:"gte=0"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
}

// CreateEmployee adds a staff member to the store roster.
func CreateEmployee(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createEmployeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.CreateEmployee(r.Context(), storeID, employeesvc.CreateEmployeeInput{
			Name:             payload.Name,
			Email:            payload.Email,
			Phone:            payload.Phone,
			Role:             enums.EmployeeRole(payload.Role),
			SalaryCents:      payload.SalaryCents,
			Address:          payload.Address,
			EmergencyContact: payload.EmergencyContact,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, employee)
	}
}

type updateEmployeeRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Role             *string `json:"role,omitempty"`
	SalaryCents      *int64  `json:"salary_cents,omitempty" validate:"omitempty,gte=0"`
	IsActive         *bool   `json:"is_active,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
}

// UpdateEmployee applies a partial update to a staff record.
func UpdateEmployee(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employeeID, err := validators.ParseUUID(chi.URLParam(r, "id"), "employee id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateEmployeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := employeesvc.UpdateEmployeeInput{
			Name:             payload.Name,
			Email:            payload.Email,
			Phone:            payload.Phone,
			SalaryCents:      payload.SalaryCents,
			IsActive:         payload.IsActive,
			Address:          payload.Address,
			EmergencyContact: payload.EmergencyContact,
		}
		if payload.Role != nil {
			role := enums.EmployeeRole(*payload.Role)
			input.Role = &role
		}

		employee, err := svc.UpdateEmployee(r.Context(), storeID, employeeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employee)
	}
}

// GetEmployee fetches a single staff record.
func GetEmployee(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employeeID, err := validators.ParseUUID(chi.URLParam(r, "id"), "employee id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.GetEmployee(r.Context(), storeID, employeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employee)
	}
}

// ListEmployees returns the store roster.
func ListEmployees(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employees, err := svc.ListEmployees(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employees)
	}
}

// ListEmployeesByRole filters the roster by employee role.
func ListEmployeesByRole(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.EmployeeRole(chi.URLParam(r, "role"))
		if !role.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid employee role"))
			return
		}

		employees, err := svc.ListByRole(r.Context(), storeID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employees)
	}
}

// DeleteEmployee removes a staff record.
func DeleteEmployee(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employeeID, err := validators.ParseUUID(chi.URLParam(r, "id"), "employee id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteEmployee(r.Context(), storeID, employeeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
