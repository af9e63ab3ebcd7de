package employees

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

// Service manages staff records. Route-level guards restrict these
// operations to store owners.
type Service interface {
	CreateEmployee(ctx context.Context, storeID uuid.UUID, input CreateEmployeeInput) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, storeID, employeeID uuid.UUID, input UpdateEmployeeInput) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, storeID, employeeID uuid.UUID) error
	GetEmployee(ctx context.Context, storeID, employeeID uuid.UUID) (*models.Employee, error)
	ListEmployees(ctx context.Context, storeID uuid.UUID) ([]models.Employee, error)
	ListByRole(ctx context.Context, storeID uuid.UUID, role enums.EmployeeRole) ([]models.Employee, error)
}

type CreateEmployeeInput struct {
	Name             string
	Email            string
	Phone            string
	Role             enums.EmployeeRole
	SalaryCents      int64
	Address          *string
	EmergencyContact *string
}

type UpdateEmployeeInput struct {
	Name             *string
	Email            *string
	Phone            *string
	Role             *enums.EmployeeRole
	SalaryCents      *int64
	IsActive         *bool
	Address          *string
	EmergencyContact *string
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateEmployee(ctx context.Context, storeID uuid.UUID, input CreateEmployeeInput) (*models.Employee, error) {
	switch {
	case storeID == uuid.Nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	case strings.TrimSpace(input.Name) == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee name is required")
	case strings.TrimSpace(input.Email) == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee email is required")
	case !input.Role.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid employee role")
	case input.SalaryCents < 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
	}

	employee := &models.Employee{
		ID:               uuid.New(),
		StoreID:          storeID,
		Name:             strings.TrimSpace(input.Name),
		Email:            strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:            strings.TrimSpace(input.Phone),
		Role:             input.Role,
		SalaryCents:      input.SalaryCents,
		HireDate:         time.Now().UTC(),
		IsActive:         true,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
	}

	if err := s.repo.Insert(ctx, employee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting employee")
	}
	return employee, nil
}

func (s *service) UpdateEmployee(ctx context.Context, storeID, employeeID uuid.UUID, input UpdateEmployeeInput) (*models.Employee, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid employee role")
		}
		fields["role"] = *input.Role
	}
	if input.SalaryCents != nil {
		if *input.SalaryCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
		}
		fields["salary_cents"] = *input.SalaryCents
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.EmergencyContact != nil {
		fields["emergency_contact"] = *input.EmergencyContact
	}

	if len(fields) > 0 {
		ok, err := s.repo.Update(ctx, storeID, employeeID, fields)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating employee")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
	}
	return s.GetEmployee(ctx, storeID, employeeID)
}

func (s *service) DeleteEmployee(ctx context.Context, storeID, employeeID uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, storeID, employeeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting employee")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}
	return nil
}

func (s *service) GetEmployee(ctx context.Context, storeID, employeeID uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, storeID, employeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading employee")
	}
	if employee == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}
	return employee, nil
}

func (s *service) ListEmployees(ctx context.Context, storeID uuid.UUID) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing employees")
	}
	return employees, nil
}

func (s *service) ListByRole(ctx context.Context, storeID uuid.UUID, role enums.EmployeeRole) ([]models.Employee, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid employee role")
	}
	employees, err := s.repo.ListByRole(ctx, storeID, role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing employees by role")
	}
	return employees, nil
}
