package stores

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailpos-backend/internal/users"
	"github.com/angelmondragon/retailpos-backend/pkg/db"
	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailpos-backend/pkg/errors"
)

// Service handles tenant registration and profile management. Registration
// binds the owner's user row to the new store in the same transaction, so a
// store never exists without a reachable owner.
type Service interface {
	RegisterStore(ctx context.Context, ownerID uuid.UUID, input RegisterStoreInput) (*models.Store, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error)
	UpdateStore(ctx context.Context, storeID uuid.UUID, input UpdateStoreInput) (*models.Store, error)
}

type RegisterStoreInput struct {
	Name        string
	Description *string
	Address     *string
	Phone       *string
	Email       *string
}

type UpdateStoreInput struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Email       *string
}

type service struct {
	db    *db.Client
	repo  Repository
	users users.Repository
}

func NewService(client *db.Client, repo Repository, usersRepo users.Repository) Service {
	return &service{
		db:    client,
		repo:  repo,
		users: usersRepo,
	}
}

func (s *service) RegisterStore(ctx context.Context, ownerID uuid.UUID, input RegisterStoreInput) (*models.Store, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	var store *models.Store
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		usersRepo := s.users.WithTx(tx)

		owner, err := usersRepo.FindByID(ctx, ownerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading owner")
		}
		if owner == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		if owner.Role != enums.UserRoleStoreOwner {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only store owners can register a store")
		}

		existing, err := repo.FindByOwner(ctx, ownerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing store")
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "owner already has a registered store")
		}

		store = &models.Store{
			ID:          uuid.New(),
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Address:     input.Address,
			Phone:       input.Phone,
			Email:       input.Email,
			OwnerID:     ownerID,
			IsActive:    true,
		}
		if err := repo.Insert(ctx, store); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "owner already has a registered store")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting store")
		}

		if err := usersRepo.BindStore(ctx, ownerID, store.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "binding owner to store")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (s *service) GetStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return store, nil
}

func (s *service) UpdateStore(ctx context.Context, storeID uuid.UUID, input UpdateStoreInput) (*models.Store, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}

	if len(fields) > 0 {
		ok, err := s.repo.Update(ctx, storeID, fields)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating store")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
	}
	return s.GetStore(ctx, storeID)
}
