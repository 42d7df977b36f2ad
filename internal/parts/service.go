package parts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartpark-rw/sims-backend/pkg/db"
	"github.com/smartpark-rw/sims-backend/pkg/db/models"
	pkgerrors "github.com/smartpark-rw/sims-backend/pkg/errors"
)

// Service defines the spare part catalog operations.
type Service interface {
	CreateSparePart(ctx context.Context, req CreateSparePartRequest) (*SparePartDTO, error)
	ListSpareParts(ctx context.Context) ([]SparePartDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams packages the dependencies for the parts service.
type ServiceParams struct {
	DB   txRunner
	Repo *Repository
}

type service struct {
	db   txRunner
	repo *Repository
}

// NewService wires the parts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "parts repository required")
	}
	return &service{db: params.DB, repo: params.Repo}, nil
}

func (s *service) CreateSparePart(ctx context.Context, req CreateSparePartRequest) (*SparePartDTO, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spare part name is required")
	}
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a non-negative integer")
	}
	if req.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be a non-negative number")
	}

	var created *SparePartDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByName(ctx, name); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "a spare part with this name already exists")
		} else if !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check spare part name")
		}

		part := &models.SparePart{
			ID:              uuid.New(),
			Name:            name,
			Category:        category,
			Quantity:        req.Quantity,
			InitialQuantity: req.Quantity,
			UnitPrice:       req.UnitPrice,
		}
		if err := repo.Create(ctx, part); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a spare part with this name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create spare part")
		}

		created = FromModel(part)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) ListSpareParts(ctx context.Context) ([]SparePartDTO, error) {
	parts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list spare parts")
	}

	result := make([]SparePartDTO, 0, len(parts))
	for i := range parts {
		result = append(result, *FromModel(&parts[i]))
	}
	return result, nil
}
