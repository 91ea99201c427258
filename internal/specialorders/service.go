// Package specialorders records customer requests for items the catalog does
// not carry and lets the back office work through them.
package specialorders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

type ListFilters struct {
	Status     *enums.SpecialOrderStatus
	Search     string
	Pagination pagination.Params
}

type UpdateStatusInput struct {
	Status enums.SpecialOrderStatus `json:"status" validate:"required,special_order_status"`
}

type ListResult = types.Page[types.SpecialOrder]

type Service interface {
	Create(ctx context.Context, req types.SpecialOrderRequest) (*types.SpecialOrder, error)
	List(ctx context.Context, filters ListFilters) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SpecialOrderStatus) (*types.SpecialOrder, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("special order repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, req types.SpecialOrderRequest) (*types.SpecialOrder, error) {
	row := &models.SpecialOrder{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		ProductName:   strings.TrimSpace(req.ProductName),
		Brand:         strings.TrimSpace(req.Brand),
		Size:          req.Size.String(),
		Details:       strings.TrimSpace(req.Details),
		Status:        enums.SpecialOrderStatusPending,
	}
	if row.CustomerName == "" || row.CustomerPhone == "" || row.ProductName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer and product are required").
			WithDetails(map[string]string{"customer_name": "is required", "customer_phone": "is required", "product_name": "is required"})
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert special order")
	}
	s.logg.Info(s.logg.WithField(ctx, "special_order_id", row.ID.String()), "special_order.created")
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListResult, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	filters.Pagination = filters.Pagination.Normalize()

	rows, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list special orders")
	}
	items := make([]types.SpecialOrder, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	page := pagination.NewPage(items, total, filters.Pagination)
	return &page, nil
}

// UpdateStatus allows any change while the request is open; fulfilled and
// cancelled requests are closed.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SpecialOrderStatus) (*types.SpecialOrder, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
			WithDetails(map[string]string{"status": "is not a known special order status"})
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "special order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load special order")
	}
	if current.Status == status {
		dto := toDTO(*current)
		return &dto, nil
	}
	if isClosed(current.Status) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "special order is already %s", current.Status).
			WithDetails(map[string]string{"from": current.Status.String(), "to": status.String()})
	}

	moved, err := s.repo.UpdateStatus(ctx, id, current.Status, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update special order")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "special order status changed concurrently")
	}
	current.Status = status
	dto := toDTO(*current)
	return &dto, nil
}

func isClosed(status enums.SpecialOrderStatus) bool {
	return status == enums.SpecialOrderStatusFulfilled || status == enums.SpecialOrderStatusCancelled
}

func toDTO(row models.SpecialOrder) types.SpecialOrder {
	var size types.Size
	if row.Size != "" {
		size, _ = types.ParseSize(row.Size)
	}
	return types.SpecialOrder{
		ID:            row.ID,
		CustomerName:  row.CustomerName,
		CustomerPhone: row.CustomerPhone,
		ProductName:   row.ProductName,
		Brand:         row.Brand,
		Size:          size,
		Details:       row.Details,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
	}
}
