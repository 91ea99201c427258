package categories

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

const slugConstraint = "idx_categories_slug"

// CreateCategoryInput is the admin payload for a new category.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,notblank,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image" validate:"max=2048"`
}

// UpdateCategoryInput carries optional changes; nil fields are left alone.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=120"`
	Slug        *string `json:"slug" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Image       *string `json:"image" validate:"omitempty,max=2048"`
}

type Service interface {
	List(ctx context.Context) ([]types.Category, error)
	Get(ctx context.Context, idOrSlug string) (*types.Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (*types.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*types.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]types.Category, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]types.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

// Get resolves a category by id or, failing that, by slug.
func (s *service) Get(ctx context.Context, idOrSlug string) (*types.Category, error) {
	var (
		row *categoryRow
		err error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		row, err = s.repo.FindByID(ctx, id)
	} else {
		row, err = s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(idOrSlug)))
	}
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*types.Category, error) {
	name := strings.TrimSpace(input.Name)
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty").
			WithDetails(map[string]string{"slug": "must contain letters or digits"})
	}
	if err := s.ensureSlugFree(ctx, slug, nil); err != nil {
		return nil, err
	}

	row := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Image:       strings.TrimSpace(input.Image),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return nil, slugConflict(slug)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert category")
	}
	return s.Get(ctx, row.ID.String())
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*types.Category, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	row := existing.Category

	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		slug := Slugify(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty").
				WithDetails(map[string]string{"slug": "must contain letters or digits"})
		}
		if slug != row.Slug {
			if err := s.ensureSlugFree(ctx, slug, &id); err != nil {
				return nil, err
			}
		}
		row.Slug = slug
	}
	if input.Description != nil {
		row.Description = strings.TrimSpace(*input.Description)
	}
	if input.Image != nil {
		row.Image = strings.TrimSpace(*input.Image)
	}

	if err := s.repo.Save(ctx, &row); err != nil {
		if db.IsUniqueViolation(err, slugConstraint) {
			return nil, slugConflict(row.Slug)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return s.Get(ctx, id.String())
}

// Delete refuses to remove a category that still has products.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if existing.ProductCount > 0 {
		return pkgerrors.Newf(pkgerrors.CodeConflict, "category still has %d products", existing.ProductCount).
			WithDetails(map[string]int64{"product_count": existing.ProductCount})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) ensureSlugFree(ctx context.Context, slug string, except *uuid.UUID) error {
	taken, err := s.repo.SlugTaken(ctx, slug, except)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	if taken {
		return slugConflict(slug)
	}
	return nil
}

func slugConflict(slug string) error {
	return pkgerrors.Newf(pkgerrors.CodeConflict, "slug %q is already in use", slug).
		WithDetails(map[string]string{"slug": "already in use"})
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of other characters into a dash.
func Slugify(s string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}

func toDTO(row categoryRow) types.Category {
	return types.Category{
		ID:           row.ID,
		Name:         row.Name,
		Slug:         row.Slug,
		Description:  row.Description,
		Image:        row.Image,
		ProductCount: row.ProductCount,
		CreatedAt:    row.CreatedAt,
	}
}
