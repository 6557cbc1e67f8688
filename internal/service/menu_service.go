package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apperr"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/infra"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/rbac"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	menuCacheKey = "cache:menu:dishes"
	menuCacheTTL = 5 * time.Minute
)

type MenuService interface {
	CreateCategory(ctx context.Context, actor Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, actor Actor, id uuid.UUID) error

	CreateDish(ctx context.Context, actor Actor, req dto.CreateDishRequest) (*dto.DishResponse, error)
	GetDish(ctx context.Context, id uuid.UUID) (*dto.DishResponse, error)
	ListDishes(ctx context.Context, filter dto.DishFilter) ([]dto.DishResponse, error)
	UpdateDish(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateDishRequest) (*dto.DishResponse, error)
	DeleteDish(ctx context.Context, actor Actor, id uuid.UUID) error

	ImportFromRemote(ctx context.Context, actor Actor) (*dto.ImportResult, error)
}

type menuService struct {
	dishRepo     repository.DishRepository
	categoryRepo repository.CategoryRepository
	rdb          *redis.Client
	syncClient   *infra.MenuSyncClient
	cb           *infra.CircuitBreaker
}

// NewMenuService wires the menu catalog. rdb and syncClient may be nil:
// caching and remote import degrade to no-ops.
func NewMenuService(
	dishRepo repository.DishRepository,
	categoryRepo repository.CategoryRepository,
	rdb *redis.Client,
	syncClient *infra.MenuSyncClient,
	cb *infra.CircuitBreaker,
) MenuService {
	return &menuService{
		dishRepo:     dishRepo,
		categoryRepo: categoryRepo,
		rdb:          rdb,
		syncClient:   syncClient,
		cb:           cb,
	}
}

// ── Categories ────────────────────────────────────────────────────────────────

func (s *menuService) CreateCategory(ctx context.Context, actor Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageMenu) {
		return nil, apperr.Forbidden("only admins may manage the menu")
	}
	if existing, err := s.categoryRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("category %q already exists", req.Name))
	}
	cat := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categoryRepo.Create(ctx, cat); err != nil {
		return nil, err
	}
	s.invalidateMenuCache(ctx)
	resp := categoryToResponse(cat)
	return &resp, nil
}

func (s *menuService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, len(cats))
	for i := range cats {
		resp[i] = categoryToResponse(&cats[i])
	}
	return resp, nil
}

func (s *menuService) UpdateCategory(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageMenu) {
		return nil, apperr.Forbidden("only admins may manage the menu")
	}
	cat, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("category not found")
	}
	if req.Name != nil && *req.Name != cat.Name {
		if existing, err := s.categoryRepo.FindByName(ctx, *req.Name); err == nil && existing != nil {
			return nil, apperr.Conflict(fmt.Sprintf("category %q already exists", *req.Name))
		}
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = req.Description
	}
	if err := s.categoryRepo.Update(ctx, cat); err != nil {
		return nil, err
	}
	s.invalidateMenuCache(ctx)
	resp := categoryToResponse(cat)
	return &resp, nil
}

func (s *menuService) DeleteCategory(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageMenu) {
		return apperr.Forbidden("only admins may manage the menu")
	}
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return apperr.NotFound("category not found")
	}
	count, err := s.categoryRepo.CountDishes(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict(fmt.Sprintf("category still has %d dishes", count))
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateMenuCache(ctx)
	return nil
}

// ── Dishes ────────────────────────────────────────────────────────────────────

func (s *menuService) CreateDish(ctx context.Context, actor Actor, req dto.CreateDishRequest) (*dto.DishResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageMenu) {
		return nil, apperr.Forbidden("only admins may manage the menu")
	}
	if req.Price.IsNegative() || req.Price.IsZero() {
		return nil, apperr.Validation("price must be positive")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apperr.Validation("invalid category_id")
	}
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, apperr.NotFound("category not found")
	}
	if existing, err := s.dishRepo.FindByNameAndCategory(ctx, req.Name, categoryID); err == nil && existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("dish %q already exists in category %q", req.Name, category.Name))
	}

	cookingTime := req.CookingTimeMinutes
	if cookingTime == 0 {
		cookingTime = 15
	}
	dish := &model.Dish{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		CategoryID:         categoryID,
		CookingTimeMinutes: cookingTime,
		Available:          true,
	}
	if err := s.dishRepo.Create(ctx, dish); err != nil {
		return nil, err
	}
	s.invalidateMenuCache(ctx)
	dish.Category = category
	resp := dishToResponse(dish)
	return &resp, nil
}

func (s *menuService) GetDish(ctx context.Context, id uuid.UUID) (*dto.DishResponse, error) {
	dish, err := s.dishRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("dish not found")
	}
	resp := dishToResponse(dish)
	return &resp, nil
}

// ListDishes serves the default menu view from the Redis cache when one is
// configured. Filtered views always go to the store.
func (s *menuService) ListDishes(ctx context.Context, filter dto.DishFilter) ([]dto.DishResponse, error) {
	cacheable := filter == (dto.DishFilter{})
	if cacheable && s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, menuCacheKey).Bytes(); err == nil {
			var cached []dto.DishResponse
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	dishes, err := s.dishRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DishResponse, len(dishes))
	for i := range dishes {
		resp[i] = dishToResponse(&dishes[i])
	}

	if cacheable && s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, menuCacheKey, raw, menuCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("menu cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *menuService) UpdateDish(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateDishRequest) (*dto.DishResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageMenu) {
		return nil, apperr.Forbidden("only admins may manage the menu")
	}
	dish, err := s.dishRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("dish not found")
	}

	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apperr.Validation("invalid category_id")
		}
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			return nil, apperr.NotFound("category not found")
		}
		dish.CategoryID = categoryID
		dish.Category = nil
	}
	if req.Name != nil && *req.Name != dish.Name {
		if existing, err := s.dishRepo.FindByNameAndCategory(ctx, *req.Name, dish.CategoryID); err == nil && existing != nil {
			return nil, apperr.Conflict(fmt.Sprintf("dish %q already exists in this category", *req.Name))
		}
		dish.Name = *req.Name
	}
	if req.Description != nil {
		dish.Description = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() || req.Price.IsZero() {
			return nil, apperr.Validation("price must be positive")
		}
		dish.Price = *req.Price
	}
	if req.CookingTimeMinutes != nil {
		dish.CookingTimeMinutes = *req.CookingTimeMinutes
	}
	if req.Available != nil {
		dish.Available = *req.Available
	}

	if err := s.dishRepo.Update(ctx, dish); err != nil {
		return nil, err
	}
	s.invalidateMenuCache(ctx)
	resp := dishToResponse(dish)
	return &resp, nil
}

// DeleteDish removes a dish from the catalog. Orders that already snapshot
// the dish keep their line items untouched.
func (s *menuService) DeleteDish(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageMenu) {
		return apperr.Forbidden("only admins may manage the menu")
	}
	if _, err := s.dishRepo.FindByID(ctx, id); err != nil {
		return apperr.NotFound("dish not found")
	}
	if err := s.dishRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateMenuCache(ctx)
	return nil
}

// ── Remote import ─────────────────────────────────────────────────────────────

// ImportFromRemote pulls the catalog feed through the circuit breaker and
// upserts dishes by (name, category). Unknown categories are created on
// the fly; rows with unparseable prices are skipped, not fatal.
func (s *menuService) ImportFromRemote(ctx context.Context, actor Actor) (*dto.ImportResult, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageMenu) {
		return nil, apperr.Forbidden("only admins may import the menu")
	}
	if s.syncClient == nil {
		return nil, apperr.Validation("remote menu feed is not configured")
	}

	var remote []infra.RemoteDish
	err := s.cb.Execute(func() error {
		var err error
		remote, err = s.syncClient.Fetch(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			return nil, apperr.Conflict("menu feed is temporarily unavailable")
		}
		return nil, err
	}

	result := &dto.ImportResult{}
	for _, rd := range remote {
		if rd.Name == "" || rd.Category == "" {
			result.Skipped++
			continue
		}
		price, err := decimal.NewFromString(rd.Price)
		if err != nil || price.IsNegative() || price.IsZero() {
			log.Warn().Str("dish", rd.Name).Str("price", rd.Price).Msg("import: bad price, skipping")
			result.Skipped++
			continue
		}

		category, err := s.categoryRepo.FindByName(ctx, rd.Category)
		if err != nil {
			category = &model.Category{Name: rd.Category}
			if err := s.categoryRepo.Create(ctx, category); err != nil {
				result.Skipped++
				continue
			}
		}

		available := true
		if rd.Available != nil {
			available = *rd.Available
		}
		cookingTime := rd.CookingTimeMinutes
		if cookingTime == 0 {
			cookingTime = 15
		}

		existing, err := s.dishRepo.FindByNameAndCategory(ctx, rd.Name, category.ID)
		if err == nil && existing != nil {
			existing.Price = price
			existing.CookingTimeMinutes = cookingTime
			existing.Available = available
			if rd.Description != "" {
				desc := rd.Description
				existing.Description = &desc
			}
			if err := s.dishRepo.Update(ctx, existing); err != nil {
				result.Skipped++
				continue
			}
			result.Updated++
			continue
		}

		dish := &model.Dish{
			Name:               rd.Name,
			Price:              price,
			CategoryID:         category.ID,
			CookingTimeMinutes: cookingTime,
			Available:          available,
		}
		if rd.Description != "" {
			desc := rd.Description
			dish.Description = &desc
		}
		if err := s.dishRepo.Create(ctx, dish); err != nil {
			result.Skipped++
			continue
		}
		result.Imported++
	}

	s.invalidateMenuCache(ctx)
	log.Info().Int("imported", result.Imported).Int("updated", result.Updated).
		Int("skipped", result.Skipped).Msg("menu import finished")
	return result, nil
}

func (s *menuService) invalidateMenuCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, menuCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("menu cache invalidation failed")
	}
}

func categoryToResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID.String(), Name: c.Name, Description: c.Description}
}

func dishToResponse(d *model.Dish) dto.DishResponse {
	resp := dto.DishResponse{
		ID:                 d.ID.String(),
		Name:               d.Name,
		Description:        d.Description,
		Price:              d.Price,
		CategoryID:         d.CategoryID.String(),
		CookingTimeMinutes: d.CookingTimeMinutes,
		Available:          d.Available,
	}
	if d.Category != nil {
		resp.CategoryName = d.Category.Name
	}
	return resp
}
