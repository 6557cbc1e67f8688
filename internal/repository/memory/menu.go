package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Categories ───────────────────────────────────────────────────────────────

type CategoryRepo struct{ s *Store }

func NewCategoryRepository(s *Store) repository.CategoryRepository { return &CategoryRepo{s: s} }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *CategoryRepo) List(_ context.Context) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	return nil
}

func (r *CategoryRepo) CountDishes(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, d := range r.s.dishes {
		if d.CategoryID == id {
			n++
		}
	}
	return n, nil
}

// ── Dishes ───────────────────────────────────────────────────────────────────

type DishRepo struct{ s *Store }

func NewDishRepository(s *Store) repository.DishRepository { return &DishRepo{s: s} }

var _ repository.DishRepository = (*DishRepo)(nil)

func (r *DishRepo) Create(_ context.Context, d *model.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	cp.Category = nil
	r.s.dishes[d.ID] = &cp
	return nil
}

func (r *DishRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Dish, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.dishes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	if cat, ok := r.s.categories[d.CategoryID]; ok {
		c := *cat
		cp.Category = &c
	}
	return &cp, nil
}

func (r *DishRepo) FindByNameAndCategory(_ context.Context, name string, categoryID uuid.UUID) (*model.Dish, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.dishes {
		if d.Name == name && d.CategoryID == categoryID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *DishRepo) List(_ context.Context, filter dto.DishFilter) ([]model.Dish, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Dish, 0, len(r.s.dishes))
	for _, d := range r.s.dishes {
		switch filter.Available {
		case "false":
			if d.Available {
				continue
			}
		case "all":
		default:
			if !d.Available {
				continue
			}
		}
		if filter.CategoryID != "" && d.CategoryID.String() != filter.CategoryID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Name)) {
			continue
		}
		cp := *d
		if cat, ok := r.s.categories[d.CategoryID]; ok {
			c := *cat
			cp.Category = &c
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *DishRepo) Update(_ context.Context, d *model.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.dishes[d.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	d.UpdatedAt = time.Now()
	cp := *d
	cp.Category = nil
	r.s.dishes[d.ID] = &cp
	return nil
}

func (r *DishRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.dishes, id)
	return nil
}
