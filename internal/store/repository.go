package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"forklift-fleet-backend/internal/idgen"
)

var (
	// ErrNotFound is returned when no record has the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when a record is created with a taken key.
	ErrDuplicateID = errors.New("duplicate id")
)

// Repository is the ordered collection of one entity type.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

type observer interface {
	Observe(ids ...string)
}

// gormRepository implements Repository for a model keyed by a string "id"
// column. Records are listed in insertion order.
type gormRepository[T any] struct {
	db   *gorm.DB
	ids  idgen.Generator
	name string
	key  func(*T) *string

	// beforeDelete removes rows that reference the record, inside the
	// delete transaction.
	beforeDelete func(tx *gorm.DB, id string) error
}

func newRepository[T any](db *gorm.DB, ids idgen.Generator, name string, key func(*T) *string) *gormRepository[T] {
	return &gormRepository[T]{db: db, ids: ids, name: name, key: key}
}

func (r *gormRepository[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.name, err)
	}
	return records, nil
}

func (r *gormRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var record T
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record, fmt.Errorf("%s %q: %w", r.name, id, ErrNotFound)
	}
	if err != nil {
		return record, fmt.Errorf("failed to get %s %q: %w", r.name, id, err)
	}
	return record, nil
}

// Create stores record, assigning the next generated ID when it has none.
// A record whose ID already exists is rejected with ErrDuplicateID.
func (r *gormRepository[T]) Create(ctx context.Context, record T) (T, error) {
	id := r.key(&record)
	if *id == "" {
		*id = r.ids.Next()
	} else if obs, ok := r.ids.(observer); ok {
		obs.Observe(*id)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(new(T)).Where("id = ?", *id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check %s id %q: %w", r.name, *id, err)
		}
		if count > 0 {
			return fmt.Errorf("%s %q: %w", r.name, *id, ErrDuplicateID)
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create %s %q: %w", r.name, *id, err)
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

// Update replaces the record stored under id.
func (r *gormRepository[T]) Update(ctx context.Context, id string, record T) (T, error) {
	*r.key(&record) = id

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		err := tx.First(&existing, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s %q: %w", r.name, id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load %s %q: %w", r.name, id, err)
		}
		if err := tx.Omit("created_at").Save(&record).Error; err != nil {
			return fmt.Errorf("failed to update %s %q: %w", r.name, id, err)
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

func (r *gormRepository[T]) Delete(ctx context.Context, id string) error {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.beforeDelete != nil {
			if err := r.beforeDelete(tx, id); err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(new(T))
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s %q: %w", r.name, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %q: %w", r.name, id, ErrNotFound)
	}
	return nil
}

// prime advances a sequence generator past every stored ID.
func (r *gormRepository[T]) prime(ctx context.Context) error {
	obs, ok := r.ids.(observer)
	if !ok {
		return nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).Model(new(T)).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to load %s ids: %w", r.name, err)
	}
	obs.Observe(ids...)
	return nil
}
