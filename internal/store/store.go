package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"forklift-fleet-backend/internal/idgen"
	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/summary"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	Forklifts() Repository[model.Forklift]
	Operators() Repository[model.Operator]
	Maintenances() Repository[model.Maintenance]
	GasSupplies() Repository[model.GasSupply]
	Operations() Repository[model.Operation]

	// Snapshot loads every collection at once.
	Snapshot(ctx context.Context, at time.Time) (summary.Snapshot, error)
	// PrimeIDs advances the ID sequences past the stored records.
	PrimeIDs(ctx context.Context) error

	CreateUser(ctx context.Context, user *model.User) error
	UserByLogin(ctx context.Context, login string) (model.User, error)
	UserByID(ctx context.Context, id int64) (model.User, error)

	SaveSubscription(ctx context.Context, sub model.PushSubscription, operatorIDs []string) error
	Subscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForOperator(ctx context.Context, operatorID string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db           *gorm.DB
	forklifts    *gormRepository[model.Forklift]
	operators    *gormRepository[model.Operator]
	maintenances *gormRepository[model.Maintenance]
	gasSupplies  *gormRepository[model.GasSupply]
	operations   *gormRepository[model.Operation]
}

// ID prefixes of generated records.
const (
	PrefixForklift    = "FL"
	PrefixOperator    = "OP"
	PrefixMaintenance = "M"
	PrefixGasSupply   = "GS"
	PrefixOperation   = "OPR"
)

// NewGormStore creates a new GORM-backed store. idStrategy is "sequence" or
// "uuid"; anything else falls back to sequence.
func NewGormStore(db *gorm.DB, idStrategy string) Store {
	gen := func(prefix string) idgen.Generator {
		g, err := idgen.New(idStrategy, prefix)
		if err != nil {
			log.Printf("Warning: %v. Using sequential IDs.", err)
			return idgen.NewSequence(prefix, 3)
		}
		return g
	}

	operators := newRepository(db, gen(PrefixOperator), "operator",
		func(o *model.Operator) *string { return &o.ID })
	operators.beforeDelete = func(tx *gorm.DB, id string) error {
		return tx.Exec("DELETE FROM subscription_operator_mapping WHERE operator_id = ?", id).Error
	}

	return &gormStore{
		db:        db,
		operators: operators,
		forklifts: newRepository(db, gen(PrefixForklift), "forklift",
			func(f *model.Forklift) *string { return &f.ID }),
		maintenances: newRepository(db, gen(PrefixMaintenance), "maintenance",
			func(m *model.Maintenance) *string { return &m.ID }),
		gasSupplies: newRepository(db, gen(PrefixGasSupply), "gas supply",
			func(g *model.GasSupply) *string { return &g.ID }),
		operations: newRepository(db, gen(PrefixOperation), "operation",
			func(o *model.Operation) *string { return &o.ID }),
	}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

func (s *gormStore) Forklifts() Repository[model.Forklift]       { return s.forklifts }
func (s *gormStore) Operators() Repository[model.Operator]       { return s.operators }
func (s *gormStore) Maintenances() Repository[model.Maintenance] { return s.maintenances }
func (s *gormStore) GasSupplies() Repository[model.GasSupply]    { return s.gasSupplies }
func (s *gormStore) Operations() Repository[model.Operation]     { return s.operations }

func (s *gormStore) PrimeIDs(ctx context.Context) error {
	primers := []func(context.Context) error{
		s.forklifts.prime, s.operators.prime, s.maintenances.prime, s.gasSupplies.prime, s.operations.prime,
	}
	for _, prime := range primers {
		if err := prime(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *gormStore) Snapshot(ctx context.Context, at time.Time) (summary.Snapshot, error) {
	snap := summary.Snapshot{At: at}
	var err error
	if snap.Forklifts, err = s.forklifts.List(ctx); err != nil {
		return snap, err
	}
	if snap.Operators, err = s.operators.List(ctx); err != nil {
		return snap, err
	}
	if snap.Maintenances, err = s.maintenances.List(ctx); err != nil {
		return snap, err
	}
	if snap.GasSupplies, err = s.gasSupplies.List(ctx); err != nil {
		return snap, err
	}
	if snap.Operations, err = s.operations.List(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check user %q: %w", user.Username, err)
		}
		if count > 0 {
			return fmt.Errorf("user %q: %w", user.Username, ErrDuplicateID)
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %q: %w", user.Username, err)
		}
		return nil
	})
}

func (s *gormStore) UserByLogin(ctx context.Context, login string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error
	return user, notFound(err, "user", login)
}

func (s *gormStore) UserByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	return user, notFound(err, "user", fmt.Sprint(id))
}

// --- Push subscriptions ---

// SaveSubscription creates or replaces a subscription and the operators it
// watches. Unknown operator IDs are ignored.
func (s *gormStore) SaveSubscription(ctx context.Context, sub model.PushSubscription, operatorIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Omit("Operators").Create(&sub).Error; err != nil {
			return err
		}

		operators := []*model.Operator{}
		if len(operatorIDs) > 0 {
			if err := tx.Where("id IN ?", operatorIDs).Find(&operators).Error; err != nil {
				return err
			}
		}

		return tx.Model(&sub).Association("Operators").Replace(operators)
	})
}

func (s *gormStore) Subscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Operators").First(&sub, "endpoint = ?", endpoint).Error
	return sub, notFound(err, "subscription", endpoint)
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := model.PushSubscription{Endpoint: endpoint}
		if err := tx.Model(&sub).Association("Operators").Clear(); err != nil {
			return err
		}
		return tx.Delete(&sub).Error
	})
}

func (s *gormStore) SubscriptionsForOperator(ctx context.Context, operatorID string) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_operator_mapping som ON som.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("som.operator_id = ?", operatorID).
		Find(&subscriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for operator %s: %w", operatorID, err)
	}
	return subscriptions, nil
}

func notFound(err error, kind, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s %q: %w", kind, key, err)
	}
	return nil
}
