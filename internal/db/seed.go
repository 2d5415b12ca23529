package db

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/summary"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedData decodes the bundled demo fleet.
func SeedData() (summary.Snapshot, error) {
	var snap summary.Snapshot
	if err := yaml.Unmarshal(seedYAML, &snap); err != nil {
		return snap, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return snap, nil
}

// Seed loads the demo fleet into an empty database. Tables that already
// hold records are left untouched.
func Seed(ctx context.Context, db *gorm.DB) error {
	snap, err := SeedData()
	if err != nil {
		return err
	}

	base := time.Now()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedTable(tx, "forklifts", snap.Forklifts, base,
			func(f *model.Forklift, t time.Time) { f.CreatedAt = t }); err != nil {
			return err
		}
		if err := seedTable(tx, "operators", snap.Operators, base,
			func(o *model.Operator, t time.Time) { o.CreatedAt = t }); err != nil {
			return err
		}
		if err := seedTable(tx, "maintenances", snap.Maintenances, base,
			func(m *model.Maintenance, t time.Time) { m.CreatedAt = t }); err != nil {
			return err
		}
		if err := seedTable(tx, "gas supplies", snap.GasSupplies, base,
			func(g *model.GasSupply, t time.Time) { g.CreatedAt = t }); err != nil {
			return err
		}
		return seedTable(tx, "operations", snap.Operations, base,
			func(o *model.Operation, t time.Time) { o.CreatedAt = t })
	})
}

// seedTable inserts records with strictly increasing creation times so they
// list in file order.
func seedTable[T any](tx *gorm.DB, name string, records []T, base time.Time, stamp func(*T, time.Time)) error {
	if len(records) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(new(T)).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count %s: %w", name, err)
	}
	if count > 0 {
		log.Printf("Skipping %s seed: table already has %d rows", name, count)
		return nil
	}
	for i := range records {
		stamp(&records[i], base.Add(time.Duration(i)*time.Millisecond))
		if err := tx.Create(&records[i]).Error; err != nil {
			return fmt.Errorf("failed to seed %s: %w", name, err)
		}
	}
	log.Printf("Seeded %d %s", len(records), name)
	return nil
}

