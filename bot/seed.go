package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/transitbot/bot/catalog"
	"github.com/m3rciful/transitbot/core/bootstrap"
)

var seededCategories = []catalog.PassCategory{
	catalog.PassDailyAC,
	catalog.PassDailyNonAC,
	catalog.PassMonthlyAC,
	catalog.PassMonthlyNonAC,
	catalog.PassStudent,
	catalog.PassSenior,
}

// ReferenceSeeder adapts SeedReference to the bootstrap seeding hook.
var ReferenceSeeder bootstrap.Seeder = bootstrap.SeederFunc(
	func(ctx context.Context, storage bootstrap.Storage) error {
		db, ok := storage.(*sqlx.DB)
		if !ok {
			return fmt.Errorf("seed: unexpected storage type %T", storage)
		}
		return SeedReference(ctx, db)
	},
)

// SeedReference upserts the static catalog into the reference tables so
// reporting queries can join against it. The flows read the in-process
// catalog directly.
func SeedReference(ctx context.Context, db *sqlx.DB) error {
	const locQ = `
		INSERT INTO locations (region, name, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (region, name) DO UPDATE SET position = EXCLUDED.position`
	for _, region := range catalog.Regions() {
		for i, loc := range catalog.Locations(region) {
			if _, err := db.ExecContext(ctx, locQ, string(region), loc, i); err != nil {
				return fmt.Errorf("seed location %q: %w", loc, err)
			}
		}
	}

	const passQ = `
		INSERT INTO pass_types (category, name, validity_days, fare, documents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category) DO UPDATE SET
			name          = EXCLUDED.name,
			validity_days = EXCLUDED.validity_days,
			fare          = EXCLUDED.fare,
			documents     = EXCLUDED.documents`
	for _, cat := range seededCategories {
		info, ok := catalog.PassInfo(cat)
		if !ok {
			continue
		}
		if _, err := db.ExecContext(ctx, passQ,
			string(cat), info.Name, info.ValidityDays, info.Fare, info.Documents); err != nil {
			return fmt.Errorf("seed pass type %q: %w", cat, err)
		}
	}
	return nil
}
