package seeders

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs every seeder. Each one skips rows that already exist, so it
// is safe to run repeatedly.
func (s *MainSeeder) SeedAll() error {
	log.Info("Starting database seeding")

	if err := s.SeedContentOnly(); err != nil {
		log.WithError(err).Error("Content seeding failed")
		return err
	}

	if err := s.SeedBadgesOnly(); err != nil {
		log.WithError(err).Error("Badge seeding failed")
		return err
	}

	log.Info("Database seeding completed")
	return nil
}

func (s *MainSeeder) SeedContentOnly() error {
	return NewContentSeeder(s.db).SeedContent()
}

func (s *MainSeeder) SeedBadgesOnly() error {
	return NewBadgeSeeder(s.db).SeedBadges()
}
