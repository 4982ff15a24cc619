package database

import (
	"gorm.io/gorm"

	"blogcms/logger"
	"blogcms/models"
)

func RunMigrations(db *gorm.DB) error {
	log := logger.Get()
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.PostCategory{},
	)
	if err != nil {
		log.Error().Err(err).Msg("migrations failed")
		return err
	}

	log.Info().Msg("migrations completed")
	return nil
}
