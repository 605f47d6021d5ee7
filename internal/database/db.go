package database

import (
    "fmt"

    "gorm.io/driver/postgres"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/config"
    "github.com/collabtasks/backend/internal/models"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
    dsn := fmt.Sprintf(
        "host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
        cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
    )
    return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate creates/updates all tables including the FK constraints that carry
// the cascade and set-null delete rules. Parents first so constraints resolve.
func Migrate(db *gorm.DB) error {
    return db.AutoMigrate(
        &models.User{},
        &models.Room{},
        &models.TaskList{},
        &models.Task{},
        &models.RoomAssignment{},
        &models.RoomCheck{},
        &models.RoomCheckImage{},
        &models.RoomImage{},
        &models.ContactAttempt{},
    )
}
