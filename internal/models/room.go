package models

import (
    "time"

    "gorm.io/gorm"
)

type Room struct {
    ID                      uint   `gorm:"primaryKey"`
    Name                    string `gorm:"size:100;not null"`
    Floor                   int
    PersistentNote          string     `gorm:"type:text"`
    UsualConfiguration      string     `gorm:"type:text"`
    RequestedInfrastructure string     `gorm:"type:text"`
    LastContactAttempt      *time.Time `gorm:"type:date"`
    // GORM builds the FK from the hasMany side when both ends declare the
    // relation, so the cascade rule has to live here as well.
    Assignments             []RoomAssignment `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    Checks                  []RoomCheck      `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    Images                  []RoomImage      `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    ContactAttempts         []ContactAttempt `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    CreatedAt               time.Time
    UpdatedAt               time.Time
}

// RoomAssignment binds a room to a user for a semester. Goes away with
// either parent.
type RoomAssignment struct {
    ID        uint   `gorm:"primaryKey"`
    RoomID    uint   `gorm:"index;not null"`
    Room      Room   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    UserID    uint   `gorm:"index;not null"`
    User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    Semester  string `gorm:"size:20;not null"`
    CreatedAt time.Time
    UpdatedAt time.Time
}

type RoomImage struct {
    ID        uint   `gorm:"primaryKey"`
    RoomID    uint   `gorm:"index;not null"`
    Room      Room   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    ImageURL  string `gorm:"size:200;not null"`
    ImageType string `gorm:"size:10"`
    CreatedAt time.Time
    UpdatedAt time.Time
}

func (ri *RoomImage) BeforeSave(tx *gorm.DB) error {
    return checkChoice("image_type", ri.ImageType, validImageTypes)
}

func (ri *RoomImage) BeforeCreate(tx *gorm.DB) error {
    if ri.ImageType == "" {
        ri.ImageType = ImageTypeDefault
    }
    return nil
}
