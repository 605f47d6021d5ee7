package models

import (
    "time"

    "gorm.io/datatypes"
)

// ContactAttempt records one outreach to a room's occupants. Email delivery
// itself happens elsewhere; this is the paper trail.
type ContactAttempt struct {
    ID           uint           `gorm:"primaryKey"`
    RoomID       uint           `gorm:"index;not null"`
    Room         Room           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    Date         time.Time      `gorm:"type:date;not null"`
    Recipients   datatypes.JSON `gorm:"type:jsonb"`
    EmailContent string         `gorm:"type:text"`
    Notes        string         `gorm:"type:text"`
    CreatedAt    time.Time
    UpdatedAt    time.Time
}
