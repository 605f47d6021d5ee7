package models

import "time"

// RoomCheck is an inspection of a room by student staff working a task.
// All three parents cascade into it.
type RoomCheck struct {
    ID             uint   `gorm:"primaryKey"`
    RoomID         uint   `gorm:"index;not null"`
    Room           Room   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    TaskID         uint   `gorm:"index;not null"`
    Task           Task   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    StudentStaffID uint   `gorm:"index;not null"`
    StudentStaff   User   `gorm:"foreignKey:StudentStaffID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    Completed      bool
    RoomIssue      bool
    Note           string           `gorm:"type:text"`
    Images         []RoomCheckImage `gorm:"foreignKey:RoomCheckID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    CreatedAt      time.Time
    UpdatedAt      time.Time
}

type RoomCheckImage struct {
    ID          uint      `gorm:"primaryKey"`
    RoomCheckID uint      `gorm:"index;not null"`
    RoomCheck   RoomCheck `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    ImageURL    string    `gorm:"size:200;not null"`
    CreatedAt   time.Time
    UpdatedAt   time.Time
}
