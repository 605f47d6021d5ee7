package models

import (
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
)

type User struct {
    ID        uint    `gorm:"primaryKey"`
    UserID    string  `gorm:"uniqueIndex"` // public identifier used in URLs and tokens
    Username  string  `gorm:"uniqueIndex;size:150"`
    FullName  string
    Email     *string `gorm:"uniqueIndex;size:254"`
    Password  string
    Role      string  `gorm:"size:10"`
    Status    string  `gorm:"size:10"`
    StudentID *string `gorm:"uniqueIndex;size:10"`
    Notes     string  `gorm:"type:text"`
    // rooms_access: visibility/management rights, independent of RoomAssignment.
    RoomsAccess []Room `gorm:"many2many:user_rooms_access;constraint:OnDelete:CASCADE"`
    CreatedAt   time.Time
    UpdatedAt   time.Time
}

func (u *User) BeforeSave(tx *gorm.DB) error {
    if err := checkChoice("role", u.Role, validRoles); err != nil {
        return err
    }
    return checkChoice("status", u.Status, validStatuses)
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
    if u.UserID == "" {
        u.UserID = uuid.NewString()
    }
    if u.Role == "" {
        u.Role = RoleStudent
    }
    if u.Status == "" {
        u.Status = StatusEnrolled
    }
    return nil
}
