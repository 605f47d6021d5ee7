package models

import (
    "time"

    "gorm.io/gorm"
)

// TaskList is a named collection of tasks owned by one user. Deleting the
// owner deletes the list and everything in it.
type TaskList struct {
    ID        uint   `gorm:"primaryKey"`
    Name      string `gorm:"size:100;not null"`
    UserID    uint   `gorm:"index;not null"`
    User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    Tasks     []Task `gorm:"foreignKey:TaskListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    CreatedAt time.Time
    UpdatedAt time.Time
}

type Task struct {
    ID          uint   `gorm:"primaryKey"`
    Description string `gorm:"type:text;not null"`
    Completed   bool
    DueDate     *time.Time `gorm:"type:date"`
    TaskListID  uint       `gorm:"index;not null"`
    TaskList    TaskList   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
    // Stored flag only; nothing in this backend generates recurring instances.
    RecurrenceType string `gorm:"size:10"`
    // Assignee outlives the task relation: deleting the user clears this.
    AssignedToID *uint `gorm:"index"`
    AssignedTo   *User `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

func (t *Task) BeforeSave(tx *gorm.DB) error {
    return checkChoice("recurrence_type", t.RecurrenceType, validRecurrenceTypes)
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
    if t.RecurrenceType == "" {
        t.RecurrenceType = RecurrenceNone
    }
    return nil
}
