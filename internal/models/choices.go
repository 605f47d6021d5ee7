package models

import "fmt"

// Choice codes stored in the database. The short code is the persisted
// value; anything outside these sets is rejected before SQL runs.
const (
    RoleAdmin    = "admin"
    RoleDptStaff = "dpt_staff"
    RoleStudent  = "student"

    StatusEnrolled   = "enrolled"
    StatusUnenrolled = "unenrolled"

    RecurrenceNone   = "none"
    RecurrenceDaily  = "daily"
    RecurrenceWeekly = "weekly"

    ImageTypeDefault   = "default"
    ImageTypeFloorplan = "floorplan"
)

var (
    validRoles = map[string]struct{}{
        RoleAdmin:    {},
        RoleDptStaff: {},
        RoleStudent:  {},
    }
    validStatuses = map[string]struct{}{
        StatusEnrolled:   {},
        StatusUnenrolled: {},
    }
    validRecurrenceTypes = map[string]struct{}{
        RecurrenceNone:   {},
        RecurrenceDaily:  {},
        RecurrenceWeekly: {},
    }
    validImageTypes = map[string]struct{}{
        ImageTypeDefault:   {},
        ImageTypeFloorplan: {},
    }
)

func ValidRole(role string) bool {
    _, ok := validRoles[role]
    return ok
}

func ValidStatus(status string) bool {
    _, ok := validStatuses[status]
    return ok
}

func ValidRecurrenceType(rt string) bool {
    _, ok := validRecurrenceTypes[rt]
    return ok
}

func ValidImageType(it string) bool {
    _, ok := validImageTypes[it]
    return ok
}

// checkChoice accepts the empty string so BeforeCreate defaults can still
// apply; hooks run BeforeSave first, BeforeCreate after.
func checkChoice(field, value string, allowed map[string]struct{}) error {
    if value == "" {
        return nil
    }
    if _, ok := allowed[value]; !ok {
        return fmt.Errorf("invalid %s: %q", field, value)
    }
    return nil
}
