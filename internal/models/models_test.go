package models

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
// A single pooled connection keeps the PRAGMA (and the :memory: database
// itself) alive for the whole test.
func setupTestDB(t *testing.T) *gorm.DB {
    t.Helper()

    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
        Logger:         logger.Default.LogMode(logger.Silent),
        TranslateError: true,
    })
    require.NoError(t, err)

    sqlDB, err := db.DB()
    require.NoError(t, err)
    sqlDB.SetMaxOpenConns(1)

    require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

    err = db.AutoMigrate(
        &User{},
        &Room{},
        &TaskList{},
        &Task{},
        &RoomAssignment{},
        &RoomCheck{},
        &RoomCheckImage{},
        &RoomImage{},
        &ContactAttempt{},
    )
    require.NoError(t, err)
    return db
}

func strPtr(s string) *string { return &s }

func createUser(t *testing.T, db *gorm.DB, username string, mutate func(*User)) User {
    t.Helper()
    u := User{Username: username, FullName: username, Password: "x"}
    if mutate != nil {
        mutate(&u)
    }
    require.NoError(t, db.Create(&u).Error)
    return u
}

func TestUserDefaultsAndPublicID(t *testing.T) {
    db := setupTestDB(t)

    u := createUser(t, db, "alice", nil)
    assert.NotEmpty(t, u.UserID)
    assert.Equal(t, RoleStudent, u.Role)
    assert.Equal(t, StatusEnrolled, u.Status)
    assert.False(t, u.CreatedAt.IsZero())
    assert.False(t, u.UpdatedAt.IsZero())
}

func TestUserUniqueEmail(t *testing.T) {
    db := setupTestDB(t)

    createUser(t, db, "alice", func(u *User) { u.Email = strPtr("alice@example.com") })

    dup := User{Username: "alice2", FullName: "Alice 2", Password: "x", Email: strPtr("alice@example.com")}
    err := db.Create(&dup).Error
    require.Error(t, err)

    // NULL emails never collide.
    createUser(t, db, "bob", nil)
    createUser(t, db, "carol", nil)
}

func TestUserUniqueStudentID(t *testing.T) {
    db := setupTestDB(t)

    createUser(t, db, "alice", func(u *User) { u.StudentID = strPtr("s100") })

    dup := User{Username: "bob", FullName: "Bob", Password: "x", StudentID: strPtr("s100")}
    require.Error(t, db.Create(&dup).Error)
}

func TestChoiceValidation(t *testing.T) {
    db := setupTestDB(t)

    bad := User{Username: "mallory", FullName: "Mallory", Password: "x", Role: "superuser"}
    require.Error(t, db.Create(&bad).Error)

    bad = User{Username: "mallory", FullName: "Mallory", Password: "x", Status: "expelled"}
    require.Error(t, db.Create(&bad).Error)

    owner := createUser(t, db, "alice", nil)
    list := TaskList{Name: "chores", UserID: owner.ID}
    require.NoError(t, db.Create(&list).Error)

    task := Task{Description: "sweep", TaskListID: list.ID, RecurrenceType: "hourly"}
    require.Error(t, db.Create(&task).Error)

    task = Task{Description: "sweep", TaskListID: list.ID}
    require.NoError(t, db.Create(&task).Error)
    assert.Equal(t, RecurrenceNone, task.RecurrenceType)

    room := Room{Name: "101", Floor: 1}
    require.NoError(t, db.Create(&room).Error)

    img := RoomImage{RoomID: room.ID, ImageURL: "https://img.example.com/1.jpg", ImageType: "panorama"}
    require.Error(t, db.Create(&img).Error)

    img = RoomImage{RoomID: room.ID, ImageURL: "https://img.example.com/1.jpg"}
    require.NoError(t, db.Create(&img).Error)
    assert.Equal(t, ImageTypeDefault, img.ImageType)

    // Updates are validated too.
    img.ImageType = "thumbnail"
    require.Error(t, db.Save(&img).Error)
}

func TestRoomCascadeDelete(t *testing.T) {
    db := setupTestDB(t)

    staff := createUser(t, db, "staffer", func(u *User) { u.Role = RoleDptStaff })
    student := createUser(t, db, "student", nil)

    room := Room{Name: "101", Floor: 1}
    require.NoError(t, db.Create(&room).Error)

    list := TaskList{Name: "room duty", UserID: student.ID}
    require.NoError(t, db.Create(&list).Error)
    task := Task{Description: "check projector", TaskListID: list.ID}
    require.NoError(t, db.Create(&task).Error)

    assignment := RoomAssignment{RoomID: room.ID, UserID: staff.ID, Semester: "2026S1"}
    require.NoError(t, db.Create(&assignment).Error)

    check := RoomCheck{RoomID: room.ID, TaskID: task.ID, StudentStaffID: student.ID, Note: "all fine"}
    require.NoError(t, db.Create(&check).Error)
    checkImg := RoomCheckImage{RoomCheckID: check.ID, ImageURL: "https://img.example.com/c.jpg"}
    require.NoError(t, db.Create(&checkImg).Error)

    roomImg := RoomImage{RoomID: room.ID, ImageURL: "https://img.example.com/r.jpg", ImageType: ImageTypeFloorplan}
    require.NoError(t, db.Create(&roomImg).Error)

    attempt := ContactAttempt{
        RoomID:       room.ID,
        Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
        Recipients:   []byte(`["occupant@example.com"]`),
        EmailContent: "please reply",
    }
    require.NoError(t, db.Create(&attempt).Error)

    require.NoError(t, db.Delete(&room).Error)

    var count int64
    db.Model(&RoomAssignment{}).Count(&count)
    assert.EqualValues(t, 0, count)
    db.Model(&RoomCheck{}).Count(&count)
    assert.EqualValues(t, 0, count)
    db.Model(&RoomCheckImage{}).Count(&count)
    assert.EqualValues(t, 0, count)
    db.Model(&RoomImage{}).Count(&count)
    assert.EqualValues(t, 0, count)
    db.Model(&ContactAttempt{}).Count(&count)
    assert.EqualValues(t, 0, count)

    // Users and tasks are not the room's dependents.
    db.Model(&User{}).Count(&count)
    assert.EqualValues(t, 2, count)
    db.Model(&Task{}).Count(&count)
    assert.EqualValues(t, 1, count)
}

func TestUserDeleteCascadesListsButNullsAssignments(t *testing.T) {
    db := setupTestDB(t)

    owner := createUser(t, db, "owner", nil)
    assignee := createUser(t, db, "assignee", nil)

    list := TaskList{Name: "shared", UserID: owner.ID}
    require.NoError(t, db.Create(&list).Error)
    task := Task{Description: "water plants", TaskListID: list.ID, AssignedToID: &assignee.ID}
    require.NoError(t, db.Create(&task).Error)

    // Deleting the assignee clears the reference; the task survives.
    require.NoError(t, db.Delete(&assignee).Error)

    var got Task
    require.NoError(t, db.First(&got, task.ID).Error)
    assert.Nil(t, got.AssignedToID)

    // Deleting the owner takes the list and its tasks with it.
    require.NoError(t, db.Delete(&owner).Error)

    var count int64
    db.Model(&TaskList{}).Count(&count)
    assert.EqualValues(t, 0, count)
    db.Model(&Task{}).Count(&count)
    assert.EqualValues(t, 0, count)
}

func TestRoomCheckCascadesFromTaskAndStaff(t *testing.T) {
    db := setupTestDB(t)

    // Owner and the inspecting staff are different users, so deleting the
    // staff member exercises only the student_staff reference.
    owner := createUser(t, db, "owner", nil)
    staff := createUser(t, db, "staff", nil)
    room := Room{Name: "202", Floor: 2}
    require.NoError(t, db.Create(&room).Error)
    list := TaskList{Name: "duty", UserID: owner.ID}
    require.NoError(t, db.Create(&list).Error)
    task := Task{Description: "wipe board", TaskListID: list.ID}
    require.NoError(t, db.Create(&task).Error)

    check := RoomCheck{RoomID: room.ID, TaskID: task.ID, StudentStaffID: staff.ID}
    require.NoError(t, db.Create(&check).Error)

    require.NoError(t, db.Delete(&task).Error)

    var count int64
    db.Model(&RoomCheck{}).Count(&count)
    assert.EqualValues(t, 0, count)
    require.NoError(t, db.First(&Room{}, room.ID).Error)

    // Same again, but the staff member goes away instead.
    task = Task{Description: "wipe board", TaskListID: list.ID}
    require.NoError(t, db.Create(&task).Error)
    check = RoomCheck{RoomID: room.ID, TaskID: task.ID, StudentStaffID: staff.ID}
    require.NoError(t, db.Create(&check).Error)

    require.NoError(t, db.Delete(&staff).Error)

    db.Model(&RoomCheck{}).Count(&count)
    assert.EqualValues(t, 0, count)
    require.NoError(t, db.First(&Task{}, task.ID).Error)
    require.NoError(t, db.First(&Room{}, room.ID).Error)
}

func TestForeignKeyRequired(t *testing.T) {
    db := setupTestDB(t)

    // No such task list.
    task := Task{Description: "orphan", TaskListID: 9999}
    require.Error(t, db.Create(&task).Error)

    // No such room.
    img := RoomImage{RoomID: 9999, ImageURL: "https://img.example.com/x.jpg"}
    require.Error(t, db.Create(&img).Error)
}

func TestRoomChecksTraversal(t *testing.T) {
    db := setupTestDB(t)

    student := createUser(t, db, "student", nil)
    room := Room{Name: "101", Floor: 1}
    require.NoError(t, db.Create(&room).Error)
    list := TaskList{Name: "duty", UserID: student.ID}
    require.NoError(t, db.Create(&list).Error)
    task := Task{Description: "inspect", TaskListID: list.ID}
    require.NoError(t, db.Create(&task).Error)
    check := RoomCheck{RoomID: room.ID, TaskID: task.ID, StudentStaffID: student.ID}
    require.NoError(t, db.Create(&check).Error)

    var checks []RoomCheck
    require.NoError(t, db.Model(&Room{ID: room.ID}).Association("Checks").Find(&checks))
    require.Len(t, checks, 1)
    assert.Equal(t, check.ID, checks[0].ID)

    require.NoError(t, db.Delete(&room).Error)
    var count int64
    db.Model(&RoomCheck{}).Count(&count)
    assert.EqualValues(t, 0, count)
}

func TestRoomsAccessJoin(t *testing.T) {
    db := setupTestDB(t)

    user := createUser(t, db, "student", nil)
    roomA := Room{Name: "101", Floor: 1}
    roomB := Room{Name: "102", Floor: 1}
    require.NoError(t, db.Create(&roomA).Error)
    require.NoError(t, db.Create(&roomB).Error)

    require.NoError(t, db.Model(&user).Association("RoomsAccess").Append(&roomA, &roomB))
    assert.EqualValues(t, 2, db.Model(&user).Association("RoomsAccess").Count())

    require.NoError(t, db.Model(&user).Association("RoomsAccess").Delete(&roomA))
    assert.EqualValues(t, 1, db.Model(&user).Association("RoomsAccess").Count())

    // Deleting a room clears its grants but not the user.
    require.NoError(t, db.Delete(&roomB).Error)
    var joinCount int64
    db.Table("user_rooms_access").Count(&joinCount)
    assert.EqualValues(t, 0, joinCount)
    require.NoError(t, db.First(&User{}, user.ID).Error)
}
