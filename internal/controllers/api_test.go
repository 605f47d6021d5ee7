package controllers_test

import (
    "bytes"
    "encoding/json"
    "fmt"
    "mime/multipart"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    "gorm.io/gorm/logger"

    "github.com/collabtasks/backend/internal/config"
    "github.com/collabtasks/backend/internal/models"
    "github.com/collabtasks/backend/internal/routes"
    "github.com/collabtasks/backend/internal/utils"
)

const testPassword = "password123"

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
    t.Helper()
    gin.SetMode(gin.TestMode)

    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
        Logger:         logger.Default.LogMode(logger.Silent),
        TranslateError: true,
    })
    require.NoError(t, err)
    sqlDB, err := db.DB()
    require.NoError(t, err)
    sqlDB.SetMaxOpenConns(1)
    require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

    require.NoError(t, db.AutoMigrate(
        &models.User{},
        &models.Room{},
        &models.TaskList{},
        &models.Task{},
        &models.RoomAssignment{},
        &models.RoomCheck{},
        &models.RoomCheckImage{},
        &models.RoomImage{},
        &models.ContactAttempt{},
    ))

    cfg := &config.Config{JWTSecret: "test-secret", JWTExpiresIn: "60"}
    r := gin.New()
    routes.Register(r, db, cfg)
    return r, db
}

func createAccount(t *testing.T, db *gorm.DB, username, role string) models.User {
    t.Helper()
    hashed, err := utils.HashPassword(testPassword)
    require.NoError(t, err)
    u := models.User{Username: username, FullName: username, Password: hashed, Role: role}
    require.NoError(t, db.Create(&u).Error)
    return u
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
    t.Helper()
    var buf bytes.Buffer
    if body != nil {
        require.NoError(t, json.NewEncoder(&buf).Encode(body))
    }
    req := httptest.NewRequest(method, path, &buf)
    req.Header.Set("Content-Type", "application/json")
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var out map[string]any
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
    return out
}

func login(t *testing.T, r *gin.Engine, username string) string {
    t.Helper()
    w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
        "username": username,
        "password": testPassword,
    })
    require.Equal(t, http.StatusOK, w.Code, w.Body.String())
    body := decodeBody(t, w)
    token, _ := body["access_token"].(string)
    require.NotEmpty(t, token)
    return token
}

func TestLoginAndMe(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "admin", models.RoleAdmin)

    w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
        "username": "admin",
        "password": "wrong",
    })
    assert.Equal(t, http.StatusUnauthorized, w.Code)

    token := login(t, r, "admin")

    w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
    require.Equal(t, http.StatusOK, w.Code)
    body := decodeBody(t, w)
    assert.Equal(t, "admin", body["username"])
    assert.Equal(t, models.RoleAdmin, body["role"])

    w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", nil)
    assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGates(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "admin", models.RoleAdmin)
    createAccount(t, db, "student", models.RoleStudent)

    adminToken := login(t, r, "admin")
    studentToken := login(t, r, "student")

    w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", studentToken, gin.H{"name": "101", "floor": 1})
    assert.Equal(t, http.StatusForbidden, w.Code)

    w = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", studentToken, nil)
    assert.Equal(t, http.StatusForbidden, w.Code)

    w = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", adminToken, nil)
    assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "admin", models.RoleAdmin)
    token := login(t, r, "admin")

    payload := gin.H{
        "username": "alice",
        "password": "secret123",
        "email":    "alice@example.com",
    }
    w := doJSON(t, r, http.MethodPost, "/api/v1/admin/users", token, payload)
    require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

    payload["username"] = "alice2"
    w = doJSON(t, r, http.MethodPost, "/api/v1/admin/users", token, payload)
    assert.Equal(t, http.StatusConflict, w.Code)

    w = doJSON(t, r, http.MethodPost, "/api/v1/admin/users", token, gin.H{
        "username": "bob",
        "password": "secret123",
        "role":     "overlord",
    })
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomLifecycleWithChecks(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "admin", models.RoleAdmin)
    student := createAccount(t, db, "student", models.RoleStudent)

    adminToken := login(t, r, "admin")
    studentToken := login(t, r, "student")

    w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", adminToken, gin.H{"name": "101", "floor": 1})
    require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
    roomID := uint(decodeBody(t, w)["id"].(float64))

    w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d", roomID), adminToken, nil)
    require.Equal(t, http.StatusOK, w.Code)
    body := decodeBody(t, w)
    assert.Equal(t, "101", body["name"])
    assert.EqualValues(t, 1, body["floor"])

    // Student task list + task, then a check against the room.
    list := models.TaskList{Name: "duty", UserID: student.ID}
    require.NoError(t, db.Create(&list).Error)
    task := models.Task{Description: "inspect projector", TaskListID: list.ID}
    require.NoError(t, db.Create(&task).Error)

    w = doJSON(t, r, http.MethodPost, "/api/v1/room-checks", studentToken, gin.H{
        "room_id":    roomID,
        "task_id":    task.ID,
        "room_issue": true,
        "note":       "projector lamp dead",
    })
    require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
    checkID := uint(decodeBody(t, w)["id"].(float64))

    w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/room-checks/%d/images", checkID), studentToken, gin.H{
        "image_url": "https://img.example.com/lamp.jpg",
    })
    require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

    w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d/checks", roomID), adminToken, nil)
    require.Equal(t, http.StatusOK, w.Code)
    data := decodeBody(t, w)["data"].([]any)
    require.Len(t, data, 1)
    first := data[0].(map[string]any)
    assert.Equal(t, true, first["room_issue"])

    // Deleting the room removes the check and its image.
    w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/rooms/%d", roomID), adminToken, nil)
    require.Equal(t, http.StatusOK, w.Code)

    w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/room-checks/%d", checkID), adminToken, nil)
    assert.Equal(t, http.StatusNotFound, w.Code)

    var count int64
    db.Model(&models.RoomCheckImage{}).Count(&count)
    assert.EqualValues(t, 0, count)
}

func TestContactAttemptBumpsRoom(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "staff", models.RoleDptStaff)
    token := login(t, r, "staff")

    w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", token, gin.H{"name": "305", "floor": 3})
    require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
    roomID := uint(decodeBody(t, w)["id"].(float64))

    w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/rooms/%d/contact-attempts", roomID), token, gin.H{
        "date":          "2026-03-01",
        "recipients":    []string{"occupant@example.com"},
        "email_content": "please confirm the seating layout",
    })
    require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

    w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d", roomID), token, nil)
    require.Equal(t, http.StatusOK, w.Code)
    assert.Equal(t, "2026-03-01", decodeBody(t, w)["last_contact_attempt"])

    w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d/contact-attempts", roomID), token, nil)
    require.Equal(t, http.StatusOK, w.Code)
    data := decodeBody(t, w)["data"].([]any)
    require.Len(t, data, 1)
    attempt := data[0].(map[string]any)
    assert.Equal(t, []any{"occupant@example.com"}, attempt["recipients"])
}

func TestTaskListOwnership(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "alice", models.RoleStudent)
    createAccount(t, db, "bob", models.RoleStudent)

    aliceToken := login(t, r, "alice")
    bobToken := login(t, r, "bob")

    w := doJSON(t, r, http.MethodPost, "/api/v1/task-lists", aliceToken, gin.H{"name": "weekly chores"})
    require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
    listID := uint(decodeBody(t, w)["id"].(float64))

    w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/task-lists/%d/tasks", listID), aliceToken, gin.H{
        "description":     "water plants",
        "due_date":        "2026-09-07",
        "recurrence_type": "weekly",
    })
    require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
    taskID := uint(decodeBody(t, w)["id"].(float64))

    // Bob cannot see or edit Alice's list.
    w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/task-lists/%d", listID), bobToken, nil)
    assert.Equal(t, http.StatusForbidden, w.Code)
    w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", taskID), bobToken, nil)
    assert.Equal(t, http.StatusForbidden, w.Code)

    // Assign Bob; now he sees the task.
    var bob models.User
    require.NoError(t, db.Where("username = ?", "bob").First(&bob).Error)
    w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/assign", taskID), aliceToken, gin.H{
        "user_id": bob.UserID,
    })
    require.Equal(t, http.StatusOK, w.Code, w.Body.String())

    w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", taskID), bobToken, nil)
    require.Equal(t, http.StatusOK, w.Code)
    body := decodeBody(t, w)
    assert.Equal(t, "weekly", body["recurrence_type"])
    assert.Equal(t, "2026-09-07", body["due_date"])

    w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d", taskID), bobToken, gin.H{"completed": true})
    require.Equal(t, http.StatusOK, w.Code)

    // Invalid recurrence is rejected.
    w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d", taskID), aliceToken, gin.H{"recurrence_type": "hourly"})
    assert.Equal(t, http.StatusBadRequest, w.Code)

    // Deleting the list takes the task with it.
    w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/task-lists/%d", listID), aliceToken, nil)
    require.Equal(t, http.StatusOK, w.Code)
    var count int64
    db.Model(&models.Task{}).Count(&count)
    assert.EqualValues(t, 0, count)
}

func TestRoomsAccessScopesStudentListing(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "admin", models.RoleAdmin)
    student := createAccount(t, db, "student", models.RoleStudent)

    adminToken := login(t, r, "admin")
    studentToken := login(t, r, "student")

    w := doJSON(t, r, http.MethodPost, "/api/v1/rooms", adminToken, gin.H{"name": "101", "floor": 1})
    require.Equal(t, http.StatusCreated, w.Code)
    roomID := uint(decodeBody(t, w)["id"].(float64))
    w = doJSON(t, r, http.MethodPost, "/api/v1/rooms", adminToken, gin.H{"name": "102", "floor": 1})
    require.Equal(t, http.StatusCreated, w.Code)

    // No grants yet: student sees nothing.
    w = doJSON(t, r, http.MethodGet, "/api/v1/rooms", studentToken, nil)
    require.Equal(t, http.StatusOK, w.Code)
    assert.Len(t, decodeBody(t, w)["data"], 0)

    w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%s/rooms-access", student.UserID), adminToken, gin.H{
        "room_id": roomID,
    })
    require.Equal(t, http.StatusOK, w.Code, w.Body.String())

    w = doJSON(t, r, http.MethodGet, "/api/v1/rooms", studentToken, nil)
    require.Equal(t, http.StatusOK, w.Code)
    data := decodeBody(t, w)["data"].([]any)
    require.Len(t, data, 1)
    assert.Equal(t, "101", data[0].(map[string]any)["name"])

    // Admin keeps the full view.
    w = doJSON(t, r, http.MethodGet, "/api/v1/rooms", adminToken, nil)
    require.Equal(t, http.StatusOK, w.Code)
    assert.Len(t, decodeBody(t, w)["data"], 2)
}

func TestImportUsersCSV(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "admin", models.RoleAdmin)
    token := login(t, r, "admin")

    room := models.Room{Name: "Lab A", Floor: 2}
    require.NoError(t, db.Create(&room).Error)

    // Excel-style export: BOM ahead of the header.
    csvData := "\ufeffusername,password,full_name,email,role,student_id,room_name,semester\n" +
        "jdoe,secret123,John Doe,jdoe@example.com,student,s200,Lab A,2026S1\n" +
        "msmith,secret123,Mary Smith,msmith@example.com,dpt_staff,,,\n" +
        "broken,secret123,Broken Row,broken@example.com,overlord,,,\n"

    var buf bytes.Buffer
    mw := multipart.NewWriter(&buf)
    fw, err := mw.CreateFormFile("file", "users.csv")
    require.NoError(t, err)
    _, err = fw.Write([]byte(csvData))
    require.NoError(t, err)
    require.NoError(t, mw.Close())

    req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/import", &buf)
    req.Header.Set("Content-Type", mw.FormDataContentType())
    req.Header.Set("Authorization", "Bearer "+token)
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    require.Equal(t, http.StatusOK, w.Code, w.Body.String())

    summary := decodeBody(t, w)["summary"].(map[string]any)
    assert.EqualValues(t, 3, summary["total_rows"])
    assert.EqualValues(t, 2, summary["inserted"])
    assert.EqualValues(t, 1, summary["failed"])

    var jdoe models.User
    require.NoError(t, db.Where("username = ?", "jdoe").First(&jdoe).Error)
    require.NotNil(t, jdoe.StudentID)
    assert.Equal(t, "s200", *jdoe.StudentID)

    var assignments int64
    db.Model(&models.RoomAssignment{}).Where("user_id = ?", jdoe.ID).Count(&assignments)
    assert.EqualValues(t, 1, assignments)
}

func TestImportUsersRowNumbering(t *testing.T) {
    r, db := setupAPI(t)
    createAccount(t, db, "admin", models.RoleAdmin)
    token := login(t, r, "admin")

    // Row 3 is unreadable, row 4 collides with row 2; each failure must
    // report its own line number.
    csvData := "username,password,full_name\n" +
        "u1,secret123,User One\n" +
        "ab\"cd,secret123,Bad Quote\n" +
        "u1,secret123,Duplicate\n"

    var buf bytes.Buffer
    mw := multipart.NewWriter(&buf)
    fw, err := mw.CreateFormFile("file", "users.csv")
    require.NoError(t, err)
    _, err = fw.Write([]byte(csvData))
    require.NoError(t, err)
    require.NoError(t, mw.Close())

    req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/import", &buf)
    req.Header.Set("Content-Type", mw.FormDataContentType())
    req.Header.Set("Authorization", "Bearer "+token)
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    require.Equal(t, http.StatusOK, w.Code, w.Body.String())

    body := decodeBody(t, w)
    summary := body["summary"].(map[string]any)
    assert.EqualValues(t, 1, summary["inserted"])
    assert.EqualValues(t, 2, summary["failed"])

    failures := body["errors"].([]any)
    require.Len(t, failures, 2)
    assert.EqualValues(t, 3, failures[0].(map[string]any)["row"])
    assert.EqualValues(t, 4, failures[1].(map[string]any)["row"])
}
