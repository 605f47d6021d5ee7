package controllers

import (
    "bytes"
    "encoding/csv"
    "errors"
    "fmt"
    "io"
    "log"
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
    "github.com/collabtasks/backend/internal/utils"
)

type userImportError struct {
    Row      int    `json:"row"`
    Username string `json:"username,omitempty"`
    Error    string `json:"error"`
}

// ImportUsers bulk-creates users from a CSV file.
// Expected header columns (case-insensitive):
// username, password, full_name (required); email, role, status, student_id,
// notes, room_name, semester (optional). room_name+semester create a
// RoomAssignment for the new user.
func (uc *UserController) ImportUsers(c *gin.Context) {
    // Limit max upload size (10MB) to avoid accidental huge files.
    if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
        return
    }
    file, fileHeader, err := c.Request.FormFile("file")
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
        return
    }
    defer file.Close()

    if fileHeader == nil || fileHeader.Filename == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
        return
    }
    filename := strings.ToLower(strings.TrimSpace(fileHeader.Filename))
    if !strings.HasSuffix(filename, ".csv") {
        c.JSON(http.StatusBadRequest, gin.H{"error": "only .csv files are allowed"})
        return
    }

    data, err := io.ReadAll(file)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
        return
    }
    if len(bytes.TrimSpace(data)) == 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
        return
    }

    // Normalise line endings so files saved with only CR or CRLF behave
    // consistently.
    data = bytes.ReplaceAll(data, []byte{'\r', '\n'}, []byte{'\n'})
    data = bytes.ReplaceAll(data, []byte{'\r'}, []byte{'\n'})

    delimiter := ','
    firstLineEnd := bytes.IndexByte(data, '\n')
    if firstLineEnd == -1 {
        firstLineEnd = len(data)
    }
    firstLine := bytes.TrimPrefix(data[:firstLineEnd], []byte{0xEF, 0xBB, 0xBF})
    if bytes.Contains(firstLine, []byte{';'}) && !bytes.Contains(firstLine, []byte{','}) {
        delimiter = ';'
    }

    reader := csv.NewReader(bytes.NewReader(data))
    reader.TrimLeadingSpace = true
    reader.FieldsPerRecord = -1
    if delimiter != ',' {
        reader.Comma = delimiter
    }

    header, err := reader.Read()
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read header"})
        return
    }
    cleanHeader := func(val string) string {
        v := strings.TrimSpace(val)
        for strings.HasPrefix(v, "\ufeff") {
            v = strings.TrimPrefix(v, "\ufeff")
        }
        return strings.Trim(v, "\"'")
    }
    headerIdx := make(map[string]int, len(header))
    for idx, col := range header {
        key := strings.ToLower(cleanHeader(col))
        if key != "" {
            headerIdx[key] = idx
        }
    }
    log.Printf("import csv headers: %+v", header)

    required := []string{"username", "password", "full_name"}
    for _, key := range required {
        if _, ok := headerIdx[key]; !ok {
            c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing header column: %s", key)})
            return
        }
    }

    getVal := func(record []string, key string) string {
        idx, ok := headerIdx[key]
        if !ok || idx >= len(record) {
            return ""
        }
        return strings.TrimSpace(record[idx])
    }

    var (
        totalRows   int
        createdRows int
        failures    []userImportError
    )

    rowNum := 1 // already consumed header line
    roomCache := make(map[string]models.Room)
    for {
        row, err := reader.Read()
        if err == io.EOF {
            break
        }
        if err != nil {
            rowNum++
            failures = append(failures, userImportError{
                Row:   rowNum,
                Error: fmt.Sprintf("failed to read row: %v", err),
            })
            continue
        }
        rowNum++
        totalRows++

        username := getVal(row, "username")
        password := getVal(row, "password")
        fullName := getVal(row, "full_name")
        email := strings.ToLower(getVal(row, "email"))
        role := strings.ToLower(getVal(row, "role"))
        status := strings.ToLower(getVal(row, "status"))
        studentID := getVal(row, "student_id")
        notes := getVal(row, "notes")
        roomName := getVal(row, "room_name")
        semester := getVal(row, "semester")

        if username == "" || password == "" || fullName == "" {
            failures = append(failures, userImportError{
                Row:      rowNum,
                Username: username,
                Error:    "username, password, and full_name are required",
            })
            continue
        }
        if role == "" {
            role = models.RoleStudent
        }
        if !models.ValidRole(role) {
            failures = append(failures, userImportError{Row: rowNum, Username: username, Error: "invalid role"})
            continue
        }
        if status != "" && !models.ValidStatus(status) {
            failures = append(failures, userImportError{Row: rowNum, Username: username, Error: "invalid status"})
            continue
        }

        if existingErr := uc.DB.Where("username = ?", username).First(&models.User{}).Error; existingErr == nil {
            failures = append(failures, userImportError{Row: rowNum, Username: username, Error: "username already exists"})
            continue
        } else if !errors.Is(existingErr, gorm.ErrRecordNotFound) {
            failures = append(failures, userImportError{
                Row:      rowNum,
                Username: username,
                Error:    fmt.Sprintf("failed to check existing user: %v", existingErr),
            })
            continue
        }

        hashed, hashErr := utils.HashPassword(password)
        if hashErr != nil {
            failures = append(failures, userImportError{
                Row:      rowNum,
                Username: username,
                Error:    fmt.Sprintf("failed to hash password: %v", hashErr),
            })
            continue
        }

        user := models.User{
            Username: username,
            FullName: fullName,
            Password: hashed,
            Role:     role,
            Status:   status,
            Notes:    notes,
        }
        if email != "" {
            user.Email = &email
        }
        if studentID != "" {
            user.StudentID = &studentID
        }

        if err := uc.DB.Transaction(func(tx *gorm.DB) error {
            if err := tx.Create(&user).Error; err != nil {
                return err
            }
            if roomName != "" {
                if semester == "" {
                    return fmt.Errorf("semester is required for room assignment")
                }
                normalized := strings.ToLower(roomName)
                room, ok := roomCache[normalized]
                if !ok {
                    var fetched models.Room
                    if err := tx.Where("LOWER(name) = ?", normalized).First(&fetched).Error; err != nil {
                        if errors.Is(err, gorm.ErrRecordNotFound) {
                            return fmt.Errorf("room '%s' not found", roomName)
                        }
                        return err
                    }
                    roomCache[normalized] = fetched
                    room = fetched
                }
                assignment := models.RoomAssignment{RoomID: room.ID, UserID: user.ID, Semester: semester}
                if err := tx.Where("room_id = ? AND user_id = ? AND semester = ?", room.ID, user.ID, semester).
                    FirstOrCreate(&assignment).Error; err != nil {
                    return err
                }
            }
            return nil
        }); err != nil {
            failures = append(failures, userImportError{
                Row:      rowNum,
                Username: username,
                Error:    fmt.Sprintf("failed to insert user: %v", err),
            })
            continue
        }

        createdRows++
    }

    c.JSON(http.StatusOK, gin.H{
        "summary": gin.H{
            "total_rows": totalRows,
            "inserted":   createdRows,
            "failed":     len(failures),
        },
        "errors": failures,
    })
}
