package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
)

type AssignmentController struct {
    DB *gorm.DB
}

type createAssignmentRequest struct {
    UserID   string `json:"user_id" binding:"required"`
    Semester string `json:"semester" binding:"required"`
}

// CreateAssignment binds a user to a room for a semester.
func (ac *AssignmentController) CreateAssignment(c *gin.Context) {
    roomID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := ac.DB.First(&room, roomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    var req createAssignmentRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    var user models.User
    if err := ac.DB.Where("user_id = ?", strings.TrimSpace(req.UserID)).First(&user).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }

    rec := models.RoomAssignment{RoomID: room.ID, UserID: user.ID, Semester: strings.TrimSpace(req.Semester)}
    if err := ac.DB.Where("room_id = ? AND user_id = ? AND semester = ?", rec.RoomID, rec.UserID, rec.Semester).
        FirstOrCreate(&rec).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "assigned", "id": rec.ID})
}

func (ac *AssignmentController) DeleteAssignment(c *gin.Context) {
    roomID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    assignmentID, ok := uintParam(c, "assignment_id")
    if !ok {
        return
    }
    res := ac.DB.Where("room_id = ?", roomID).Delete(&models.RoomAssignment{}, assignmentID)
    if res.Error != nil {
        writeDBError(c, res.Error)
        return
    }
    if res.RowsAffected == 0 {
        c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "unassigned"})
}

// ListAssignments lists who holds a room, semester by semester.
func (ac *AssignmentController) ListAssignments(c *gin.Context) {
    roomID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := ac.DB.First(&room, roomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }

    allowedSorts := map[string]string{
        "created_at": "ra.created_at",
        "semester":   "ra.semester",
        "username":   "u.username",
        "full_name":  "u.full_name",
    }
    p := parseListParams(c, "created_at", allowedSorts)
    semester := strings.TrimSpace(c.Query("semester"))

    countQ := ac.DB.Model(&models.RoomAssignment{}).Where("room_id = ?", room.ID)
    if semester != "" {
        countQ = countQ.Where("semester = ?", semester)
    }
    var total int64
    if err := countQ.Count(&total).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    type row struct {
        ID        uint   `json:"id"`
        UserID    string `json:"user_id"`
        Username  string `json:"username"`
        FullName  string `json:"full_name"`
        Semester  string `json:"semester"`
        CreatedAt string `json:"created_at"`
    }
    q := ac.DB.Table("room_assignments AS ra").
        Select("ra.id, u.user_id, u.username, u.full_name, ra.semester, ra.created_at").
        Joins("JOIN users u ON u.id = ra.user_id").
        Where("ra.room_id = ?", room.ID)
    if semester != "" {
        q = q.Where("ra.semester = ?", semester)
    }
    var rows []row
    if err := p.apply(q).Scan(&rows).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"data": rows, "meta": p.meta(total)})
}
