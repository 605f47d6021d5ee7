package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
)

type RoomCheckController struct {
    DB *gorm.DB
}

type createRoomCheckRequest struct {
    RoomID    uint   `json:"room_id" binding:"required"`
    TaskID    uint   `json:"task_id" binding:"required"`
    Completed *bool  `json:"completed"`
    RoomIssue *bool  `json:"room_issue"`
    Note      string `json:"note"`
    // Admin/staff may file on behalf of a student; defaults to the caller.
    StudentStaff string `json:"student_staff"`
}

type updateRoomCheckRequest struct {
    Completed *bool   `json:"completed"`
    RoomIssue *bool   `json:"room_issue"`
    Note      *string `json:"note"`
}

type addCheckImageRequest struct {
    ImageURL string `json:"image_url" binding:"required,url"`
}

func roomCheckResponse(rc models.RoomCheck) gin.H {
    return gin.H{
        "id":               rc.ID,
        "room_id":          rc.RoomID,
        "task_id":          rc.TaskID,
        "student_staff_id": rc.StudentStaffID,
        "completed":        rc.Completed,
        "room_issue":       rc.RoomIssue,
        "note":             rc.Note,
        "created_at":       rc.CreatedAt,
        "updated_at":       rc.UpdatedAt,
    }
}

func (cc *RoomCheckController) CreateRoomCheck(c *gin.Context) {
    user, ok := currentUser(c)
    if !ok {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
        return
    }
    var req createRoomCheckRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    var room models.Room
    if err := cc.DB.First(&room, req.RoomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    var task models.Task
    if err := cc.DB.First(&task, req.TaskID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
        return
    }

    staff := user
    if req.StudentStaff != "" && req.StudentStaff != user.UserID {
        if !isAdmin(user) && user.Role != models.RoleDptStaff {
            c.JSON(http.StatusForbidden, gin.H{"error": "cannot file checks for other users"})
            return
        }
        if err := cc.DB.Where("user_id = ?", strings.TrimSpace(req.StudentStaff)).First(&staff).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"error": "student staff not found"})
            return
        }
    }

    check := models.RoomCheck{
        RoomID:         room.ID,
        TaskID:         task.ID,
        StudentStaffID: staff.ID,
        Note:           req.Note,
    }
    if req.Completed != nil {
        check.Completed = *req.Completed
    }
    if req.RoomIssue != nil {
        check.RoomIssue = *req.RoomIssue
    }
    if err := cc.DB.Create(&check).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "created", "id": check.ID})
}

func (cc *RoomCheckController) GetRoomCheck(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var check models.RoomCheck
    if err := cc.DB.First(&check, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room check not found"})
        return
    }
    c.JSON(http.StatusOK, roomCheckResponse(check))
}

func (cc *RoomCheckController) UpdateRoomCheck(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var check models.RoomCheck
    if err := cc.DB.First(&check, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room check not found"})
        return
    }
    var req updateRoomCheckRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if req.Completed != nil {
        check.Completed = *req.Completed
    }
    if req.RoomIssue != nil {
        check.RoomIssue = *req.RoomIssue
    }
    if req.Note != nil {
        check.Note = *req.Note
    }
    if err := cc.DB.Save(&check).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DeleteRoomCheck removes the check and its images.
func (cc *RoomCheckController) DeleteRoomCheck(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var check models.RoomCheck
    if err := cc.DB.First(&check, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room check not found"})
        return
    }
    if err := cc.DB.Delete(&check).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ListRoomChecks lists the checks recorded for one room.
func (cc *RoomCheckController) ListRoomChecks(c *gin.Context) {
    roomID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := cc.DB.First(&room, roomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }

    allowedSorts := map[string]string{
        "id":         "id",
        "created_at": "created_at",
        "completed":  "completed",
        "room_issue": "room_issue",
    }
    p := parseListParams(c, "created_at", allowedSorts)

    var total int64
    if err := cc.DB.Model(&models.RoomCheck{}).Where("room_id = ?", room.ID).Count(&total).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    var checks []models.RoomCheck
    if err := p.apply(cc.DB.Model(&models.RoomCheck{}).Where("room_id = ?", room.ID)).Find(&checks).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    out := make([]gin.H, 0, len(checks))
    for _, ck := range checks {
        out = append(out, roomCheckResponse(ck))
    }
    c.JSON(http.StatusOK, gin.H{"data": out, "meta": p.meta(total)})
}

func (cc *RoomCheckController) AddImage(c *gin.Context) {
    checkID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var check models.RoomCheck
    if err := cc.DB.First(&check, checkID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room check not found"})
        return
    }
    var req addCheckImageRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    img := models.RoomCheckImage{RoomCheckID: check.ID, ImageURL: req.ImageURL}
    if err := cc.DB.Create(&img).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "created", "id": img.ID})
}

func (cc *RoomCheckController) ListImages(c *gin.Context) {
    checkID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var check models.RoomCheck
    if err := cc.DB.First(&check, checkID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room check not found"})
        return
    }
    var images []models.RoomCheckImage
    if err := cc.DB.Where("room_check_id = ?", check.ID).Order("created_at ASC").Find(&images).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    out := make([]gin.H, 0, len(images))
    for _, img := range images {
        out = append(out, gin.H{
            "id":         img.ID,
            "image_url":  img.ImageURL,
            "created_at": img.CreatedAt,
        })
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}

func (cc *RoomCheckController) DeleteImage(c *gin.Context) {
    checkID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    imageID, ok := uintParam(c, "image_id")
    if !ok {
        return
    }
    res := cc.DB.Where("room_check_id = ?", checkID).Delete(&models.RoomCheckImage{}, imageID)
    if res.Error != nil {
        writeDBError(c, res.Error)
        return
    }
    if res.RowsAffected == 0 {
        c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
