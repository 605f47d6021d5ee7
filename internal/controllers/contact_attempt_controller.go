package controllers

import (
    "encoding/json"
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
)

type ContactAttemptController struct {
    DB *gorm.DB
}

type createContactAttemptRequest struct {
    Date         string   `json:"date" binding:"required"` // YYYY-MM-DD
    Recipients   []string `json:"recipients" binding:"required,min=1"`
    EmailContent string   `json:"email_content"`
    Notes        string   `json:"notes"`
}

type updateContactAttemptRequest struct {
    Date         *string   `json:"date"`
    Recipients   *[]string `json:"recipients"`
    EmailContent *string   `json:"email_content"`
    Notes        *string   `json:"notes"`
}

func contactAttemptResponse(ca models.ContactAttempt) gin.H {
    var recipients []string
    if len(ca.Recipients) > 0 {
        // Stored as JSON; a decode failure here would mean a corrupt row.
        _ = json.Unmarshal(ca.Recipients, &recipients)
    }
    return gin.H{
        "id":            ca.ID,
        "room_id":       ca.RoomID,
        "date":          ca.Date.Format(dateLayout),
        "recipients":    recipients,
        "email_content": ca.EmailContent,
        "notes":         ca.Notes,
        "created_at":    ca.CreatedAt,
        "updated_at":    ca.UpdatedAt,
    }
}

// CreateContactAttempt records an outreach and bumps the room's
// last_contact_attempt in the same transaction.
func (cc *ContactAttemptController) CreateContactAttempt(c *gin.Context) {
    roomID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := cc.DB.First(&room, roomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    var req createContactAttemptRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    date, err := parseDate(req.Date)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
        return
    }
    recipients, err := json.Marshal(req.Recipients)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipients"})
        return
    }

    attempt := models.ContactAttempt{
        RoomID:       room.ID,
        Date:         date,
        Recipients:   recipients,
        EmailContent: req.EmailContent,
        Notes:        req.Notes,
    }
    if err := cc.DB.Transaction(func(tx *gorm.DB) error {
        if err := tx.Create(&attempt).Error; err != nil {
            return err
        }
        return tx.Model(&room).Update("last_contact_attempt", date).Error
    }); err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "created", "id": attempt.ID})
}

// ListContactAttempts lists a room's outreach history, newest first.
func (cc *ContactAttemptController) ListContactAttempts(c *gin.Context) {
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
        "date":       "date",
    }
    p := parseListParams(c, "date", allowedSorts)

    var total int64
    if err := cc.DB.Model(&models.ContactAttempt{}).Where("room_id = ?", room.ID).Count(&total).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    var attempts []models.ContactAttempt
    if err := p.apply(cc.DB.Model(&models.ContactAttempt{}).Where("room_id = ?", room.ID)).Find(&attempts).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    out := make([]gin.H, 0, len(attempts))
    for _, ca := range attempts {
        out = append(out, contactAttemptResponse(ca))
    }
    c.JSON(http.StatusOK, gin.H{"data": out, "meta": p.meta(total)})
}

func (cc *ContactAttemptController) GetContactAttempt(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var attempt models.ContactAttempt
    if err := cc.DB.First(&attempt, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "contact attempt not found"})
        return
    }
    c.JSON(http.StatusOK, contactAttemptResponse(attempt))
}

func (cc *ContactAttemptController) UpdateContactAttempt(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var attempt models.ContactAttempt
    if err := cc.DB.First(&attempt, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "contact attempt not found"})
        return
    }
    var req updateContactAttemptRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if req.Date != nil {
        date, err := parseDate(*req.Date)
        if err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
            return
        }
        attempt.Date = date
    }
    if req.Recipients != nil {
        recipients, err := json.Marshal(*req.Recipients)
        if err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipients"})
            return
        }
        attempt.Recipients = recipients
    }
    if req.EmailContent != nil {
        attempt.EmailContent = *req.EmailContent
    }
    if req.Notes != nil {
        attempt.Notes = *req.Notes
    }
    if err := cc.DB.Save(&attempt).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (cc *ContactAttemptController) DeleteContactAttempt(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var attempt models.ContactAttempt
    if err := cc.DB.First(&attempt, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "contact attempt not found"})
        return
    }
    if err := cc.DB.Delete(&attempt).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
