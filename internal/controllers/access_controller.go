package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
)

// AccessController manages the rooms_access grants: which rooms a user may
// see and manage. Separate concern from semester RoomAssignments.
type AccessController struct {
    DB *gorm.DB
}

type grantAccessRequest struct {
    RoomID uint `json:"room_id" binding:"required"`
}

func (ac *AccessController) fetchUser(c *gin.Context) (models.User, bool) {
    id := strings.TrimSpace(c.Param("user_id"))
    if id == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
        return models.User{}, false
    }
    var user models.User
    if err := ac.DB.Where("user_id = ?", id).First(&user).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return models.User{}, false
    }
    return user, true
}

func (ac *AccessController) GrantAccess(c *gin.Context) {
    user, ok := ac.fetchUser(c)
    if !ok {
        return
    }
    var req grantAccessRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    var room models.Room
    if err := ac.DB.First(&room, req.RoomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    if err := ac.DB.Model(&user).Association("RoomsAccess").Append(&room); err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "granted"})
}

func (ac *AccessController) RevokeAccess(c *gin.Context) {
    user, ok := ac.fetchUser(c)
    if !ok {
        return
    }
    roomID, ok := uintParam(c, "room_id")
    if !ok {
        return
    }
    var room models.Room
    if err := ac.DB.First(&room, roomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    if err := ac.DB.Model(&user).Association("RoomsAccess").Delete(&room); err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "revoked"})
}

func (ac *AccessController) ListAccess(c *gin.Context) {
    user, ok := ac.fetchUser(c)
    if !ok {
        return
    }
    var rooms []models.Room
    if err := ac.DB.Model(&user).Association("RoomsAccess").Find(&rooms); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    out := make([]gin.H, 0, len(rooms))
    for _, r := range rooms {
        out = append(out, roomResponse(r))
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}
