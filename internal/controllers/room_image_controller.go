package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
)

type RoomImageController struct {
    DB *gorm.DB
}

type createRoomImageRequest struct {
    ImageURL  string `json:"image_url" binding:"required,url"`
    ImageType string `json:"image_type"`
}

func (ic *RoomImageController) AddImage(c *gin.Context) {
    roomID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := ic.DB.First(&room, roomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    var req createRoomImageRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    imageType := strings.ToLower(req.ImageType)
    if imageType != "" && !models.ValidImageType(imageType) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image_type"})
        return
    }
    img := models.RoomImage{RoomID: room.ID, ImageURL: req.ImageURL, ImageType: imageType}
    if err := ic.DB.Create(&img).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "created", "id": img.ID})
}

func (ic *RoomImageController) ListImages(c *gin.Context) {
    roomID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := ic.DB.First(&room, roomID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }

    q := ic.DB.Where("room_id = ?", room.ID)
    if t := strings.ToLower(strings.TrimSpace(c.Query("image_type"))); t != "" {
        if !models.ValidImageType(t) {
            c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image_type"})
            return
        }
        q = q.Where("image_type = ?", t)
    }

    var images []models.RoomImage
    if err := q.Order("created_at ASC").Find(&images).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    out := make([]gin.H, 0, len(images))
    for _, img := range images {
        out = append(out, gin.H{
            "id":         img.ID,
            "image_url":  img.ImageURL,
            "image_type": img.ImageType,
            "created_at": img.CreatedAt,
        })
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}

func (ic *RoomImageController) DeleteImage(c *gin.Context) {
    roomID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    imageID, ok := uintParam(c, "image_id")
    if !ok {
        return
    }
    res := ic.DB.Where("room_id = ?", roomID).Delete(&models.RoomImage{}, imageID)
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
