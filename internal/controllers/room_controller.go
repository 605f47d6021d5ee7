package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
)

type RoomController struct {
    DB *gorm.DB
}

type createRoomRequest struct {
    Name                    string `json:"name" binding:"required"`
    Floor                   int    `json:"floor"`
    PersistentNote          string `json:"persistent_note"`
    UsualConfiguration      string `json:"usual_configuration"`
    RequestedInfrastructure string `json:"requested_infrastructure"`
}

type updateRoomRequest struct {
    Name                    *string `json:"name"`
    Floor                   *int    `json:"floor"`
    PersistentNote          *string `json:"persistent_note"`
    UsualConfiguration      *string `json:"usual_configuration"`
    RequestedInfrastructure *string `json:"requested_infrastructure"`
}

func roomResponse(r models.Room) gin.H {
    out := gin.H{
        "id":                       r.ID,
        "name":                     r.Name,
        "floor":                    r.Floor,
        "persistent_note":          r.PersistentNote,
        "usual_configuration":      r.UsualConfiguration,
        "requested_infrastructure": r.RequestedInfrastructure,
        "created_at":               r.CreatedAt,
        "updated_at":               r.UpdatedAt,
    }
    if r.LastContactAttempt != nil {
        out["last_contact_attempt"] = r.LastContactAttempt.Format(dateLayout)
    } else {
        out["last_contact_attempt"] = nil
    }
    return out
}

func (rc *RoomController) ListRooms(c *gin.Context) {
    user, _ := currentUser(c)

    allowedSorts := map[string]string{
        "id":         "id",
        "created_at": "created_at",
        "name":       "name",
        "floor":      "floor",
    }
    p := parseListParams(c, "created_at", allowedSorts)

    qText := strings.TrimSpace(c.Query("q"))
    floorStr := strings.TrimSpace(c.Query("floor"))

    filtered := func(q *gorm.DB) *gorm.DB {
        // Students only see rooms they were granted access to.
        if user.Role == models.RoleStudent {
            sub := rc.DB.Table("user_rooms_access").Select("room_id").Where("user_id = ?", user.ID)
            q = q.Where("id IN (?)", sub)
        }
        if qText != "" {
            like := "%" + strings.ToLower(qText) + "%"
            q = q.Where("LOWER(name) LIKE ?", like)
        }
        if floorStr != "" {
            q = q.Where("floor = ?", floorStr)
        }
        return q
    }

    var total int64
    if err := filtered(rc.DB.Model(&models.Room{})).Count(&total).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    var rooms []models.Room
    if err := p.apply(filtered(rc.DB.Model(&models.Room{}))).Find(&rooms).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    out := make([]gin.H, 0, len(rooms))
    for _, r := range rooms {
        out = append(out, roomResponse(r))
    }
    c.JSON(http.StatusOK, gin.H{"data": out, "meta": p.meta(total)})
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
    var req createRoomRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    room := models.Room{
        Name:                    req.Name,
        Floor:                   req.Floor,
        PersistentNote:          req.PersistentNote,
        UsualConfiguration:      req.UsualConfiguration,
        RequestedInfrastructure: req.RequestedInfrastructure,
    }
    if err := rc.DB.Create(&room).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "created", "id": room.ID})
}

func (rc *RoomController) GetRoom(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := rc.DB.First(&room, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    c.JSON(http.StatusOK, roomResponse(room))
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := rc.DB.First(&room, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    var req updateRoomRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if req.Name != nil {
        room.Name = *req.Name
    }
    if req.Floor != nil {
        room.Floor = *req.Floor
    }
    if req.PersistentNote != nil {
        room.PersistentNote = *req.PersistentNote
    }
    if req.UsualConfiguration != nil {
        room.UsualConfiguration = *req.UsualConfiguration
    }
    if req.RequestedInfrastructure != nil {
        room.RequestedInfrastructure = *req.RequestedInfrastructure
    }
    if err := rc.DB.Save(&room).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DeleteRoom removes the room and, via the FK constraints, its assignments,
// checks (with their images), images and contact attempts.
func (rc *RoomController) DeleteRoom(c *gin.Context) {
    id, ok := uintParam(c, "id")
    if !ok {
        return
    }
    var room models.Room
    if err := rc.DB.First(&room, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
        return
    }
    if err := rc.DB.Delete(&room).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
