package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
    "github.com/collabtasks/backend/internal/utils"
)

type UserController struct {
    DB *gorm.DB
}

type createUserRequest struct {
    Username  string         `json:"username" binding:"required"`
    FullName  string         `json:"full_name"`
    Email     *string        `json:"email" binding:"omitempty,email"`
    Password  string         `json:"password" binding:"required,min=6"`
    Role      string         `json:"role"`
    Status    string         `json:"status"`
    StudentID FlexibleString `json:"student_id"`
    Notes     string         `json:"notes"`
}

type updateUserRequest struct {
    FullName  *string         `json:"full_name"`
    Email     *string         `json:"email" binding:"omitempty,email"`
    Password  *string         `json:"password" binding:"omitempty,min=6"`
    Role      *string         `json:"role"`
    Status    *string         `json:"status"`
    StudentID *FlexibleString `json:"student_id"`
    Notes     *string         `json:"notes"`
}

func userResponse(u models.User) gin.H {
    return gin.H{
        "user_id":    u.UserID,
        "username":   u.Username,
        "full_name":  u.FullName,
        "email":      u.Email,
        "role":       u.Role,
        "status":     u.Status,
        "student_id": u.StudentID,
        "notes":      u.Notes,
        "created_at": u.CreatedAt,
        "updated_at": u.UpdatedAt,
    }
}

func (uc *UserController) ListUsers(c *gin.Context) {
    allowedSorts := map[string]string{
        "id":         "id",
        "created_at": "created_at",
        "username":   "username",
        "full_name":  "full_name",
        "email":      "email",
        "role":       "role",
        "status":     "status",
        "student_id": "student_id",
    }
    p := parseListParams(c, "created_at", allowedSorts)

    // Filters: q (username/full_name/email), role, status
    qText := strings.TrimSpace(c.Query("q"))
    role := strings.TrimSpace(strings.ToLower(c.Query("role")))
    status := strings.TrimSpace(strings.ToLower(c.Query("status")))
    if role != "" && !models.ValidRole(role) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
        return
    }
    if status != "" && !models.ValidStatus(status) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
        return
    }

    filtered := func(q *gorm.DB) *gorm.DB {
        if qText != "" {
            like := "%" + strings.ToLower(qText) + "%"
            q = q.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
        }
        if role != "" {
            q = q.Where("role = ?", role)
        }
        if status != "" {
            q = q.Where("status = ?", status)
        }
        return q
    }

    var total int64
    if err := filtered(uc.DB.Model(&models.User{})).Count(&total).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    var users []models.User
    if err := p.apply(filtered(uc.DB.Model(&models.User{}))).Find(&users).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    out := make([]gin.H, 0, len(users))
    for _, u := range users {
        out = append(out, userResponse(u))
    }
    c.JSON(http.StatusOK, gin.H{"data": out, "meta": p.meta(total)})
}

func (uc *UserController) CreateUser(c *gin.Context) {
    var req createUserRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    role := strings.ToLower(req.Role)
    if role == "" {
        role = models.RoleStudent
    }
    if !models.ValidRole(role) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
        return
    }
    status := strings.ToLower(req.Status)
    if status == "" {
        status = models.StatusEnrolled
    }
    if !models.ValidStatus(status) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
        return
    }

    hashed, err := utils.HashPassword(req.Password)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
        return
    }

    user := models.User{
        Username: req.Username,
        FullName: req.FullName,
        Email:    req.Email,
        Password: hashed,
        Role:     role,
        Status:   status,
        Notes:    req.Notes,
    }
    if sid := req.StudentID.String(); sid != "" {
        user.StudentID = &sid
    }

    if err := uc.DB.Create(&user).Error; err != nil {
        if isUniqueViolation(err) {
            c.JSON(http.StatusConflict, gin.H{"error": "username, email or student_id already exists"})
            return
        }
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "created", "user_id": user.UserID})
}

func (uc *UserController) GetUser(c *gin.Context) {
    id := strings.TrimSpace(c.Param("user_id"))
    if id == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
        return
    }
    var user models.User
    if err := uc.DB.Where("user_id = ?", id).First(&user).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }
    c.JSON(http.StatusOK, userResponse(user))
}

func (uc *UserController) UpdateUser(c *gin.Context) {
    id := strings.TrimSpace(c.Param("user_id"))
    if id == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
        return
    }
    var user models.User
    if err := uc.DB.Where("user_id = ?", id).First(&user).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }

    var req updateUserRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    if req.FullName != nil {
        user.FullName = *req.FullName
    }
    if req.Email != nil {
        user.Email = req.Email
    }
    if req.Password != nil {
        hashed, err := utils.HashPassword(*req.Password)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
            return
        }
        user.Password = hashed
    }
    if req.Role != nil {
        role := strings.ToLower(*req.Role)
        if !models.ValidRole(role) {
            c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
            return
        }
        user.Role = role
    }
    if req.Status != nil {
        status := strings.ToLower(*req.Status)
        if !models.ValidStatus(status) {
            c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
            return
        }
        user.Status = status
    }
    if req.StudentID != nil {
        if sid := req.StudentID.String(); sid != "" {
            user.StudentID = &sid
        } else {
            user.StudentID = nil
        }
    }
    if req.Notes != nil {
        user.Notes = *req.Notes
    }

    if err := uc.DB.Save(&user).Error; err != nil {
        if isUniqueViolation(err) {
            c.JSON(http.StatusConflict, gin.H{"error": "username, email or student_id already exists"})
            return
        }
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DeleteUser removes the account. Task lists owned by the user go with it;
// tasks merely assigned to the user stay behind with the assignee cleared.
func (uc *UserController) DeleteUser(c *gin.Context) {
    id := strings.TrimSpace(c.Param("user_id"))
    if id == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
        return
    }
    var user models.User
    if err := uc.DB.Where("user_id = ?", id).First(&user).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }
    if err := uc.DB.Delete(&user).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
