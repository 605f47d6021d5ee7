package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
)

type TaskListController struct {
    DB *gorm.DB
}

type createTaskListRequest struct {
    Name   string `json:"name" binding:"required"`
    UserID string `json:"user_id"` // admin only; defaults to the caller
}

type updateTaskListRequest struct {
    Name *string `json:"name"`
}

func taskListResponse(tl models.TaskList) gin.H {
    return gin.H{
        "id":         tl.ID,
        "name":       tl.Name,
        "user_id":    tl.UserID,
        "created_at": tl.CreatedAt,
        "updated_at": tl.UpdatedAt,
    }
}

// ListTaskLists returns the caller's lists; admins see everyone's and may
// narrow with ?user_id=<public id>.
func (tc *TaskListController) ListTaskLists(c *gin.Context) {
    user, ok := currentUser(c)
    if !ok {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
        return
    }

    allowedSorts := map[string]string{
        "id":         "id",
        "created_at": "created_at",
        "name":       "name",
    }
    p := parseListParams(c, "created_at", allowedSorts)

    base := tc.DB.Model(&models.TaskList{})
    if !isAdmin(user) {
        base = base.Where("user_id = ?", user.ID)
    } else if filterID := strings.TrimSpace(c.Query("user_id")); filterID != "" {
        var owner models.User
        if err := tc.DB.Where("user_id = ?", filterID).First(&owner).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
            return
        }
        base = base.Where("user_id = ?", owner.ID)
    }

    var total int64
    if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    var lists []models.TaskList
    if err := p.apply(base.Session(&gorm.Session{})).Find(&lists).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    out := make([]gin.H, 0, len(lists))
    for _, tl := range lists {
        out = append(out, taskListResponse(tl))
    }
    c.JSON(http.StatusOK, gin.H{"data": out, "meta": p.meta(total)})
}

// ListUserTaskLists lists the task lists owned by one user (admin surface).
func (tc *TaskListController) ListUserTaskLists(c *gin.Context) {
    id := strings.TrimSpace(c.Param("user_id"))
    if id == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
        return
    }
    var owner models.User
    if err := tc.DB.Where("user_id = ?", id).First(&owner).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }
    var lists []models.TaskList
    if err := tc.DB.Where("user_id = ?", owner.ID).Order("created_at DESC").Find(&lists).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    out := make([]gin.H, 0, len(lists))
    for _, tl := range lists {
        out = append(out, taskListResponse(tl))
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}

func (tc *TaskListController) CreateTaskList(c *gin.Context) {
    user, ok := currentUser(c)
    if !ok {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
        return
    }
    var req createTaskListRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    ownerID := user.ID
    if req.UserID != "" && req.UserID != user.UserID {
        if !isAdmin(user) {
            c.JSON(http.StatusForbidden, gin.H{"error": "cannot create lists for other users"})
            return
        }
        var owner models.User
        if err := tc.DB.Where("user_id = ?", strings.TrimSpace(req.UserID)).First(&owner).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
            return
        }
        ownerID = owner.ID
    }

    list := models.TaskList{Name: req.Name, UserID: ownerID}
    if err := tc.DB.Create(&list).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "created", "id": list.ID})
}

// fetchTaskList loads a list and enforces that non-admins only touch their own.
func (tc *TaskListController) fetchTaskList(c *gin.Context) (models.TaskList, bool) {
    id, ok := uintParam(c, "id")
    if !ok {
        return models.TaskList{}, false
    }
    user, ok := currentUser(c)
    if !ok {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
        return models.TaskList{}, false
    }
    var list models.TaskList
    if err := tc.DB.First(&list, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "task list not found"})
        return models.TaskList{}, false
    }
    if !isAdmin(user) && list.UserID != user.ID {
        c.JSON(http.StatusForbidden, gin.H{"error": "not your task list"})
        return models.TaskList{}, false
    }
    return list, true
}

func (tc *TaskListController) GetTaskList(c *gin.Context) {
    list, ok := tc.fetchTaskList(c)
    if !ok {
        return
    }
    c.JSON(http.StatusOK, taskListResponse(list))
}

func (tc *TaskListController) UpdateTaskList(c *gin.Context) {
    list, ok := tc.fetchTaskList(c)
    if !ok {
        return
    }
    var req updateTaskListRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if req.Name != nil {
        list.Name = *req.Name
    }
    if err := tc.DB.Save(&list).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DeleteTaskList removes the list and every task in it.
func (tc *TaskListController) DeleteTaskList(c *gin.Context) {
    list, ok := tc.fetchTaskList(c)
    if !ok {
        return
    }
    if err := tc.DB.Delete(&list).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ListTasks returns the tasks in a list.
func (tc *TaskListController) ListTasks(c *gin.Context) {
    list, ok := tc.fetchTaskList(c)
    if !ok {
        return
    }
    var tasks []models.Task
    if err := tc.DB.Where("task_list_id = ?", list.ID).Order("created_at DESC").Find(&tasks).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    out := make([]gin.H, 0, len(tasks))
    for _, t := range tasks {
        out = append(out, taskResponse(t))
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}
