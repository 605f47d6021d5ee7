package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/models"
)

type TaskController struct {
    DB *gorm.DB
}

type createTaskRequest struct {
    Description    string  `json:"description" binding:"required"`
    Completed      *bool   `json:"completed"`
    DueDate        *string `json:"due_date"` // YYYY-MM-DD
    RecurrenceType string  `json:"recurrence_type"`
    AssignedTo     string  `json:"assigned_to"` // public user id
}

type updateTaskRequest struct {
    Description    *string `json:"description"`
    Completed      *bool   `json:"completed"`
    DueDate        *string `json:"due_date"` // YYYY-MM-DD, empty string clears
    RecurrenceType *string `json:"recurrence_type"`
}

type assignTaskRequest struct {
    UserID string `json:"user_id" binding:"required"`
}

func taskResponse(t models.Task) gin.H {
    out := gin.H{
        "id":              t.ID,
        "description":     t.Description,
        "completed":       t.Completed,
        "task_list_id":    t.TaskListID,
        "recurrence_type": t.RecurrenceType,
        "created_at":      t.CreatedAt,
        "updated_at":      t.UpdatedAt,
    }
    if t.DueDate != nil {
        out["due_date"] = t.DueDate.Format(dateLayout)
    } else {
        out["due_date"] = nil
    }
    out["assigned_to_id"] = t.AssignedToID
    return out
}

// CreateTask adds a task to a list (route nested under the list).
func (tc *TaskController) CreateTask(c *gin.Context) {
    listID, ok := uintParam(c, "id")
    if !ok {
        return
    }
    user, ok := currentUser(c)
    if !ok {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
        return
    }
    var list models.TaskList
    if err := tc.DB.First(&list, listID).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "task list not found"})
        return
    }
    if !isAdmin(user) && list.UserID != user.ID {
        c.JSON(http.StatusForbidden, gin.H{"error": "not your task list"})
        return
    }

    var req createTaskRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    task := models.Task{
        Description: req.Description,
        TaskListID:  list.ID,
    }
    if req.Completed != nil {
        task.Completed = *req.Completed
    }
    if req.DueDate != nil && *req.DueDate != "" {
        due, err := parseDate(*req.DueDate)
        if err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date, expected YYYY-MM-DD"})
            return
        }
        task.DueDate = &due
    }
    if req.RecurrenceType != "" {
        rt := strings.ToLower(req.RecurrenceType)
        if !models.ValidRecurrenceType(rt) {
            c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurrence_type"})
            return
        }
        task.RecurrenceType = rt
    }
    if req.AssignedTo != "" {
        var assignee models.User
        if err := tc.DB.Where("user_id = ?", strings.TrimSpace(req.AssignedTo)).First(&assignee).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"error": "assignee not found"})
            return
        }
        task.AssignedToID = &assignee.ID
    }

    if err := tc.DB.Create(&task).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "created", "id": task.ID})
}

// fetchTask loads a task and checks the caller owns its list, is its
// assignee, or is admin.
func (tc *TaskController) fetchTask(c *gin.Context) (models.Task, bool) {
    id, ok := uintParam(c, "id")
    if !ok {
        return models.Task{}, false
    }
    user, ok := currentUser(c)
    if !ok {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
        return models.Task{}, false
    }
    var task models.Task
    if err := tc.DB.Preload("TaskList").First(&task, id).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
        return models.Task{}, false
    }
    if !isAdmin(user) && task.TaskList.UserID != user.ID &&
        (task.AssignedToID == nil || *task.AssignedToID != user.ID) {
        c.JSON(http.StatusForbidden, gin.H{"error": "not your task"})
        return models.Task{}, false
    }
    return task, true
}

func (tc *TaskController) GetTask(c *gin.Context) {
    task, ok := tc.fetchTask(c)
    if !ok {
        return
    }
    c.JSON(http.StatusOK, taskResponse(task))
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
    task, ok := tc.fetchTask(c)
    if !ok {
        return
    }
    var req updateTaskRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if req.Description != nil {
        task.Description = *req.Description
    }
    if req.Completed != nil {
        task.Completed = *req.Completed
    }
    if req.DueDate != nil {
        if *req.DueDate == "" {
            task.DueDate = nil
        } else {
            due, err := parseDate(*req.DueDate)
            if err != nil {
                c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date, expected YYYY-MM-DD"})
                return
            }
            task.DueDate = &due
        }
    }
    if req.RecurrenceType != nil {
        rt := strings.ToLower(*req.RecurrenceType)
        if !models.ValidRecurrenceType(rt) {
            c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurrence_type"})
            return
        }
        task.RecurrenceType = rt
    }
    if err := tc.DB.Save(&task).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (tc *TaskController) DeleteTask(c *gin.Context) {
    task, ok := tc.fetchTask(c)
    if !ok {
        return
    }
    if err := tc.DB.Delete(&task).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (tc *TaskController) AssignTask(c *gin.Context) {
    task, ok := tc.fetchTask(c)
    if !ok {
        return
    }
    var req assignTaskRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    var assignee models.User
    if err := tc.DB.Where("user_id = ?", strings.TrimSpace(req.UserID)).First(&assignee).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }
    task.AssignedToID = &assignee.ID
    if err := tc.DB.Save(&task).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "assigned"})
}

func (tc *TaskController) UnassignTask(c *gin.Context) {
    task, ok := tc.fetchTask(c)
    if !ok {
        return
    }
    if err := tc.DB.Model(&task).Update("assigned_to_id", nil).Error; err != nil {
        writeDBError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "unassigned"})
}
