package controllers

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/gin-gonic/gin"

    "github.com/collabtasks/backend/internal/models"
)

const dateLayout = "2006-01-02"

// uintParam parses a numeric path parameter; writes the 400 itself so
// callers just bail on !ok.
func uintParam(c *gin.Context, name string) (uint, bool) {
    raw := strings.TrimSpace(c.Param(name))
    n, err := strconv.ParseUint(raw, 10, 32)
    if err != nil || n == 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
        return 0, false
    }
    return uint(n), true
}

func parseDate(raw string) (time.Time, error) {
    return time.Parse(dateLayout, strings.TrimSpace(raw))
}

// currentUser returns the account the auth middleware resolved, if any.
func currentUser(c *gin.Context) (models.User, bool) {
    uVal, ok := c.Get("user")
    if !ok {
        return models.User{}, false
    }
    user, ok := uVal.(models.User)
    return user, ok
}

func isAdmin(u models.User) bool {
    return u.Role == models.RoleAdmin
}
