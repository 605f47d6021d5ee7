package controllers

import (
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/jackc/pgx/v5/pgconn"
    "gorm.io/gorm"
)

// Postgres error codes surfaced by the storage layer.
const (
    pgUniqueViolation     = "23505"
    pgForeignKeyViolation = "23503"
    pgNotNullViolation    = "23502"
    pgCheckViolation      = "23514"
)

func isUniqueViolation(err error) bool {
    if errors.Is(err, gorm.ErrDuplicatedKey) {
        return true
    }
    var pgErr *pgconn.PgError
    return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// writeDBError translates a storage failure into an HTTP response. Nothing
// is retried; the caller already rolled back whatever it was doing.
// Connections run with TranslateError, so the dialect-independent checks
// come first; the pgconn codes cover what GORM does not translate.
func writeDBError(c *gin.Context, err error) {
    if errors.Is(err, gorm.ErrRecordNotFound) {
        c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
        return
    }
    if errors.Is(err, gorm.ErrDuplicatedKey) {
        c.JSON(http.StatusConflict, gin.H{"error": "duplicate value violates a unique constraint"})
        return
    }
    if errors.Is(err, gorm.ErrForeignKeyViolated) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "referenced record does not exist"})
        return
    }
    var pgErr *pgconn.PgError
    if errors.As(err, &pgErr) {
        switch pgErr.Code {
        case pgUniqueViolation:
            c.JSON(http.StatusConflict, gin.H{"error": "duplicate value violates a unique constraint"})
        case pgForeignKeyViolation:
            c.JSON(http.StatusBadRequest, gin.H{"error": "referenced record does not exist"})
        case pgNotNullViolation:
            c.JSON(http.StatusBadRequest, gin.H{"error": "required field is missing"})
        case pgCheckViolation:
            c.JSON(http.StatusBadRequest, gin.H{"error": "value rejected by check constraint"})
        default:
            c.JSON(http.StatusBadRequest, gin.H{"error": pgErr.Message})
        }
        return
    }
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
