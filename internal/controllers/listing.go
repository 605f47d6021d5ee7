package controllers

import (
    "fmt"
    "strconv"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"
)

// listParams carries the limit/page/all/sort_by/sort_dir query contract every
// list endpoint shares.
type listParams struct {
    All     bool
    Limit   int
    Page    int
    SortBy  string
    SortDir string
    order   string
}

// parseListParams reads pagination and sorting from the query string. sort_by
// is matched against an allow-list of column names; anything else falls back
// to defaultSort.
func parseListParams(c *gin.Context, defaultSort string, allowedSorts map[string]string) listParams {
    p := listParams{Limit: 20, Page: 1}
    p.All = strings.EqualFold(c.Query("all"), "true") || c.Query("all") == "1"
    if v := c.Query("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            p.Limit = n
        }
    }
    if v := c.Query("page"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            p.Page = n
        }
    }

    p.SortBy = strings.ToLower(c.DefaultQuery("sort_by", defaultSort))
    p.SortDir = strings.ToUpper(c.DefaultQuery("sort_dir", "DESC"))
    if p.SortDir != "ASC" && p.SortDir != "DESC" {
        p.SortDir = "DESC"
    }
    sortCol, ok := allowedSorts[p.SortBy]
    if !ok {
        p.SortBy = defaultSort
        sortCol = allowedSorts[defaultSort]
    }
    p.order = fmt.Sprintf("%s %s", sortCol, p.SortDir)
    return p
}

func (p listParams) apply(q *gorm.DB) *gorm.DB {
    q = q.Order(p.order)
    if !p.All {
        q = q.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
    }
    return q
}

func (p listParams) meta(total int64) gin.H {
    meta := gin.H{"total": total, "all": p.All}
    if !p.All {
        meta["limit"] = p.Limit
        meta["page"] = p.Page
        meta["sort_by"] = p.SortBy
        meta["sort_dir"] = p.SortDir
    }
    return meta
}
