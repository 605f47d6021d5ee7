package config

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
    cfg := Load()
    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, "localhost", cfg.DBHost)
    assert.Equal(t, "collabtasks_db", cfg.DBName)
    assert.Equal(t, "admin", cfg.AdminUsername)
}

func TestLoadEnvOverrides(t *testing.T) {
    t.Setenv("PORT", "9090")
    t.Setenv("DB_NAME", "collabtasks_test")
    t.Setenv("ADMIN_USERNAME", "root")

    cfg := Load()
    assert.Equal(t, "9090", cfg.Port)
    assert.Equal(t, "collabtasks_test", cfg.DBName)
    assert.Equal(t, "root", cfg.AdminUsername)
}
