package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
    hashed, err := HashPassword("hunter22")
    require.NoError(t, err)
    assert.NotEqual(t, "hunter22", hashed)

    assert.True(t, CheckPassword(hashed, "hunter22"))
    assert.False(t, CheckPassword(hashed, "hunter23"))
    assert.False(t, CheckPassword("not-a-hash", "hunter22"))
}
