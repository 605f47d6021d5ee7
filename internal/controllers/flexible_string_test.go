package controllers

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFlexibleStringUnmarshal(t *testing.T) {
    var payload struct {
        StudentID FlexibleString `json:"student_id"`
    }

    require.NoError(t, json.Unmarshal([]byte(`{"student_id":" s100 "}`), &payload))
    assert.Equal(t, "s100", payload.StudentID.String())

    require.NoError(t, json.Unmarshal([]byte(`{"student_id":1234567}`), &payload))
    assert.Equal(t, "1234567", payload.StudentID.String())

    payload.StudentID = ""
    require.NoError(t, json.Unmarshal([]byte(`{"student_id":null}`), &payload))
    assert.Equal(t, "", payload.StudentID.String())

    err := json.Unmarshal([]byte(`{"student_id":{"nested":true}}`), &payload)
    require.Error(t, err)
}
