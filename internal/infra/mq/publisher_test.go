package mq

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_Disabled(t *testing.T) {
	p, err := NewPublisher("", "")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewEnvelope(t *testing.T) {
	a := NewEnvelope("article:voted", map[string]int{"upvotes": 3})
	b := NewEnvelope("article:voted", nil)

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "article:voted", decoded["topic"])
	assert.Equal(t, map[string]interface{}{"upvotes": float64(3)}, decoded["payload"])
}
