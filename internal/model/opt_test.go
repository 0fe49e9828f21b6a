package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptDistinguishesAbsentAndNull(t *testing.T) {
	type patch struct {
		Notes Opt[string] `json:"notes"`
		Count Opt[int]    `json:"count"`
	}

	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
	assert.False(t, p.Notes.Set)
	assert.False(t, p.Count.Set)

	p = patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"notes": null}`), &p))
	assert.True(t, p.Notes.Set)
	assert.Nil(t, p.Notes.Value)
	assert.False(t, p.Count.Set)

	p = patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"notes": "hi", "count": 3}`), &p))
	require.NotNil(t, p.Notes.Value)
	assert.Equal(t, "hi", *p.Notes.Value)
	require.NotNil(t, p.Count.Value)
	assert.Equal(t, 3, *p.Count.Value)
}

func TestOptRejectsWrongType(t *testing.T) {
	var o Opt[int]
	err := json.Unmarshal([]byte(`"three"`), &o)
	assert.Error(t, err)
}
