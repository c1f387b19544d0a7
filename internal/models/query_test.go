package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntent_JSON(t *testing.T) {
	info := QueryInfo{OriginalQuery: "hi", NormalizedQuery: "hi", DetectedIntent: IntentNone}
	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"detected_intent":null`)

	var back QueryInfo
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, IntentNone, back.DetectedIntent)

	info.DetectedIntent = IntentStay
	data, err = json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"detected_intent":"stay"`)
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, IntentStay, back.DetectedIntent)
}

func TestIntent_String(t *testing.T) {
	assert.Equal(t, "none", IntentNone.String())
	assert.Equal(t, "booking", IntentBooking.String())
}

func TestDocument_Category(t *testing.T) {
	d := &Document{Metadata: map[string]interface{}{"category": "cancellation"}}
	assert.Equal(t, "cancellation", d.Category())
	assert.Equal(t, "", (&Document{}).Category())
	assert.Equal(t, "", (&Document{Metadata: map[string]interface{}{"category": 3}}).Category())
}
