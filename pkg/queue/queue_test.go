package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refreshPayload struct {
	ItemID string `json:"item_id"`
}

func TestParsePayloadTyped(t *testing.T) {
	p := refreshPayload{ItemID: "itm-1"}

	byValue, err := ParsePayload[refreshPayload](p)
	require.NoError(t, err)
	assert.Equal(t, "itm-1", byValue.ItemID)

	byPointer, err := ParsePayload[refreshPayload](&p)
	require.NoError(t, err)
	assert.Equal(t, "itm-1", byPointer.ItemID)
}

func TestParsePayloadRawJSON(t *testing.T) {
	got, err := ParsePayload[refreshPayload](json.RawMessage(`{"item_id":"itm-2"}`))
	require.NoError(t, err)
	assert.Equal(t, "itm-2", got.ItemID)
}

func TestParsePayloadGenericMap(t *testing.T) {
	got, err := ParsePayload[refreshPayload](map[string]interface{}{"item_id": "itm-3"})
	require.NoError(t, err)
	assert.Equal(t, "itm-3", got.ItemID)
}

func TestParsePayloadUnsupportedType(t *testing.T) {
	_, err := ParsePayload[refreshPayload](42)
	assert.Error(t, err)
}
