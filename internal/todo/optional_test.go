package todo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesAbsentNullAndValue(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		set     bool
		null    bool
		value   bool
		wantPtr bool
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"completed": null}`, set: true, null: true},
		{name: "explicit false", body: `{"completed": false}`, set: true, wantPtr: true},
		{name: "explicit true", body: `{"completed": true}`, set: true, value: true, wantPtr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req updateTodoRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.set, req.Completed.Set)
			assert.Equal(t, tt.null, req.Completed.Null)
			assert.Equal(t, tt.value, req.Completed.Value)
			assert.Equal(t, tt.wantPtr, req.Completed.Ptr() != nil)
		})
	}
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var req updateTodoRequest
	err := json.Unmarshal([]byte(`{"title": 42}`), &req)
	assert.Error(t, err)
}

func TestUpdateInputEmpty(t *testing.T) {
	assert.True(t, UpdateInput{}.Empty())
	assert.False(t, UpdateInput{Description: Null[string]()}.Empty())
}
