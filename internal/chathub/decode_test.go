package chathub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		err  error
	}{
		{"bare string", `"q1"`, "q1", nil},
		{"object", `{"quizId":"q1"}`, "q1", nil},
		{"second key", `{"ticketId":"t1"}`, "t1", nil},
		{"blank string", `"  "`, "", ErrMissingID},
		{"missing key", `{"other":"x"}`, "", ErrMissingID},
		{"empty", ``, "", ErrEmptyPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeID(json.RawMessage(tt.raw), "quizId", "ticketId")
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInto_Null(t *testing.T) {
	var v struct{}
	assert.ErrorIs(t, decodeInto(json.RawMessage("null"), &v), ErrEmptyPayload)
}
