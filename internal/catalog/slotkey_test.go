package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKeyString(t *testing.T) {
	k := SlotKey{Kind: KindState, Block: 1, Index: 1}
	assert.Equal(t, "stateLesson11", k.String())

	k = SlotKey{Kind: KindNumber, Block: 2, Index: 3}
	assert.Equal(t, "numberLesson23", k.String())
}

func TestParseSlotKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SlotKey
		wantErr bool
	}{
		{in: "stateLesson11", want: SlotKey{Kind: KindState, Block: 1, Index: 1}},
		{in: "numberLesson23", want: SlotKey{Kind: KindNumber, Block: 2, Index: 3}},
		{in: "lesson11", wantErr: true},
		{in: "stateLesson1", wantErr: true},
		{in: "stateLesson01", wantErr: true},
		{in: "stateLesson111", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlotKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestSlotKeyValidate(t *testing.T) {
	assert.NoError(t, SlotKey{Kind: KindState, Block: 9, Index: 9}.Validate())
	assert.Error(t, SlotKey{Kind: "other", Block: 1, Index: 1}.Validate())
	assert.Error(t, SlotKey{Kind: KindState, Block: 0, Index: 1}.Validate())
	assert.Error(t, SlotKey{Kind: KindNumber, Block: 1, Index: 10}.Validate())
}
