package publish

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/womat/bpc/pkg/bpc"
)

func TestNewFramePayloadStatusString(t *testing.T) {
	cases := []struct {
		status bpc.Status
		want   string
	}{
		{bpc.StatusOK, "ok"},
		{bpc.StatusParityErr, "parity_err"},
		{bpc.StatusFrameInvalid, "frame_invalid"},
	}

	for _, c := range cases {
		payload := NewFramePayload(bpc.Frame{Status: c.status})
		assert.Equal(t, c.want, payload.Status)
	}
}

func TestFramePayloadMarshalsCalendarFields(t *testing.T) {
	f := bpc.Frame{Status: bpc.StatusOK, Year: 2025, Month: 12, Day: 30, Weekday: 2, Hour: 14, Minute: 39, Second: 39}
	payload := NewFramePayload(f)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.EqualValues(t, 2025, decoded["year"])
	assert.EqualValues(t, 39, decoded["second"])
	assert.EqualValues(t, "ok", decoded["status"])
}

func TestHandlerWithoutTopicErrors(t *testing.T) {
	h := New("", false)
	_, err := h.Topic()
	assert.Error(t, err)
}

func TestHandlerDisconnectWithoutClientIsNoop(t *testing.T) {
	h := New("bpc/frame", false)
	assert.NoError(t, h.Disconnect())
}
