package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileUploadedEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewFileUploadedEvent("report.csv", 7)

	assert.Equal(t, EventFileUploaded, event.Event)
	assert.Equal(t, "report.csv", event.FileName)
	assert.Equal(t, 7, event.ServerID)
	assert.False(t, event.Timestamp.Before(before))
}

// Consumers on the other side of the queue match on these field names, so
// they are part of the wire contract.
func TestEventWireFormat(t *testing.T) {
	event := NewFileUploadedEvent("report.csv", 7)

	body, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, "file_uploaded", decoded["event"])
	assert.Equal(t, "report.csv", decoded["file_name"])
	assert.EqualValues(t, 7, decoded["server_id"])
	assert.Contains(t, decoded, "timestamp")
}
