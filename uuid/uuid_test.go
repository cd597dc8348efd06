package uuid_test

import (
	"encoding/json"
	"testing"

	"github.com/scratchlang/slc/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsNil())
	assert.True(t, uuid.Nil.IsNil())
	assert.Len(t, a.String(), 36)
	assert.Equal(t, a.String()[:8], a.Short())
}

func TestParse(t *testing.T) {
	u := uuid.New()
	got, err := uuid.Parse(u.String())
	require.NoError(t, err)
	assert.Equal(t, u, got)

	got, err = uuid.Parse("urn:uuid:" + u.String())
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = uuid.Parse("not-an-id")
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	v := struct {
		Session uuid.UUID `json:"session"`
	}{Session: uuid.New()}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), v.Session.String())

	var got struct {
		Session uuid.UUID `json:"session"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, v.Session, got.Session)

	assert.Error(t, json.Unmarshal([]byte(`{"session":"zz"}`), &got))
}
