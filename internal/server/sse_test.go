package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSSEWriter_RequiresFlusher(t *testing.T) {
	w := struct{ http.ResponseWriter }{httptest.NewRecorder()}

	_, err := NewSSEWriter(w)
	assert.Error(t, err)
}

func TestSSEWriter_EventsHaveIncreasingIDs(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent(EventSection, map[string]string{"section": "summary"}))
	sse.WriteComplete(map[string]string{"id": "d-1"})

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "id: 1\nevent: section\ndata: {\"section\":\"summary\"}\n\n"+
		"id: 2\nevent: complete\ndata: {\"id\":\"d-1\"}\n\n", rec.Body.String())
}

func TestSSEWriter_KeepAlive(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	stop := sse.KeepAlive(5 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	stop()
	stop()

	body := rec.Body.String()
	assert.Contains(t, body, ": keep-alive\n\n")

	// Nothing is written after stop returns
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, body, rec.Body.String())
}

func TestSSEWriter_Close(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	sse.Close()
	assert.Error(t, sse.WriteEvent(EventSection, "late"))
	assert.NoError(t, sse.comment("ignored"))
	assert.False(t, strings.Contains(rec.Body.String(), "late"))
}
