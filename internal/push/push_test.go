package push

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, highPriority, priorityFor(map[string]string{"priority": "8"}))
	assert.Equal(t, highPriority, priorityFor(map[string]string{"priority": "5"}))
	assert.Equal(t, normalPriority, priorityFor(map[string]string{"priority": "4.5"}))
	assert.Equal(t, normalPriority, priorityFor(map[string]string{}))
	assert.Equal(t, normalPriority, priorityFor(map[string]string{"priority": "junk"}))
}

func TestPostSendsBatchAndAuth(t *testing.T) {
	var got []message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ticketResponse{Data: []ticket{{Status: "ok", ID: "t1"}}})
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, "secret", 10, nil, testLogger())
	err := g.post(context.Background(), []message{
		{To: "tok1", Title: "Hi", Body: "There"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	require.Len(t, got, 1)
	assert.Equal(t, "tok1", got[0].To)
}

func TestPostSurfacesTicketError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ticketResponse{Data: []ticket{
			{Status: "error", Message: "DeviceNotRegistered"},
		}})
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, "", 10, nil, testLogger())
	err := g.post(context.Background(), []message{{To: "tok1"}})
	assert.ErrorContains(t, err, "DeviceNotRegistered")
}

func TestPostSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, "", 10, nil, testLogger())
	err := g.post(context.Background(), []message{{To: "tok1"}})
	assert.ErrorContains(t, err, "502")
}
