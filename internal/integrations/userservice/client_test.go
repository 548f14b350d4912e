package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestClient_GetRecipient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/users/100":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":100,"name":"Anna","email":"anna@example.com","phone":"+15550001111"}`))
		case "/internal/users/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nopLogger{})

	recipient, err := client.GetRecipient(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", recipient.Email)
	assert.Equal(t, "+15550001111", recipient.Phone)

	_, err = client.GetRecipient(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = client.GetRecipient(context.Background(), 500)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
