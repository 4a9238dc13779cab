package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	loggedIn := func(r *http.Request) bool {
		c, err := r.Cookie("session")
		return err == nil && c.Value == "ok"
	}

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid Credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "ok", Path: "/"})
		json.NewEncoder(w).Encode(LoginResult{
			Message: "Login successful",
			User:    User{ID: 3, Username: body.Username, Role: "Admin"},
		})
	})

	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if !loggedIn(r) {
			json.NewEncoder(w).Encode(Session{LoggedIn: false})
			return
		}
		json.NewEncoder(w).Encode(Session{
			LoggedIn: true,
			Role:     "Admin",
			User:     &User{ID: 3, Username: "dana", Role: "Admin"},
		})
	})

	mux.HandleFunc("GET /check_session", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"valid": loggedIn(r)})
	})

	mux.HandleFunc("GET /items", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Category{{
			ID:   1,
			Name: "Coffee",
			Items: []MenuItem{
				{ID: 10, Name: "Iced Latte", Price: 50},
				{ID: 11, Name: "Americano", Price: 85},
			},
		}})
	})

	mux.HandleFunc("POST /pending-orders/5/confirm", func(w http.ResponseWriter, r *http.Request) {
		if !loggedIn(r) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not logged in"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "confirmed"})
	})

	mux.HandleFunc("GET /daily-sales", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Server error"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(server.URL, 2*time.Second)
	require.NoError(t, err)
	return client
}

func TestLoginEstablishesSession(t *testing.T) {
	client := newTestClient(t, newBackend(t))
	ctx := context.Background()

	result, err := client.Login(ctx, "dana", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", result.Message)
	assert.Equal(t, "Admin", result.User.Role)

	// The cookie jar carries credentials on every following request.
	s, err := client.CurrentSession(ctx)
	require.NoError(t, err)
	assert.True(t, s.LoggedIn)
	assert.Equal(t, "Admin", s.Role)

	valid, err := client.CheckSession(ctx)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestLoginInvalidCredentials(t *testing.T) {
	client := newTestClient(t, newBackend(t))

	_, err := client.Login(context.Background(), "dana", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUnauthenticatedSession(t *testing.T) {
	client := newTestClient(t, newBackend(t))

	s, err := client.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.False(t, s.LoggedIn)

	valid, err := client.CheckSession(context.Background())
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestItemsDecoding(t *testing.T) {
	client := newTestClient(t, newBackend(t))

	categories, err := client.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Coffee", categories[0].Name)
	require.Len(t, categories[0].Items, 2)
	assert.Equal(t, 85.0, categories[0].Items[1].Price)
}

func TestConfirmRequiresCredentials(t *testing.T) {
	client := newTestClient(t, newBackend(t))
	ctx := context.Background()

	err := client.ConfirmPendingOrder(ctx, 5)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	_, err = client.Login(ctx, "dana", "secret")
	require.NoError(t, err)
	assert.NoError(t, client.ConfirmPendingOrder(ctx, 5))
}

func TestServerErrorsCarryStatusAndMessage(t *testing.T) {
	client := newTestClient(t, newBackend(t))

	_, err := client.DailySales(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Server error", apiErr.Message)
	assert.False(t, IsAuthError(err))
}
