package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/productdesk/internal/domain"
)

const listBody = `[
  {"id":1,"title":"Backpack","price":109.95,"description":"Fits 15 inch laptops","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"T-Shirt","price":"22.3","description":"Slim fit","category":"men's clothing","image":"https://img/2.jpg"}
]`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", Options{Timeout: 2 * time.Second})
}

func TestClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, listBody)
	})

	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "Backpack", got[0].Title)
	assert.Equal(t, domain.OriginRemote, got[0].Origin)
	assert.InDelta(t, 22.3, got[1].Price, 0.0001, "string prices decode weakly")
}

func TestClient_Update(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/7", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"title":"Renamed"`)
		assert.Contains(t, string(body), `"id":7`)
		_, _ = w.Write(body)
	})

	got, err := c.Update(context.Background(), 7, domain.Product{Title: "Renamed", Price: 3, Category: "x", Image: "i"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, domain.OriginRemote, got.Origin)
}

func TestClient_CreateEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
	})

	got, err := c.Create(context.Background(), domain.Product{Title: "New", Category: "c", Image: "i"})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, domain.OriginRemote, got.Origin)
}

func TestClient_Delete(t *testing.T) {
	var called bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/products/3", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":3}`)
	})

	require.NoError(t, c.Delete(context.Background(), 3))
	assert.True(t, called)
}

func TestClient_Errors(t *testing.T) {
	t.Run("non success status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		err := c.Delete(context.Background(), 99)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.CodeRemote))

		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, http.StatusNotFound, de.Status)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(url, Options{Timeout: time.Second}).List(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.CodeRemote))
	})

	t.Run("unreadable list", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"oops":true}`)
		})
		_, err := c.List(context.Background())
		assert.True(t, domain.IsCode(err, domain.CodeRemote))
	})
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	limited := NewClient(c.baseURL, Options{RatePerSecond: 0.001, Burst: 1})

	_, err := limited.List(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.List(ctx)
	assert.True(t, domain.IsCode(err, domain.CodeRemote))
}
