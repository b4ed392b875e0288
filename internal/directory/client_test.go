package directory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostersync/internal/roster"
	"rostersync/pkg/platform/sentinel"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", 5*time.Second, testLogger())
}

func TestFindByCPF(t *testing.T) {
	t.Run("returns id on match", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/fb/subscriber/findByCustomField", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "11439006", r.URL.Query().Get("field_id"))
			assert.Equal(t, "123.456.789-01", r.URL.Query().Get("field_value"))
			w.Write([]byte(`{"status":"success","data":[{"id":987654}]}`))
		})

		id, err := client.FindByCPF(context.Background(), "123.456.789-01")
		require.NoError(t, err)
		assert.Equal(t, "987654", id.String())
	})

	t.Run("empty result is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"success","data":[]}`))
		})

		_, err := client.FindByCPF(context.Background(), "123.456.789-01")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("non-success status is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"error","data":[]}`))
		})

		_, err := client.FindByCPF(context.Background(), "123.456.789-01")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("http rejection is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such field value", http.StatusBadRequest)
		})

		_, err := client.FindByCPF(context.Background(), "123.456.789-01")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, "test-token", time.Second, testLogger())

		_, err := client.FindByCPF(context.Background(), "123.456.789-01")
		require.Error(t, err)
		assert.NotErrorIs(t, err, sentinel.ErrNotFound)
		assert.Equal(t, CategoryTransport, GetCategory(err))
	})
}

func TestCreateSubscriber(t *testing.T) {
	contact := roster.Contact{
		Name:    "X",
		Phone:   "91999999999",
		Email:   "x@x.com",
		Company: "Co",
	}

	t.Run("sends full payload and returns raw response", func(t *testing.T) {
		var got map[string]any
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/fb/subscriber/createSubscriber", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"status":"success","data":{"id":111,"first_name":"X"}}`))
		})

		sub, raw, err := client.CreateSubscriber(context.Background(), contact)
		require.NoError(t, err)
		assert.Equal(t, "111", sub.ID.String())
		assert.JSONEq(t, `{"id":111,"first_name":"X"}`, string(raw))

		assert.Equal(t, "X", got["first_name"])
		assert.Equal(t, "91999999999", got["phone"])
		assert.Equal(t, "5591999999999", got["whatsapp_phone"])
		assert.Equal(t, "x@x.com", got["email"])
		assert.Equal(t, true, got["has_opt_in_sms"])
		assert.Equal(t, true, got["has_opt_in_email"])
		assert.Equal(t, "ok", got["consent_phrase"])
	})

	t.Run("rejection propagates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "duplicate", http.StatusConflict)
		})

		_, _, err := client.CreateSubscriber(context.Background(), contact)
		require.Error(t, err)
		assert.Equal(t, CategoryRejection, GetCategory(err))
	})

	t.Run("success=false propagates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"error","data":{}}`))
		})

		_, _, err := client.CreateSubscriber(context.Background(), contact)
		require.Error(t, err)
		assert.Equal(t, CategoryRejection, GetCategory(err))
	})
}

func TestAddTag(t *testing.T) {
	t.Run("sends subscriber and tag", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/fb/subscriber/addTagByName", r.URL.Path)
			var got map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.EqualValues(t, 111, got["subscriber_id"])
			assert.Equal(t, "Onboarding", got["tag_name"])
			w.Write([]byte(`{"status":"success"}`))
		})

		require.NoError(t, client.AddTag(context.Background(), json.Number("111"), "Onboarding"))
	})

	t.Run("rejection surfaces to caller", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unknown tag", http.StatusUnprocessableEntity)
		})

		err := client.AddTag(context.Background(), json.Number("111"), "Onboarding")
		require.Error(t, err)
		assert.Equal(t, CategoryRejection, GetCategory(err))
	})
}

func TestSetCustomFields(t *testing.T) {
	decodeFields := func(t *testing.T, r *http.Request) []map[string]any {
		t.Helper()
		var got struct {
			SubscriberID json.Number      `json:"subscriber_id"`
			Fields       []map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "111", got.SubscriberID.String())
		return got.Fields
	}

	t.Run("without crm sends two fields", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fields := decodeFields(t, r)
			require.Len(t, fields, 2)
			assert.EqualValues(t, 11439006, fields[0]["field_id"])
			assert.Equal(t, "123.456.789-01", fields[0]["field_value"])
			assert.EqualValues(t, 11888545, fields[1]["field_id"])
			assert.Equal(t, "Co", fields[1]["field_value"])
			w.Write([]byte(`{"status":"success"}`))
		})

		require.NoError(t, client.SetCustomFields(context.Background(),
			json.Number("111"), "123.456.789-01", "Co", ""))
	})

	t.Run("with crm sends three fields", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fields := decodeFields(t, r)
			require.Len(t, fields, 3)
			assert.EqualValues(t, 12023729, fields[2]["field_id"])
			assert.Equal(t, "12345-PA", fields[2]["field_value"])
			w.Write([]byte(`{"status":"success"}`))
		})

		require.NoError(t, client.SetCustomFields(context.Background(),
			json.Number("111"), "123.456.789-01", "Co", "12345-PA"))
	})
}

func TestRejectionIsNotRetried(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	err := client.AddTag(context.Background(), json.Number("111"), "Onboarding")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
