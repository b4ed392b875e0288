package schedule

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

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestFetchShifts(t *testing.T) {
	t.Run("posts window and decodes shifts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer shift-token", r.Header.Get("Authorization"))

			var got map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "2025-01-01", got["inicio"])
			assert.Equal(t, "2025-01-31", got["fim"])

			w.Write([]byte(`{"plantoes":[
				{"profissionalPlantaoNome":"A","profissionalPlantaoCpf":"12345678901","hospitalNome":"SAMU"}
			]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "shift-token", 5*time.Second)
		shifts, err := client.FetchShifts(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-31"))
		require.NoError(t, err)
		require.Len(t, shifts, 1)
		assert.Equal(t, "A", shifts[0].ProfessionalName)
		assert.Equal(t, "12345678901", shifts[0].ProfessionalCPF)
		assert.Equal(t, "SAMU", shifts[0].Hospital)
	})

	t.Run("non-2xx is fatal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(server.URL, "shift-token", 5*time.Second)
		_, err := client.FetchShifts(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-31"))
		assert.Error(t, err)
	})

	t.Run("malformed body is fatal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"plantoes":`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "shift-token", 5*time.Second)
		_, err := client.FetchShifts(context.Background(), date(t, "2025-01-01"), date(t, "2025-01-31"))
		assert.Error(t, err)
	})
}
