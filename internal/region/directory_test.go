// internal/region/directory_test.go
package region

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

func TestDirectoryDistricts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/districts/3205.json", r.URL.Path)
		json.NewEncoder(w).Encode([]Place{
			{ID: "3205010", Name: "CISEWU", RegencyID: "3205"},
			{ID: "3205020", Name: "SINGAJAYA", RegencyID: "3205"},
		})
	}))
	defer server.Close()

	directory := NewDirectory(nil, NewClient(server.URL, time.Second), NewMemoryCache())

	entries, err := directory.Districts(context.Background(), "32.05")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, CodeName{Kode: "32.05.010", Nama: "Cisewu"}, entries[0])
	assert.Equal(t, CodeName{Kode: "32.05.020", Nama: "Singajaya"}, entries[1])
}

func TestDirectoryVillages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/villages/3205010.json", r.URL.Path)
		json.NewEncoder(w).Encode([]Place{
			{ID: "3205010001", Name: "SUKAMAJU", DistrictID: "3205010"},
			{ID: "3205010002", Name: "MEKARSARI", DistrictID: "3205010"},
		})
	}))
	defer server.Close()

	directory := NewDirectory(nil, NewClient(server.URL, time.Second), NewMemoryCache())

	entries, err := directory.Villages(context.Background(), "32.05.010")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Village codes carry all four levels: province, regency, district,
	// village.
	assert.Equal(t, CodeName{Kode: "32.05.010.001", Nama: "Sukamaju"}, entries[0])
	assert.Equal(t, CodeName{Kode: "32.05.010.002", Nama: "Mekarsari"}, entries[1])
}

func TestDirectoryVillagesUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	directory := NewDirectory(nil, NewClient(server.URL, time.Second), NewMemoryCache())

	_, err := directory.Villages(context.Background(), "3205010")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestDirectoryListingsAreCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		json.NewEncoder(w).Encode([]Place{{ID: "3205010", Name: "CISEWU"}})
	}))
	defer server.Close()

	directory := NewDirectory(nil, NewClient(server.URL, time.Second), NewMemoryCache())

	_, err := directory.Districts(context.Background(), "3205")
	require.NoError(t, err)
	_, err = directory.Districts(context.Background(), "3205")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}
