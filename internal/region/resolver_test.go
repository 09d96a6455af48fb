// internal/region/resolver_test.go
package region

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type stubLookup struct {
	places map[string]string
}

func (s *stubLookup) Find(_ context.Context, digits string) (*Place, bool) {
	name, ok := s.places[digits]
	if !ok {
		return nil, false
	}
	return &Place{ID: digits, Name: name}, true
}

type ResolverTestSuite struct {
	suite.Suite
	server   *httptest.Server
	requests atomic.Int64
	fail     atomic.Bool
}

func (suite *ResolverTestSuite) SetupSuite() {
	fixtures := map[string]Place{
		"/village/3205012006.json": {ID: "3205012006", Name: "Sukamaju", DistrictID: "3205012"},
		"/district/3205012.json":   {ID: "3205012", Name: "Cibinong", RegencyID: "3205"},
		"/regency/3205.json":       {ID: "3205", Name: "Kabupaten Garut", ProvinceID: "32"},
		"/province/32.json":        {ID: "32", Name: "Jawa Barat"},
	}

	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.requests.Add(1)
		if suite.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		place, ok := fixtures[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(place)
	}))
}

func (suite *ResolverTestSuite) TearDownSuite() {
	suite.server.Close()
}

func (suite *ResolverTestSuite) newResolver() *Resolver {
	client := NewClient(suite.server.URL, 2*time.Second)
	local := &stubLookup{places: map[string]string{
		"3205": "Garut",
		"32":   "Jawa Barat",
	}}
	return NewResolver(client, NewMemoryCache(), local, logrus.New())
}

func (suite *ResolverTestSuite) TestResolveFullHierarchy() {
	resolver := suite.newResolver()

	detail := resolver.Resolve(context.Background(), "3205012006")

	assert.Equal(suite.T(), "3205012006", detail.VillageID)
	require.NotNil(suite.T(), detail.VillageName)
	assert.Equal(suite.T(), "Sukamaju", *detail.VillageName)
	assert.Equal(suite.T(), "3205012", detail.DistrictID)
	require.NotNil(suite.T(), detail.DistrictName)
	assert.Equal(suite.T(), "Cibinong", *detail.DistrictName)
	assert.Equal(suite.T(), "3205", detail.RegencyID)
	assert.Equal(suite.T(), "Kabupaten Garut", *detail.RegencyName)
	assert.Equal(suite.T(), "32", detail.ProvinceID)
	assert.Equal(suite.T(), "Jawa Barat", *detail.ProvinceName)
}

func (suite *ResolverTestSuite) TestResolveNormalizesDottedInput() {
	resolver := suite.newResolver()

	detail := resolver.Resolve(context.Background(), "32.05.01.2006")
	assert.Equal(suite.T(), "3205012006", detail.VillageID)
}

func (suite *ResolverTestSuite) TestResolveCachesUpstreamLookups() {
	resolver := suite.newResolver()

	resolver.Resolve(context.Background(), "3205012006")
	before := suite.requests.Load()
	resolver.Resolve(context.Background(), "3205012006")

	assert.Equal(suite.T(), before, suite.requests.Load(), "second resolve must be served from cache")
}

func (suite *ResolverTestSuite) TestResolveFallsBackToLocalTable() {
	resolver := suite.newResolver()

	suite.fail.Store(true)
	defer suite.fail.Store(false)

	detail := resolver.Resolve(context.Background(), "3205019999")

	assert.Equal(suite.T(), "3205019999", detail.VillageID)
	assert.Nil(suite.T(), detail.VillageName)
	assert.Equal(suite.T(), "3205019", detail.DistrictID)
	assert.Nil(suite.T(), detail.DistrictName, "local table cannot name districts")
	assert.Equal(suite.T(), "3205", detail.RegencyID)
	require.NotNil(suite.T(), detail.RegencyName)
	assert.Equal(suite.T(), "Garut", *detail.RegencyName)
	assert.Equal(suite.T(), "32", detail.ProvinceID)
	require.NotNil(suite.T(), detail.ProvinceName)
	assert.Equal(suite.T(), "Jawa Barat", *detail.ProvinceName)
}

func (suite *ResolverTestSuite) TestResolveBlankInput() {
	resolver := suite.newResolver()

	detail := resolver.Resolve(context.Background(), "   ")
	assert.Equal(suite.T(), Detail{}, detail)
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func TestResolveVillageWithoutParentIDs(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		if r.URL.Path == "/village/3205012006.json" {
			json.NewEncoder(w).Encode(Place{ID: "3205012006", Name: "Sukamaju"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := NewResolver(NewClient(server.URL, time.Second), NewMemoryCache(), &stubLookup{}, logrus.New())

	// The village record carries no district_id; parent ids derive from
	// the village prefix instead.
	detail := resolver.Resolve(context.Background(), "3205012006")

	assert.Equal(t, "3205012", detail.DistrictID)
	assert.Equal(t, "3205", detail.RegencyID)
	assert.Equal(t, "32", detail.ProvinceID)

	mu.Lock()
	defer mu.Unlock()
	for _, path := range paths {
		assert.NotContains(t, path, "/.json", "no lookup may run with an empty id")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "k", []byte("v"), 10*time.Millisecond)

	value, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}
