package pincode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePincodeStore struct {
	entries map[string]models.PincodeEntry
	upserts int
}

func newFakePincodeStore() *fakePincodeStore {
	return &fakePincodeStore{entries: make(map[string]models.PincodeEntry)}
}

func (f *fakePincodeStore) GetPincodeEntry(_ context.Context, pincode string) (*models.PincodeEntry, error) {
	entry, ok := f.entries[pincode]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (f *fakePincodeStore) UpsertPincodeEntry(_ context.Context, entry *models.PincodeEntry) error {
	f.entries[entry.Pincode] = *entry
	f.upserts++
	return nil
}

func newTestAPI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestValidateFetchesAndCaches(t *testing.T) {
	var calls int
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/600001", r.URL.Path)
		w.Write([]byte(`{"country":"India","places":[{"place name":"Chennai","state":"Tamil Nadu"}]}`))
	})

	fs := newFakePincodeStore()
	v := NewValidator(fs, nil, api.URL, time.Hour)

	entry, err := v.Validate(context.Background(), "600001")
	require.NoError(t, err)
	assert.Equal(t, "Chennai", entry.City)
	assert.Equal(t, "Tamil Nadu", entry.State)
	assert.Equal(t, "India", entry.Country)
	assert.Equal(t, 1, fs.upserts)

	// Second lookup is served from the db cache.
	_, err = v.Validate(context.Background(), "600001")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestValidateUnknownPincode(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	v := NewValidator(newFakePincodeStore(), nil, api.URL, time.Hour)

	_, err := v.Validate(context.Background(), "000000")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestValidateEmptyPlaces(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"country":"India","places":[]}`))
	})

	v := NewValidator(newFakePincodeStore(), nil, api.URL, time.Hour)

	_, err := v.Validate(context.Background(), "600002")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestValidateAPIDown(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	v := NewValidator(newFakePincodeStore(), nil, api.URL, time.Hour)

	_, err := v.Validate(context.Background(), "600003")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestValidateEmptyPincode(t *testing.T) {
	v := NewValidator(newFakePincodeStore(), nil, "http://unused", time.Hour)

	_, err := v.Validate(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}
