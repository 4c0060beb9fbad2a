package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/config"
)

func TestSyncPublicHolidaysStoresRecurringDates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"date":"2026-01-01","localName":"Año Nuevo","name":"New Year's Day","global":true},
			{"date":"2026-12-25","localName":"Navidad","name":"Christmas Day","global":true}
		]`))
	}))
	defer server.Close()

	db := newMemDB()
	svc := NewHolidayService(&memHolidayRepo{db: db}, nil, config.HolidayConfig{
		CountryCode:    "ES",
		SyncYears:      1,
		HTTPTimeoutSec: 5,
	}, zap.NewNop())
	svc.baseURL = server.URL

	imported, err := svc.SyncPublicHolidays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	require.Len(t, db.holidays, 2)
	for _, h := range db.holidays {
		assert.True(t, h.Recurring, "imported public holiday %q must recur every year", h.Name)
	}
	assert.Equal(t, "Año Nuevo", db.holidays[0].Name)
	assert.Equal(t, "New Year's Day", db.holidays[0].Description)
}

func TestSyncPublicHolidaysPropagatesAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	db := newMemDB()
	svc := NewHolidayService(&memHolidayRepo{db: db}, nil, config.HolidayConfig{
		CountryCode:    "ES",
		SyncYears:      1,
		HTTPTimeoutSec: 5,
	}, zap.NewNop())
	svc.baseURL = server.URL

	_, err := svc.SyncPublicHolidays(context.Background())
	require.Error(t, err)
	assert.Empty(t, db.holidays)
}
