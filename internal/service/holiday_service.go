package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/config"
	"github.com/spec-kit/ticket-scheduler/internal/domain"
	"github.com/spec-kit/ticket-scheduler/internal/events"
	"github.com/spec-kit/ticket-scheduler/internal/repository"
	apperrors "github.com/spec-kit/ticket-scheduler/pkg/util"
)

const nagerBaseURL = "https://date.nager.at/api/v3/PublicHolidays"

// HolidayService manages the holiday table and the public-holiday import.
type HolidayService struct {
	holidays   repository.HolidayRepository
	dispatcher events.Dispatcher
	cfg        config.HolidayConfig
	client     *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewHolidayService constructs the service.
func NewHolidayService(holidays repository.HolidayRepository, dispatcher events.Dispatcher, cfg config.HolidayConfig, logger *zap.Logger) *HolidayService {
	return &HolidayService{
		holidays:   holidays,
		dispatcher: dispatcher,
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.HTTPTimeout()},
		baseURL:    nagerBaseURL,
		logger:     logger,
	}
}

// HolidayInput describes a holiday create/update payload.
type HolidayInput struct {
	Date        time.Time
	Name        string
	Description string
	Recurring   bool
}

// CreateHoliday stores a holiday.
func (s *HolidayService) CreateHoliday(ctx context.Context, input HolidayInput) (*domain.Holiday, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewValidationError("date is required", nil)
	}
	holiday := &domain.Holiday{
		Date:        domain.DateOnly(input.Date),
		Name:        input.Name,
		Description: input.Description,
		Recurring:   input.Recurring,
	}
	if err := s.holidays.Create(ctx, holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

// UpdateHoliday replaces a holiday's fields.
func (s *HolidayService) UpdateHoliday(ctx context.Context, id string, input HolidayInput) (*domain.Holiday, error) {
	holiday, err := s.holidays.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	holiday.Date = domain.DateOnly(input.Date)
	holiday.Name = input.Name
	holiday.Description = input.Description
	holiday.Recurring = input.Recurring
	if err := s.holidays.Update(ctx, holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

// DeleteHoliday removes a holiday.
func (s *HolidayService) DeleteHoliday(ctx context.Context, id string) error {
	return s.holidays.Delete(ctx, id)
}

// ListHolidays returns all holidays ordered by date.
func (s *HolidayService) ListHolidays(ctx context.Context) ([]domain.Holiday, error) {
	return s.holidays.ListAll(ctx)
}

type nagerHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
	Global    bool   `json:"global"`
}

// SyncPublicHolidays imports the configured country's public holidays for the
// current year and the following SyncYears-1 years. Existing dates are left
// untouched.
func (s *HolidayService) SyncPublicHolidays(ctx context.Context) (int, error) {
	years := s.cfg.SyncYears
	if years <= 0 {
		years = 1
	}
	currentYear := time.Now().Year()

	imported := 0
	for offset := 0; offset < years; offset++ {
		year := currentYear + offset
		entries, err := s.fetchYear(ctx, year)
		if err != nil {
			return imported, err
		}
		for _, entry := range entries {
			date, err := time.Parse("2006-01-02", entry.Date)
			if err != nil {
				s.logger.Warn("skipping malformed holiday date",
					zap.String("date", entry.Date), zap.Error(err))
				continue
			}
			// Public holidays repeat every year; imported dates are stored as
			// recurring so future years match without another sync.
			holiday := &domain.Holiday{
				Date:        date,
				Name:        entry.LocalName,
				Description: entry.Name,
				Recurring:   true,
			}
			if err := s.holidays.Upsert(ctx, holiday); err != nil {
				return imported, err
			}
			imported++
		}
	}

	s.logger.Info("public holidays synced",
		zap.String("country", s.cfg.CountryCode), zap.Int("imported", imported))
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventHolidaysSynced,
			Timestamp: time.Now(),
			Payload: events.HolidaysSyncedPayload{
				CountryCode: s.cfg.CountryCode,
				Imported:    imported,
			},
		})
	}
	return imported, nil
}

func (s *HolidayService) fetchYear(ctx context.Context, year int) ([]nagerHoliday, error) {
	url := fmt.Sprintf("%s/%d/%s", s.baseURL, year, s.cfg.CountryCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned %d for %d/%s", resp.StatusCode, year, s.cfg.CountryCode)
	}

	var entries []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
