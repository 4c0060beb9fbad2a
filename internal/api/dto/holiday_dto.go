package dto

// HolidayRequest payload for create/update.
type HolidayRequest struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Recurring   bool   `json:"recurring"`
}

// HolidayResponse represents a holiday.
type HolidayResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Recurring   bool   `json:"recurring"`
}

// SyncHolidaysResponse reports an import run.
type SyncHolidaysResponse struct {
	Imported int `json:"imported"`
}
