package timecatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shiftledger/internal/domain"
)

// HTTPHolidaySource fetches a year's Hebrew-calendar holidays from a
// configured external catalog API. Tests never hit the network: they
// substitute the HolidaySource interface with a fixture, per spec §6
// ("Both MUST be mockable... via a single test fixture covering the entire
// test session").
type HTTPHolidaySource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPHolidaySource builds a source pointed at baseURL, e.g.
// "https://www.hebcal.com/hebcal".
func NewHTTPHolidaySource(baseURL string) *HTTPHolidaySource {
	return &HTTPHolidaySource{BaseURL: baseURL, Client: &http.Client{Timeout: 10 * time.Second}}
}

type holidayAPIRow struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Kind  string `json:"category"`
}

func (s *HTTPHolidaySource) FetchHolidays(ctx context.Context, year int) ([]domain.Holiday, error) {
	url := fmt.Sprintf("%s?v=1&cfg=json&year=%d&maj=on&min=on&mod=on&s=on", s.BaseURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timecatalog: holiday source returned status %d", resp.StatusCode)
	}

	var payload struct {
		Items []holidayAPIRow `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	holidays := make([]domain.Holiday, 0, len(payload.Items))
	for _, row := range payload.Items {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		holidays = append(holidays, domain.Holiday{
			Date: date,
			Name: row.Title,
			Kind: classifyAPIKind(row.Kind),
		})
	}
	return holidays, nil
}

func classifyAPIKind(apiKind string) domain.HolidayKind {
	switch apiKind {
	case "major", "modern":
		return domain.HolidaySpecial
	default:
		return domain.HolidayRegular
	}
}
