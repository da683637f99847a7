package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Заголовки запросов к сервису данных
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderRequestID = "X-Request-ID"
)

// DateLayout формат даты в query-параметрах
const DateLayout = "2006-01-02"

// Client HTTP-клиент сервиса данных барбершопа
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// CreateAppointmentRequest тело POST /appointments
type CreateAppointmentRequest struct {
	BarberID    int64     `json:"barber_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	StartAt     time.Time `json:"start_at"`
}

// UpdateAppointmentRequest тело PUT /appointments/:id
type UpdateAppointmentRequest struct {
	BarberID int64     `json:"barber_id"`
	StartAt  time.Time `json:"start_at"`
}

// SlotsResponse ответ GET /slots
type SlotsResponse struct {
	Slots []model.TimeOfDay `json:"slots"`
}

// ConfigValueResponse ответ GET /config/:key
type ConfigValueResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

func (c *Client) ListBarbers(ctx context.Context) ([]*model.Barber, error) {
	var barbers []*model.Barber
	if err := c.do(ctx, http.MethodGet, "/barbers", nil, nil, &barbers); err != nil {
		return nil, fmt.Errorf("list barbers: %w", err)
	}
	return barbers, nil
}

func (c *Client) ListClientAppointments(ctx context.Context, phone string) ([]*model.Appointment, error) {
	query := url.Values{"phone": {phone}}

	var appts []*model.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", query, nil, &appts); err != nil {
		return nil, fmt.Errorf("list client appointments: %w", err)
	}
	return appts, nil
}

func (c *Client) ListUpcomingAppointments(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := url.Values{
		"from": {from.Format(time.RFC3339)},
		"to":   {to.Format(time.RFC3339)},
	}

	var appts []*model.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", query, nil, &appts); err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}
	return appts, nil
}

func (c *Client) ListAvailableTimes(ctx context.Context, barberID int64, date time.Time) ([]model.TimeOfDay, error) {
	query := url.Values{
		"barber_id": {strconv.FormatInt(barberID, 10)},
		"date":      {date.Format(DateLayout)},
	}

	var resp SlotsResponse
	if err := c.do(ctx, http.MethodGet, "/slots", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	if resp.Slots == nil {
		resp.Slots = []model.TimeOfDay{}
	}
	return resp.Slots, nil
}

func (c *Client) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	body := CreateAppointmentRequest{
		BarberID:    appt.BarberID,
		ClientName:  appt.ClientName,
		ClientPhone: appt.ClientPhone,
		StartAt:     appt.StartAt,
	}

	var created model.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, body, &created); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	appt.ID = created.ID
	appt.Status = created.Status
	appt.CreatedAt = created.CreatedAt
	appt.UpdatedAt = created.UpdatedAt
	return nil
}

func (c *Client) RescheduleAppointment(ctx context.Context, id, barberID int64, startAt time.Time) error {
	body := UpdateAppointmentRequest{BarberID: barberID, StartAt: startAt}
	path := "/appointments/" + strconv.FormatInt(id, 10)

	if err := c.do(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return fmt.Errorf("reschedule appointment %d: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id int64) error {
	path := "/appointments/" + strconv.FormatInt(id, 10)

	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("cancel appointment %d: %w", id, err)
	}
	return nil
}

func (c *Client) MarkReminderSent(ctx context.Context, id int64) error {
	path := "/appointments/" + strconv.FormatInt(id, 10) + "/reminder"

	if err := c.do(ctx, http.MethodPatch, path, nil, nil, nil); err != nil {
		return fmt.Errorf("mark reminder sent %d: %w", id, err)
	}
	return nil
}

// GetConfigValue ok=false, если настройка не задана
func (c *Client) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	var resp ConfigValueResponse
	err := c.do(ctx, http.MethodGet, "/config/"+url.PathEscape(key), nil, nil, &resp)
	if errors.Is(err, model.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return resp.Value, true, nil
}

// do выполняет запрос. 404 -> model.ErrNotFound, 409 -> model.ErrConflict
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Data service request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return model.ErrConflict
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var apiErr ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, apiErr.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
