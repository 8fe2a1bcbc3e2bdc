package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slotdesk/slotdesk/internal/appointments"
)

// HTTPBooker implements Booker against a running slotdesk API, so the
// assistant CLI can run as a separate process from the backend.
type HTTPBooker struct {
	baseURL string
	client  *http.Client
}

func NewHTTPBooker(baseURL string) *HTTPBooker {
	return &HTTPBooker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type createPayload struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

type createdBody struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Create posts the appointment to the API and translates 422 responses back
// into validation errors so the tool adapter renders the right message.
func (b *HTTPBooker) Create(ctx context.Context, name, email string, date time.Time, hour, minute int) (*appointments.Appointment, error) {
	payload := createPayload{
		Name:  name,
		Email: email,
		Date:  date.Format(appointments.DateFormat),
		Time:  fmt.Sprintf("%02d:%02d", hour, minute),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("assistant: encode create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/appointments", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("assistant: build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant: call booking api: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var body createdBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("assistant: decode create response: %w", err)
		}
		return decodeAppointment(body)
	case http.StatusUnprocessableEntity:
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("assistant: decode validation response: %w", err)
		}
		return nil, &appointments.ValidationError{Reason: appointments.Reason(body.Reason)}
	default:
		return nil, fmt.Errorf("assistant: booking api returned status %d", resp.StatusCode)
	}
}

func decodeAppointment(body createdBody) (*appointments.Appointment, error) {
	date, err := time.ParseInLocation(appointments.DateFormat, body.Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("assistant: bad date in response: %w", err)
	}
	hour, _, err := appointments.ParseClock(body.Time)
	if err != nil {
		return nil, fmt.Errorf("assistant: bad time in response: %w", err)
	}
	return &appointments.Appointment{
		ID:        body.ID,
		Name:      body.Name,
		Email:     body.Email,
		Date:      date,
		Hour:      hour,
		Status:    appointments.Status(body.Status),
		CreatedAt: body.CreatedAt,
	}, nil
}
