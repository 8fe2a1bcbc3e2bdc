// Package assistant bridges the Gemini tool-calling layer and the booking
// service: it declares the create_appointment function, maps tool
// invocations onto the service and renders the outcome back as text.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"

	"github.com/slotdesk/slotdesk/internal/appointments"
	"github.com/slotdesk/slotdesk/pkg/logging"
)

// CreateAppointmentTool is the function name declared to the model.
const CreateAppointmentTool = "create_appointment"

// Booker is the single operation the tool-call adapter depends on. Both the
// in-process booking service and the HTTP client implement it.
type Booker interface {
	Create(ctx context.Context, name, email string, date time.Time, hour, minute int) (*appointments.Appointment, error)
}

// BookingTool adapts create_appointment tool calls onto a Booker. Date and
// time arguments arrive already resolved to concrete calendar values; the
// model does the natural-language interpretation.
type BookingTool struct {
	booker   Booker
	schedule appointments.Schedule
	logger   *logging.Logger
}

func NewBookingTool(booker Booker, schedule appointments.Schedule, logger *logging.Logger) *BookingTool {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingTool{booker: booker, schedule: schedule, logger: logger}
}

// Declaration describes create_appointment to the model.
func (t *BookingTool) Declaration() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        CreateAppointmentTool,
			Description: "Create an appointment request for the customer. Resolve relative dates (today, tomorrow) to a concrete calendar date before calling.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: "Name of the customer.",
					},
					"email": {
						Type:        genai.TypeString,
						Description: "Email of the customer, if provided.",
					},
					"date": {
						Type:        genai.TypeString,
						Description: "Appointment date in YYYY-MM-DD format.",
					},
					"time": {
						Type:        genai.TypeString,
						Description: "Appointment time in 24h HH:MM format, e.g. 10:00.",
					},
				},
				Required: []string{"name", "date", "time"},
			},
		}},
	}
}

// Invoke runs one tool call and returns the text fed back to the model.
// A single call produces a single response; there are no retries here.
func (t *BookingTool) Invoke(ctx context.Context, args map[string]any) string {
	name := stringArg(args, "name")
	if name == "" {
		return "I need the customer's name to book an appointment."
	}
	email := stringArg(args, "email")

	date, err := time.ParseInLocation(appointments.DateFormat, stringArg(args, "date"), time.UTC)
	if err != nil {
		return "I couldn't understand the appointment date. Please provide it as YYYY-MM-DD."
	}
	hour, minute, err := appointments.ParseClock(stringArg(args, "time"))
	if err != nil {
		return "I couldn't understand the appointment time. Please provide it as HH:MM."
	}

	a, err := t.booker.Create(ctx, name, email, date, hour, minute)
	if err != nil {
		if ve, ok := appointments.AsValidationError(err); ok {
			t.logger.Info("tool call rejected", "reason", ve.Reason)
			return ve.Message(t.schedule)
		}
		t.logger.Error("tool call failed", "error", err)
		return "The booking service is currently unavailable. Please try again later."
	}

	return fmt.Sprintf("Appointment booked for %s on %s at %02d:00. Status: %s. Reference: %s.",
		a.Name, a.Date.Format(appointments.DateFormat), a.Hour, a.Status, a.ID)
}

func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
