package appointments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/slotdesk/slotdesk/internal/observability/metrics"
	"github.com/slotdesk/slotdesk/pkg/logging"
)

var bookingTracer = otel.Tracer("slotdesk.internal.appointments")

// Store is the persistence contract the service depends on. *Repository is
// the Postgres implementation; tests substitute fakes.
type Store interface {
	Insert(ctx context.Context, a *Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, status Status) ([]Appointment, error)
	ListActiveOnDate(ctx context.Context, date time.Time) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)
}

// ServiceOptions tune service behavior beyond the schedule rules.
type ServiceOptions struct {
	// AllowStatusOverride permits approve/reject on appointments that
	// already left pending (last write wins). When false the first
	// decision is terminal.
	AllowStatusOverride bool
}

// Service orchestrates slot validation and store mutation.
type Service struct {
	store    Store
	schedule Schedule
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics
	opts     ServiceOptions

	mu        sync.Mutex
	dateLocks map[string]*sync.Mutex
}

// NewService constructs a booking service.
func NewService(store Store, schedule Schedule, logger *logging.Logger, m *metrics.BookingMetrics, opts ServiceOptions) *Service {
	if store == nil {
		panic("appointments: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:     store,
		schedule:  schedule,
		logger:    logger,
		metrics:   m,
		opts:      opts,
		dateLocks: make(map[string]*sync.Mutex),
	}
}

// Schedule exposes the active booking rules (used for rendering messages).
func (s *Service) Schedule() Schedule {
	return s.schedule
}

// Create validates the candidate slot and persists a pending appointment.
// Validation failures come back as *ValidationError; the unique index on
// (date, hour) backstops the check under concurrent creates.
func (s *Service) Create(ctx context.Context, name, email string, date time.Time, hour, minute int) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.create", trace.WithAttributes(
		attribute.String("slotdesk.date", date.Format(DateFormat)),
		attribute.Int("slotdesk.hour", hour),
	))
	defer span.End()

	date = DateOnly(date)

	// Serialize the check-then-insert sequence per date so two requests
	// for the same slot cannot both pass the pre-check.
	lock := s.lockForDate(date)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.ListActiveOnDate(ctx, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if verr := s.schedule.Validate(Candidate{Date: date, Hour: hour, Minute: minute}, existing); verr != nil {
		s.metrics.ObserveCreate(string(verr.Reason))
		s.logger.Info("appointment rejected",
			"name", name, "date", date.Format(DateFormat), "hour", hour, "reason", verr.Reason)
		return nil, verr
	}

	now := time.Now
	if s.schedule.Now != nil {
		now = s.schedule.Now
	}
	a := &Appointment{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Date:      date,
		Hour:      hour,
		Status:    StatusPending,
		CreatedAt: now().UTC(),
	}
	if err := s.store.Insert(ctx, a); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.ObserveCreate(string(ReasonSlotTaken))
			return nil, &ValidationError{Reason: ReasonSlotTaken}
		}
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveCreate("created")
	s.logger.Info("appointment created",
		"appointment_id", a.ID, "name", name, "date", date.Format(DateFormat), "hour", hour)
	return a, nil
}

// Get loads one appointment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.store.Get(ctx, id)
}

// List returns appointments in insertion order, optionally filtered.
func (s *Service) List(ctx context.Context, status Status) ([]Appointment, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("appointments: unknown status %q", status)
	}
	return s.store.List(ctx, status)
}

// Approve marks the appointment approved. No slot re-validation happens.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.decide(ctx, id, StatusApproved, "approve")
}

// Reject marks the appointment rejected, freeing its slot for new bookings.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.decide(ctx, id, StatusRejected, "reject")
}

func (s *Service) decide(ctx context.Context, id uuid.UUID, status Status, action string) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments."+action, trace.WithAttributes(
		attribute.String("slotdesk.appointment_id", id.String()),
	))
	defer span.End()

	if !s.opts.AllowStatusOverride {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			s.metrics.ObserveDecision(action, "not_found")
			return nil, err
		}
		if current.Status != StatusPending {
			s.metrics.ObserveDecision(action, "final")
			return nil, ErrStatusFinal
		}
	}

	a, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			s.metrics.ObserveDecision(action, "not_found")
		case errors.Is(err, ErrSlotTaken):
			// The slot was rebooked while this appointment sat rejected.
			s.metrics.ObserveDecision(action, "slot_taken")
		default:
			span.RecordError(err)
		}
		return nil, err
	}

	s.metrics.ObserveDecision(action, "ok")
	s.logger.Info("appointment status updated", "appointment_id", id, "status", status)
	return a, nil
}

func (s *Service) lockForDate(date time.Time) *sync.Mutex {
	now := time.Now
	if s.schedule.Now != nil {
		now = s.schedule.Now
	}
	today := DateOnly(now()).Format(DateFormat)
	key := date.Format(DateFormat)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The format sorts lexicographically; drop locks for days that fell out
	// of the booking window so the map stays bounded.
	for k := range s.dateLocks {
		if k < today {
			delete(s.dateLocks, k)
		}
	}

	lock, ok := s.dateLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.dateLocks[key] = lock
	}
	return lock
}
