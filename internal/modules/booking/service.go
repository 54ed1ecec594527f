package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/reference"
	"studiobooking/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

const deleteRetentionDays = 90

// Service orchestrates the booking lifecycle: availability checks, creation,
// rescheduling, confirm/cancel and deletion.
//
// The availability check and the subsequent write are two store operations, so
// concurrent callers could both see a free slot. A per-(studio, date) mutex is
// held across that window, making check-then-write single-writer within the
// process; on Postgres the no-overlap exclusion constraint backstops writes
// from other processes, and its violation surfaces as ErrConflict.
type Service struct {
	bookings  BookingRepository
	studios   StudioRepository
	conflicts *ConflictChecker
	refs      *reference.Generator
	notifs    Notifier
	now       func() time.Time

	mu        sync.Mutex
	slotLocks map[string]*slotLock
}

// slotLock is a mutex with a holder count so the map entry can be dropped
// once the last holder releases it.
type slotLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(bookings BookingRepository, studios StudioRepository, refs *reference.Generator, notifs Notifier) *Service {
	return &Service{
		bookings:  bookings,
		studios:   studios,
		conflicts: NewConflictChecker(bookings),
		refs:      refs,
		notifs:    notifs,
		now:       time.Now,
		slotLocks: make(map[string]*slotLock),
	}
}

// lockSlot serializes check-then-write sequences for one studio-day. The map
// entry is removed when the last holder releases it, so the map only holds
// studio-days with in-flight writes.
func (s *Service) lockSlot(studioID int64, date time.Time) func() {
	key := fmt.Sprintf("%d@%s", studioID, date.Format("2006-01-02"))

	s.mu.Lock()
	l, ok := s.slotLocks[key]
	if !ok {
		l = &slotLock{}
		s.slotLocks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.slotLocks, key)
		}
		s.mu.Unlock()
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return domain.TruncateToDate(d), nil
}

func parseRange(start, end string) (domain.TimeRange, error) {
	from, err := domain.ParseTimeOfDay(start)
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	to, err := domain.ParseTimeOfDay(end)
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return domain.TimeRange{Start: from, End: to}, nil
}

// CheckAvailability reports whether the slot can be booked. All rejections
// are structured results, not errors: a taken or invalid slot is an expected
// answer for the caller.
func (s *Service) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResult, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	rng, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	return s.checkAvailability(ctx, req.StudioID, date, rng)
}

func (s *Service) checkAvailability(ctx context.Context, studioID int64, date time.Time, rng domain.TimeRange) (*AvailabilityResult, error) {
	studio, err := s.studios.GetByID(ctx, studioID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &AvailabilityResult{Message: "Studio not found"}, nil
		}
		return nil, err
	}
	if !studio.IsActive {
		return &AvailabilityResult{Message: "Studio is not active"}, nil
	}

	if rng.Start >= rng.End {
		return &AvailabilityResult{Message: "End time must be after start time"}, nil
	}

	// Same-day bookings are allowed regardless of the current time of day.
	today := domain.TruncateToDate(s.now().UTC())
	if date.Before(today) {
		return &AvailabilityResult{Message: "Cannot book for past dates"}, nil
	}

	conflicts, err := s.conflicts.FindConflicts(ctx, studioID, date, rng)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		out := make([]ConflictingBooking, 0, len(conflicts))
		for _, b := range conflicts {
			out = append(out, toConflictingBooking(b))
		}
		return &AvailabilityResult{Message: "Time slot is already booked", Conflicts: out}, nil
	}

	return &AvailabilityResult{Available: true, Message: "Time slot is available"}, nil
}

// CreateBooking books the slot, returning the booking as persisted (with its
// server-assigned id and reference).
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	rng, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	unlock := s.lockSlot(req.StudioID, date)
	defer unlock()

	avail, err := s.checkAvailability(ctx, req.StudioID, date, rng)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, fmt.Errorf("%w: %s", ErrConflict, avail.Message)
	}

	// Authoritative lookup; the availability check already passed, so a miss
	// here is a hard not-found.
	studio, err := s.studios.GetByID(ctx, req.StudioID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStudioNotFound
		}
		return nil, err
	}

	hours, err := rng.DurationHours()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b, err := domain.NewBooking(domain.NewBookingParams{
		StudioID:   req.StudioID,
		UserName:   req.UserName,
		Email:      req.Email,
		Phone:      req.Phone,
		Date:       date,
		Range:      rng,
		TotalPrice: studio.PricePerHour * float64(hours),
		Notes:      req.Notes,
		Reference:  s.refs.New(now),
		Now:        now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, b); err != nil {
		if isOverlapViolation(err) {
			return nil, fmt.Errorf("%w: slot was taken concurrently", ErrConflict)
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCreated(ctx, b)
	}

	return s.bookings.GetByID(ctx, b.ID)
}

// UpdateBooking reschedules a pending booking, re-checking conflicts while
// excluding the booking itself.
func (s *Service) UpdateBooking(ctx context.Context, id int64, req UpdateBookingRequest) (*domain.Booking, error) {
	b, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, domain.ErrInvalidState
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	rng, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	unlock := s.lockSlot(b.StudioID, date)
	defer unlock()

	taken, err := s.conflicts.HasConflicts(ctx, b.StudioID, date, rng, &id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: updated time slot conflicts with an existing booking", ErrConflict)
	}

	studio, err := s.studios.GetByID(ctx, b.StudioID)
	if err != nil {
		return nil, err
	}

	hours, err := rng.DurationHours()
	if err != nil {
		return nil, err
	}

	if err := b.UpdateDetails(date, rng, studio.PricePerHour*float64(hours), req.Notes, s.now().UTC()); err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, b); err != nil {
		if isOverlapViolation(err) {
			return nil, fmt.Errorf("%w: slot was taken concurrently", ErrConflict)
		}
		return nil, err
	}
	return b, nil
}

// ConfirmBooking moves a pending booking to confirmed. A conflicting slot
// yields Confirmed=false with no error; the caller decides what to do next.
func (s *Service) ConfirmBooking(ctx context.Context, id int64) (*Confirmation, error) {
	b, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.lockSlot(b.StudioID, b.Date)
	defer unlock()

	taken, err := s.conflicts.HasConflicts(ctx, b.StudioID, b.Date, b.Range, &id)
	if err != nil {
		return nil, err
	}
	if taken {
		return &Confirmation{
			BookingID: id,
			Reference: b.Reference,
			Message:   "Cannot confirm booking due to conflicting reservations",
		}, nil
	}

	if err := b.Confirm(s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingConfirmed(ctx, b)
	}

	return &Confirmation{
		BookingID:   id,
		Reference:   b.Reference,
		Confirmed:   true,
		Message:     "Booking confirmed successfully",
		ConfirmedAt: b.ConfirmedAt,
	}, nil
}

// CancelBooking cancels inside the allowed window (at least 24h before the
// slot starts); outside it the cancellation is an invalid-state error.
func (s *Service) CancelBooking(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	b, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if !b.CanBeCancelled(now) {
		return nil, domain.ErrInvalidState
	}

	if err := b.Cancel(reason, now); err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCancelled(ctx, b, reason)
	}
	return b, nil
}

// CompleteBooking marks a confirmed booking as completed after the session
// took place.
func (s *Service) CompleteBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := b.Complete(s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBooking removes a booking from the store. Only cancelled bookings, or
// completed ones older than 90 days, may go; a missing id is reported as
// (false, nil) rather than an error.
func (s *Service) DeleteBooking(ctx context.Context, id int64) (bool, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	cutoff := s.now().UTC().AddDate(0, 0, -deleteRetentionDays)
	deletable := b.Status == domain.BookingCancelled ||
		(b.Status == domain.BookingCompleted && b.Date.Before(cutoff))
	if !deletable {
		return false, domain.ErrInvalidState
	}

	if err := s.bookings.Delete(ctx, b); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) GetAllBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.GetAll(ctx)
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.getExisting(ctx, id)
}

func (s *Service) GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	b, err := s.bookings.GetByReference(ctx, ref)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBookingsByUser(ctx context.Context, email string) ([]domain.Booking, error) {
	return s.bookings.GetByUserEmail(ctx, email)
}

func (s *Service) GetBookingsByStudio(ctx context.Context, studioID int64) ([]domain.Booking, error) {
	return s.bookings.GetByStudioID(ctx, studioID)
}

func (s *Service) getExisting(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// isOverlapViolation detects the Postgres exclusion constraint rejecting a
// write whose range overlaps an active booking.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.ConstraintName == repository.NoOverlapConstraint
}
