//go:build unit

package commands_test

import (
	"context"
	"errors"
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/domain/queue"
	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/domain/service"
	"waitdesk/internal/infra"
	"waitdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeReads backs both the rule engines and the by-id lookups with plain
// in-memory state.
type fakeReads struct {
	services     map[uuid.UUID]*service.Service
	appointments map[uuid.UUID]*appointment.Appointment
	queueEntries map[uuid.UUID]*queue.Entry

	occupying      int
	openByCust     int
	overlapping    bool
	holding        int
	customerActive bool
}

func newFakeReads() *fakeReads {
	return &fakeReads{
		services:     map[uuid.UUID]*service.Service{},
		appointments: map[uuid.UUID]*appointment.Appointment{},
		queueEntries: map[uuid.UUID]*queue.Entry{},
	}
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, errors.New(msg), infra.KindNotFound)
}

func conflict(msg string) error {
	return infra.WrapRepoErr(msg, errors.New(msg), infra.KindConflict)
}

func (f *fakeReads) ServiceByID(_ context.Context, id uuid.UUID) (*service.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, notFound("service not found")
	}
	return svc, nil
}

func (f *fakeReads) AppointmentByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, notFound("appointment not found")
	}
	return a, nil
}

func (f *fakeReads) QueueEntryByID(_ context.Context, id uuid.UUID) (*queue.Entry, error) {
	e, ok := f.queueEntries[id]
	if !ok {
		return nil, notFound("queue entry not found")
	}
	return e, nil
}

func (f *fakeReads) CountOccupying(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return f.occupying, nil
}

func (f *fakeReads) CountOpenByCustomer(_ context.Context, _ string, _ time.Time) (int, error) {
	return f.openByCust, nil
}

func (f *fakeReads) ExistsOverlapping(_ context.Context, _ uuid.UUID, _ time.Time, _ schedule.Slot) (bool, error) {
	return f.overlapping, nil
}

func (f *fakeReads) CountHoldingPosition(_ context.Context, _ uuid.UUID) (int, error) {
	return f.holding, nil
}

func (f *fakeReads) IsCustomerActive(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return f.customerActive, nil
}

type fakeAppointmentRepo struct {
	inserted      []*appointment.Appointment
	insertErrs    []error
	statusUpdates []appointment.Status
}

func (r *fakeAppointmentRepo) Insert(_ context.Context, a *appointment.Appointment) error {
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	r.inserted = append(r.inserted, a)
	return nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status appointment.Status, _ time.Time) error {
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

type fakeQueueRepo struct {
	inserted      []*queue.Entry
	insertErrs    []error
	maxPosition   int32
	next          *queue.Entry
	statusUpdates []queue.Status
}

func (r *fakeQueueRepo) Insert(_ context.Context, e *queue.Entry) error {
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func (r *fakeQueueRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status queue.Status, _, _ *time.Time) error {
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

func (r *fakeQueueRepo) MaxHeldPosition(_ context.Context, _ uuid.UUID) (int32, error) {
	return r.maxPosition, nil
}

func (r *fakeQueueRepo) NextWaiting(_ context.Context, _ uuid.UUID) (*queue.Entry, error) {
	return r.next, nil
}

type fakeSlotLockRepo struct {
	overlapping bool
	inserted    []appointment.SlotLock
	sweeps      int
	released    []uuid.UUID
}

func (r *fakeSlotLockRepo) ExistsOverlapping(_ context.Context, _ uuid.UUID, _ time.Time, _ schedule.Slot, _ time.Time) (bool, error) {
	return r.overlapping, nil
}

func (r *fakeSlotLockRepo) Insert(_ context.Context, lock appointment.SlotLock) error {
	r.inserted = append(r.inserted, lock)
	return nil
}

func (r *fakeSlotLockRepo) DeleteByAppointment(_ context.Context, appointmentID uuid.UUID) error {
	r.released = append(r.released, appointmentID)
	return nil
}

func (r *fakeSlotLockRepo) DeleteExpired(_ context.Context, _ uuid.UUID, _ time.Time, _ time.Time) error {
	r.sweeps++
	return nil
}

// fakeUoW runs the transactional closure directly; there is no real
// transaction underneath, writes land in the fakes immediately.
type fakeUoW struct {
	reads *fakeReads
	appts *fakeAppointmentRepo
	queue *fakeQueueRepo
	locks *fakeSlotLockRepo
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		reads: newFakeReads(),
		appts: &fakeAppointmentRepo{},
		queue: &fakeQueueRepo{},
		locks: &fakeSlotLockRepo{},
	}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u)
}

func (u *fakeUoW) Reads() shared.CommandReads { return u.reads }

func (u *fakeUoW) Appointments() shared.AppointmentRepository { return u.appts }
func (u *fakeUoW) QueueEntries() shared.QueueRepository       { return u.queue }
func (u *fakeUoW) SlotLocks() shared.SlotLockRepository       { return u.locks }

type spyInvalidator struct {
	calls int
}

func (s *spyInvalidator) InvalidateAvailability(_ context.Context, _ uuid.UUID, _ time.Time) {
	s.calls++
}
