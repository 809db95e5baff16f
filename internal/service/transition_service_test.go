package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestor-labs/be-case-tracking/internal/apperrors"
	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/repository"
	"github.com/gestor-labs/be-case-tracking/internal/workflow"
)

// fakeStore is an in-memory CaseStore + EventStore + CatalogStore + TxRunner
// with transactional rollback emulation.
type fakeStore struct {
	mu sync.Mutex

	states    []workflow.State
	templates []workflow.CommentTemplate
	cases     map[int64]*repository.Case
	events    map[int64][]*repository.Event

	nextEventID int64
	clock       time.Time

	// conflictOnUpdate makes UpdateStateIf behave as the losing writer of a
	// concurrent race.
	conflictOnUpdate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		states: []workflow.State{
			{ID: 1, Name: "Pendiente", Order: 1, Category: workflow.CategoryHolding},
			{ID: 2, Name: "En Proceso", Order: 2, Category: workflow.CategoryNormal},
			{ID: 3, Name: "Finalizado", Order: 3, Terminal: true, Category: workflow.CategoryTerminal},
			{ID: 4, Name: "Cancelado", Order: 4, Terminal: true, Category: workflow.CategoryCancellation},
		},
		templates: []workflow.CommentTemplate{
			{ID: 1, StateID: 4, Text: "Motivo de cancelación: ", Required: true},
		},
		cases:  make(map[int64]*repository.Case),
		events: make(map[int64][]*repository.Event),
		clock:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) addCase(id, stateID int64) *repository.Case {
	c := &repository.Case{ID: id, Name: "Caso " + strconv.FormatInt(id, 10), CurrentStateID: stateID}
	f.cases[id] = c
	return c
}

func (f *fakeStore) ListStates(ctx context.Context) ([]workflow.State, error) {
	return f.states, nil
}

func (f *fakeStore) ListCommentTemplates(ctx context.Context) ([]workflow.CommentTemplate, error) {
	return f.templates, nil
}

func (f *fakeStore) List(ctx context.Context) ([]*repository.Case, error) {
	out := make([]*repository.Case, 0, len(f.cases))
	for _, c := range f.cases {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*repository.Case, error) {
	c, ok := f.cases[id]
	if !ok {
		return nil, apperrors.NotFound("case", id)
	}
	cp := *c
	cp.Events = f.events[id]
	return &cp, nil
}

func (f *fakeStore) GetByCode(ctx context.Context, code string) (*repository.Case, error) {
	if id, err := strconv.ParseInt(code, 10, 64); err == nil {
		return f.GetByID(ctx, id)
	}
	for _, c := range f.cases {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(code)) {
			return f.GetByID(ctx, c.ID)
		}
	}
	return nil, apperrors.NotFound("case", code)
}

func (f *fakeStore) Create(ctx context.Context, c *repository.Case) error {
	c.ID = int64(len(f.cases) + 1)
	c.CreatedAt = f.clock
	f.cases[c.ID] = c
	return nil
}

func (f *fakeStore) Update(ctx context.Context, c *repository.Case) error {
	if _, ok := f.cases[c.ID]; !ok {
		return apperrors.NotFound("case", c.ID)
	}
	f.cases[c.ID] = c
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.cases[id]; !ok {
		return apperrors.NotFound("case", id)
	}
	delete(f.cases, id)
	delete(f.events, id)
	return nil
}

func (f *fakeStore) UpdateStateIf(ctx context.Context, tx pgx.Tx, caseID, expectedStateID, nextStateID int64) error {
	if f.conflictOnUpdate {
		return apperrors.Newf(apperrors.CodeConflict, "case %d was modified concurrently; reload and retry", caseID)
	}
	c, ok := f.cases[caseID]
	if !ok {
		return apperrors.NotFound("case", caseID)
	}
	if c.CurrentStateID != expectedStateID {
		return apperrors.Newf(apperrors.CodeConflict, "case %d was modified concurrently; reload and retry", caseID)
	}
	c.CurrentStateID = nextStateID
	return nil
}

func (f *fakeStore) append(e *repository.Event) error {
	f.nextEventID++
	e.ID = f.nextEventID

	ts := f.clock
	if history := f.events[e.CaseID]; len(history) > 0 {
		if last := history[len(history)-1].Timestamp; last.After(ts) {
			ts = last
		}
	}
	e.Timestamp = ts
	f.clock = f.clock.Add(time.Second)

	f.events[e.CaseID] = append(f.events[e.CaseID], e)
	return nil
}

func (f *fakeStore) Append(ctx context.Context, e *repository.Event) error {
	return f.append(e)
}

func (f *fakeStore) AppendTx(ctx context.Context, tx pgx.Tx, e *repository.Event) error {
	return f.append(e)
}

func (f *fakeStore) ListForCase(ctx context.Context, caseID int64) ([]*repository.Event, error) {
	return f.events[caseID], nil
}

// InTransaction snapshots state and restores it when fn fails, emulating a
// database rollback.
func (f *fakeStore) InTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	snapEvents := make(map[int64][]*repository.Event, len(f.events))
	for k, v := range f.events {
		snapEvents[k] = append([]*repository.Event(nil), v...)
	}
	snapStates := make(map[int64]int64, len(f.cases))
	for id, c := range f.cases {
		snapStates[id] = c.CurrentStateID
	}
	snapNextID := f.nextEventID

	if err := fn(nil); err != nil {
		f.events = snapEvents
		for id, stateID := range snapStates {
			f.cases[id].CurrentStateID = stateID
		}
		f.nextEventID = snapNextID
		return err
	}
	return nil
}

type recordingNotifier struct {
	published []TransitionNotification
}

func (n *recordingNotifier) PublishTransition(ctx context.Context, tn TransitionNotification) {
	n.published = append(n.published, tn)
}

func newTestService() (*TransitionService, *fakeStore, *recordingNotifier) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	log := logger.New(logger.Config{Level: "disabled"})
	return NewTransitionService(store, store, store, store, notifier, log), store, notifier
}

// replayStateID re-derives the current state from the history, as the
// invariant demands.
func replayStateID(initial int64, events []*repository.Event) int64 {
	current := initial
	for _, e := range events {
		current = e.StateID
	}
	return current
}

func TestCreateEventAppliesTransition(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addCase(100, 1)
	comment := "asignado a mesa de trabajo"
	actor := int64(9)

	event, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID:          100,
		StateID:         2,
		Comment:         &comment,
		ActorID:         &actor,
		ApplyTransition: true,
	})

	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.Equal(t, int64(2), event.StateID)
	assert.Equal(t, "En Proceso", event.StateName)
	assert.Equal(t, &actor, event.ActorID)

	assert.Equal(t, int64(2), store.cases[100].CurrentStateID)
	require.Len(t, store.events[100], 1)

	require.Len(t, notifier.published, 1)
	assert.Equal(t, int64(1), notifier.published[0].FromStateID)
	assert.Equal(t, int64(2), notifier.published[0].ToStateID)
}

func TestCreateEventReplayMatchesCurrentState(t *testing.T) {
	svc, store, _ := newTestService()
	store.addCase(100, 1)
	comment := "motivo: duplicado"

	_, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID: 100, StateID: 2, ApplyTransition: true,
	})
	require.NoError(t, err)

	_, err = svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID: 100, StateID: 4, Comment: &comment, ApplyTransition: true,
	})
	require.NoError(t, err)

	events := store.events[100]
	require.Len(t, events, 2)
	assert.Equal(t, store.cases[100].CurrentStateID, replayStateID(1, events))

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.Before(events[i-1].Timestamp))
	}
}

func TestCreateEventRejectsSkipFromHolding(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addCase(100, 1)

	_, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID: 100, StateID: 3, ApplyTransition: true,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
	assert.Equal(t, int64(1), store.cases[100].CurrentStateID)
	assert.Empty(t, store.events[100])
	assert.Empty(t, notifier.published)
}

func TestCreateEventRejectsFromTerminal(t *testing.T) {
	svc, store, _ := newTestService()
	store.addCase(100, 3)

	_, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID: 100, StateID: 4, ApplyTransition: true,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "terminal")
	assert.Empty(t, store.events[100])
}

func TestCreateEventUnknownTargetState(t *testing.T) {
	svc, store, _ := newTestService()
	store.addCase(100, 1)

	_, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID: 100, StateID: 99, ApplyTransition: true,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCreateEventUnknownCase(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID: 7, StateID: 2, ApplyTransition: true,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCreateEventRequiresCommentWhenTemplateDemandsIt(t *testing.T) {
	svc, store, _ := newTestService()
	store.addCase(100, 2)
	blank := "   "

	for _, comment := range []*string{nil, &blank} {
		_, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
			CaseID: 100, StateID: 4, Comment: comment, ApplyTransition: true,
		})

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	}

	assert.Equal(t, int64(2), store.cases[100].CurrentStateID)
	assert.Empty(t, store.events[100])

	comment := "cliente desistió"
	_, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID: 100, StateID: 4, Comment: &comment, ApplyTransition: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), store.cases[100].CurrentStateID)
}

func TestCreateEventConflictRollsBack(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addCase(100, 1)
	store.conflictOnUpdate = true

	_, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID: 100, StateID: 2, ApplyTransition: true,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	// The appended event must not survive the failed commit.
	assert.Empty(t, store.events[100])
	assert.Equal(t, int64(1), store.cases[100].CurrentStateID)
	assert.Empty(t, notifier.published)
}

func TestCreateEventNoteKeepsCurrentState(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addCase(100, 1)
	comment := "llamada al cliente, sin respuesta"

	event, err := svc.CreateEvent(context.Background(), &CreateEventRequest{
		CaseID:          100,
		StateID:         3, // ignored for notes
		Comment:         &comment,
		ApplyTransition: false,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), event.StateID)
	assert.Equal(t, "Pendiente", event.StateName)
	assert.Equal(t, int64(1), store.cases[100].CurrentStateID)
	require.Len(t, store.events[100], 1)
	assert.Empty(t, notifier.published)
}

func TestEligibleTargets(t *testing.T) {
	svc, store, _ := newTestService()
	store.addCase(100, 1)
	store.addCase(200, 3)

	targets, err := svc.EligibleTargets(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, int64(2), targets[0].ID)
	assert.Equal(t, int64(4), targets[1].ID)

	targets, err = svc.EligibleTargets(context.Background(), 200)
	require.NoError(t, err)
	assert.Empty(t, targets)
}
