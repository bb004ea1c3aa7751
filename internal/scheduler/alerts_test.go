package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cashflow-forecaster/internal/calendar"
	"github.com/Dan9191/cashflow-forecaster/internal/config"
	"github.com/Dan9191/cashflow-forecaster/internal/models"
	"github.com/Dan9191/cashflow-forecaster/internal/utils/email"
)

type fakeStore struct {
	users     []models.User
	snapshots map[int64]*models.Snapshot
	listDay   models.Date
	marked    []int64
	markedDay models.Date
}

func (f *fakeStore) ListAlertUsers(_ context.Context, day models.Date) ([]models.User, error) {
	f.listDay = day
	return f.users, nil
}

func (f *fakeStore) LoadSnapshot(_ context.Context, userID int64) (*models.Snapshot, error) {
	snap, ok := f.snapshots[userID]
	if !ok {
		return nil, errors.New("no such user")
	}
	return snap, nil
}

func (f *fakeStore) MarkAlerted(_ context.Context, userIDs []int64, day models.Date) error {
	f.marked = userIDs
	f.markedDay = day
	return nil
}

type projector struct{ today models.Date }

func (p projector) ProjectSnapshot(snap *models.Snapshot, days int) (*calendar.Projection, error) {
	return calendar.Project(calendar.Input{
		Records:      calendar.Records{Accounts: snap.Accounts, Bills: snap.Bills, Income: snap.Income},
		Today:        p.today,
		Days:         days,
		SafetyBuffer: 5000,
		Currency:     "USD",
	})
}

type sentAlert struct {
	to    string
	alert email.LowBalanceAlert
}

type fakeNotifier struct {
	sent []sentAlert
	fail map[string]bool
}

func (n *fakeNotifier) SendLowBalanceAlert(to, _ string, alert email.LowBalanceAlert) error {
	if n.fail[to] {
		return errors.New("smtp down")
	}
	n.sent = append(n.sent, sentAlert{to: to, alert: alert})
	return nil
}

func mustDate(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func snapshot(id int64, balance models.Money, rent models.Money) *models.Snapshot {
	return &models.Snapshot{
		UserID:   id,
		Accounts: []models.Account{{ID: "chk", Name: "Checking", Balance: balance, Kind: models.AccountChecking, IsSpendable: true}},
		Bills: []models.RecurringItem{
			{ID: "rent", Name: "Rent", Amount: rent, Frequency: models.Monthly, AnchorDate: mustDate("2024-03-05"), IsActive: true},
		},
	}
}

func newJob(store *fakeStore, notifier *fakeNotifier) *AlertJob {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{DefaultTimezone: "UTC", AlertLookaheadDays: 14}
	job := NewAlertJob(store, projector{today: mustDate("2024-03-01")}, notifier, cfg, log)
	job.now = func() time.Time { return time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC) }
	return job
}

func TestAlertJob_AlertsUsersAtRisk(t *testing.T) {
	store := &fakeStore{
		users: []models.User{
			{ID: 1, Email: "low@example.com", Username: "low"},
			{ID: 2, Email: "fine@example.com", Username: "fine"},
			{ID: 3, Email: "empty@example.com", Username: "empty"},
		},
		snapshots: map[int64]*models.Snapshot{
			1: snapshot(1, 100000, 120000),
			2: snapshot(2, 500000, 120000),
			3: {UserID: 3},
		},
	}
	notifier := &fakeNotifier{}

	require.NoError(t, newJob(store, notifier).Run())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "low@example.com", notifier.sent[0].to)
	assert.Equal(t, mustDate("2024-03-05"), notifier.sent[0].alert.FirstOverdraft)
	assert.Equal(t, models.Money(-20000), notifier.sent[0].alert.LowestBalance)
	assert.Equal(t, []int64{1}, store.marked)
	assert.Equal(t, mustDate("2024-03-01"), store.listDay)
	assert.Equal(t, mustDate("2024-03-01"), store.markedDay)
}

func TestAlertJob_ContinuesAfterFailures(t *testing.T) {
	store := &fakeStore{
		users: []models.User{
			{ID: 1, Email: "broken@example.com"},
			{ID: 2, Email: "missing@example.com"},
			{ID: 3, Email: "ok@example.com"},
		},
		snapshots: map[int64]*models.Snapshot{
			1: snapshot(1, 1000, 120000),
			3: snapshot(3, 1000, 120000),
		},
	}
	notifier := &fakeNotifier{fail: map[string]bool{"broken@example.com": true}}

	err := newJob(store, notifier).Run()
	require.Error(t, err)
	assert.ErrorContains(t, err, "smtp down")
	assert.ErrorContains(t, err, "no such user")
	assert.Equal(t, []int64{3}, store.marked)
}

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestScheduler_AddJobAndRunNow(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := New(log)

	job := &countingJob{}
	require.NoError(t, s.AddJob("0 7 * * *", job))
	assert.Error(t, s.AddJob("every morning", job))

	s.RunNow(job)
	job.err = errors.New("boom")
	s.RunNow(job)
	assert.Equal(t, 2, job.runs)

	s.Start()
	s.Stop()
}
