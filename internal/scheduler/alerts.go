package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-forecaster/internal/calendar"
	"github.com/Dan9191/cashflow-forecaster/internal/config"
	"github.com/Dan9191/cashflow-forecaster/internal/models"
	"github.com/Dan9191/cashflow-forecaster/internal/utils/email"
	"github.com/sirupsen/logrus"
)

// AlertStore is the data the alert job needs
type AlertStore interface {
	ListAlertUsers(ctx context.Context, day models.Date) ([]models.User, error)
	LoadSnapshot(ctx context.Context, userID int64) (*models.Snapshot, error)
	MarkAlerted(ctx context.Context, userIDs []int64, day models.Date) error
}

// Projector computes a projection from loaded records
type Projector interface {
	ProjectSnapshot(snap *models.Snapshot, days int) (*calendar.Projection, error)
}

// Notifier delivers a low balance alert
type Notifier interface {
	SendLowBalanceAlert(to, username string, alert email.LowBalanceAlert) error
}

// AlertJob mails users whose projected balance breaches their buffer soon
type AlertJob struct {
	store     AlertStore
	projector Projector
	notifier  Notifier
	cfg       *config.Config
	log       *logrus.Logger
	now       func() time.Time
}

// NewAlertJob creates the low balance alert job
func NewAlertJob(store AlertStore, projector Projector, notifier Notifier, cfg *config.Config, log *logrus.Logger) *AlertJob {
	return &AlertJob{store: store, projector: projector, notifier: notifier, cfg: cfg, log: log, now: time.Now}
}

// Name implements Job
func (j *AlertJob) Name() string { return "low_balance_alerts" }

// Run implements Job
func (j *AlertJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	return j.RunContext(ctx)
}

// RunContext projects every eligible user over the look-ahead window and mails the ones at risk.
// One user's failure does not stop the others.
func (j *AlertJob) RunContext(ctx context.Context) error {
	today := calendar.TodayIn(j.now(), j.cfg.DefaultTimezone)
	users, err := j.store.ListAlertUsers(ctx, today)
	if err != nil {
		return err
	}

	var (
		alerted []int64
		errs    []error
	)
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		sent, err := j.checkUser(ctx, u)
		if err != nil {
			j.log.WithError(err).WithField("user_id", u.ID).Warn("Low balance check failed")
			errs = append(errs, fmt.Errorf("user %d: %w", u.ID, err))
			continue
		}
		if sent {
			alerted = append(alerted, u.ID)
		}
	}

	if err := j.store.MarkAlerted(ctx, alerted, today); err != nil {
		errs = append(errs, err)
	}
	j.log.WithFields(logrus.Fields{"checked": len(users), "alerted": len(alerted)}).Info("Low balance alerts processed")
	return errors.Join(errs...)
}

func (j *AlertJob) checkUser(ctx context.Context, u models.User) (bool, error) {
	snap, err := j.store.LoadSnapshot(ctx, u.ID)
	if err != nil {
		return false, err
	}
	if len(snap.Accounts) == 0 {
		return false, nil
	}
	p, err := j.projector.ProjectSnapshot(snap, j.cfg.AlertLookaheadDays)
	if err != nil {
		return false, err
	}
	if !p.Risk.HasBufferBreach() {
		return false, nil
	}

	alert := email.LowBalanceAlert{
		FirstOverdraft:    p.Risk.FirstOverdraft,
		FirstBufferBreach: p.Risk.FirstBufferBreach,
		LowestBalance:     p.LowestBalance,
		LowestBalanceDay:  p.LowestBalanceDay,
		SafetyBuffer:      p.SafetyBuffer,
		Currency:          p.Currency,
	}
	if err := j.notifier.SendLowBalanceAlert(u.Email, u.Username, alert); err != nil {
		return false, err
	}
	return true, nil
}
