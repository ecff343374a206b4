// Package credential converts and resets stored user passwords.
package credential

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/password"
	"github.com/mallasudi/smartschool/core/user"
)

const defaultWorkers = 4

type (
	// MigrationFailure is a user whose password could not be converted.
	MigrationFailure struct {
		UserID string
		Err    error
	}

	MigrationReport struct {
		Total     int
		Skipped   int // already hashed
		Converted int
		Pending   int // not processed because the run was cancelled
		Failures  []MigrationFailure
	}

	// Migrator hashes every legacy plaintext password in place.
	Migrator struct {
		repo    user.Repository
		codec   password.Codec
		logger  core.Logger
		workers int
	}
)

func (r MigrationReport) OK() bool { return len(r.Failures) == 0 }

func NewMigrator(repo user.Repository, codec password.Codec, logger core.Logger, workers int) *Migrator {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Migrator{repo: repo, codec: codec, logger: logger, workers: workers}
}

// Run converts the password of every user that is not hashed yet.
// Hashed passwords are never rehashed, so running it again is a no-op.
// Per-user failures are collected in the report; only a failure to list users is returned as an error.
// When ctx is cancelled, users not yet processed are left for the next run.
func (m *Migrator) Run(ctx context.Context) (MigrationReport, error) {
	var report MigrationReport

	users, err := m.repo.QueryAllUsers(ctx)
	if err != nil {
		return report, errors.Wrap(err, "listing users")
	}
	report.Total = len(users)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(m.workers)

	for i, usr := range users {
		if ctx.Err() != nil {
			// left for the next run
			for _, rest := range users[i:] {
				if m.codec.IsHashed(rest.Password) {
					report.Skipped++
				} else {
					report.Pending++
				}
			}
			break
		}
		if m.codec.IsHashed(usr.Password) {
			report.Skipped++
			continue
		}
		usr := usr
		g.Go(func() error {
			err := m.convert(ctx, usr)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				m.logger.Error("converting password failed", err, map[string]interface{}{"user_id": usr.ID})
				report.Failures = append(report.Failures, MigrationFailure{UserID: usr.ID, Err: err})
			} else {
				report.Converted++
			}
			return nil // never abort the batch
		})
	}
	_ = g.Wait()
	sort.Slice(report.Failures, func(i, j int) bool { return report.Failures[i].UserID < report.Failures[j].UserID })

	m.logger.Info("password migration done", map[string]interface{}{
		"total":     report.Total,
		"skipped":   report.Skipped,
		"converted": report.Converted,
		"failed":    len(report.Failures),
		"pending":   report.Pending,
	})
	return report, nil
}

func (m *Migrator) convert(ctx context.Context, usr user.User) error {
	hash, err := m.codec.Hash(usr.Password)
	if err != nil {
		return errors.Wrapf(err, "hashing password of user %s", usr.ID)
	}
	if err := m.repo.UpdatePassword(ctx, usr.ID, hash); err != nil {
		return errors.Wrapf(err, "saving password of user %s", usr.ID)
	}
	return nil
}
