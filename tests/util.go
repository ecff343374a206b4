package testutil

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/user"
	logsvc "github.com/mallasudi/smartschool/services/logger"
	"github.com/mallasudi/smartschool/storage/database"
)

// NewLogger returns a logger writing to the returned buffer. Rollbar stays disabled.
func NewLogger() (*logsvc.RollbarLogger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	return logsvc.NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST"}), buf
}

// PrepareDB returns a migrated, private in-memory SQLite database closed at the end of the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given password stored as is (plaintext or hash).
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	role user.Role,
	isActive bool,
) user.User {
	t.Helper()
	status := user.StatusActive
	if !isActive {
		status = user.StatusInactive
	}
	usr, err := repo.CreateUser(context.Background(), user.User{
		Name:     name,
		Username: uname,
		Email:    email,
		Password: pwd,
		Role:     role,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// Snapshot returns every user keyed by ID.
func Snapshot(t *testing.T, repo user.Repository) map[string]user.User {
	t.Helper()
	users, err := repo.QueryAllUsers(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	snap := make(map[string]user.User, len(users))
	for _, usr := range users {
		snap[usr.ID] = usr
	}
	return snap
}
