package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/user"
)

const userColumns = "id, name, username, email, password, role, status"

type userRow struct {
	ID       string      `db:"id"`
	Name     string      `db:"name"`
	Username null.String `db:"username"`
	Email    null.String `db:"email"`
	Password string      `db:"password"`
	Role     string      `db:"role"`
	Status   string      `db:"status"`
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

func (repo userRepository) toRow(usr user.User) userRow {
	return userRow{
		ID:       usr.ID,
		Name:     usr.Name,
		Username: null.NewString(usr.Username, usr.Username != ""),
		Email:    null.NewString(usr.Email, usr.Email != ""),
		Password: usr.Password,
		Role:     string(usr.Role),
		Status:   string(usr.Status),
	}
}

func (repo userRepository) fromRow(row userRow) user.User {
	return user.User{
		ID:       row.ID,
		Name:     row.Name,
		Username: row.Username.String,
		Email:    row.Email.String,
		Password: row.Password,
		Role:     user.Role(row.Role),
		Status:   user.Status(row.Status),
	}
}

// trapNoRowsErr maps sql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return user.ErrNotFound
	}
	return core.NewStoreError(op, err)
}

// trapUniqueErr maps unique constraint violations to user.ErrConflict
func (repo userRepository) trapUniqueErr(err error, op string) error {
	if isUniqueViolation(err) {
		return user.ErrConflict
	}
	return core.NewStoreError(op, err)
}

func (repo userRepository) get(ctx context.Context, op, where string, args ...interface{}) (user.User, error) {
	var row userRow
	q := repo.exec.Rebind("SELECT " + userColumns + " FROM users WHERE " + where)
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, op)
	}
	return repo.fromRow(row), nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	order := core.DBOrdering{Field: "id", Ascending: true}
	if err := repo.exec.SelectContext(ctx, &rows, "SELECT "+userColumns+" FROM users ORDER BY "+order.String()); err != nil {
		return nil, core.NewStoreError("querying users", err)
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, repo.fromRow(row))
	}
	return users, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	switch {
	case filter.ID != "":
		return repo.get(ctx, "finding user by ID", "id = ?", filter.ID)
	case filter.Email != "":
		if filter.Role != "" {
			return repo.get(ctx, "finding user by email", "email = ? AND role = ?", filter.Email, string(filter.Role))
		}
		return repo.get(ctx, "finding user by email", "email = ?", filter.Email)
	case filter.UsernameOrEmail != "":
		// a username match wins over another user's email match
		key := filter.UsernameOrEmail
		return repo.get(ctx, "finding user by username or email",
			"username = ? OR email = ? ORDER BY CASE WHEN username = ? THEN 0 ELSE 1 END, id LIMIT 1",
			key, key, key)
	}
	return user.User{}, user.ErrNotFound
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	row := repo.toRow(usr)
	q := repo.exec.Rebind("INSERT INTO users (" + userColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)")
	if _, err := repo.exec.ExecContext(ctx, q,
		row.ID, row.Name, row.Username, row.Email, row.Password, row.Role, row.Status); err != nil {
		return user.User{}, repo.trapUniqueErr(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := repo.toRow(usr)
	q := repo.exec.Rebind("UPDATE users SET name = ?, username = ?, email = ?, role = ?, status = ? WHERE id = ?")
	res, err := repo.exec.ExecContext(ctx, q, row.Name, row.Username, row.Email, row.Role, row.Status, row.ID)
	if err != nil {
		return user.User{}, repo.trapUniqueErr(err, "updating user")
	}
	if err := checkAffected(res, "updating user"); err != nil {
		return user.User{}, err
	}
	return repo.get(ctx, "finding user by ID", "id = ?", usr.ID)
}

func (repo userRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	q := repo.exec.Rebind("UPDATE users SET password = ? WHERE id = ?")
	res, err := repo.exec.ExecContext(ctx, q, hash, id)
	if err != nil {
		return core.NewStoreError("updating user password", err)
	}
	return checkAffected(res, "updating user password")
}

// checkAffected returns user.ErrNotFound if no row was updated.
func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return core.NewStoreError(op, err)
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") // sqlite
}
