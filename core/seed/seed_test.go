package seed

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/grade"
	"github.com/mallasudi/smartschool/core/password"
	"github.com/mallasudi/smartschool/core/user"
	"github.com/mallasudi/smartschool/storage/database/inmem"
	"github.com/mallasudi/smartschool/tests"
)

var canonicalAdmin = Admin{
	Name:     "Administrator",
	Username: "admin",
	Email:    "admin@smartschool.local",
	Password: "Admin@12345",
}

type failingGrades struct{ grade.Repository }

func (failingGrades) ReplaceGradeScales(context.Context, []grade.Band) error {
	return core.NewStoreError("replacing grade scales", errors.New("connection refused"))
}

// conflictingUsers simulates a concurrent bootstrap creating the admin between the check and the insert.
type conflictingUsers struct{ user.Repository }

func (conflictingUsers) CreateUser(context.Context, user.User) (user.User, error) {
	return user.User{}, user.ErrConflict
}

type fixture struct {
	users  *inmemdb.UserRepository
	grades *inmemdb.GradeRepository
	codec  password.Codec
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := inmemdb.Open()
	codec, err := password.NewBcryptCodec(bcrypt.MinCost)
	require.NoError(t, err)
	return fixture{
		users:  inmemdb.NewUserRepository(db),
		grades: inmemdb.NewGradeRepository(db),
		codec:  codec,
	}
}

func (f fixture) bootstrapper(users user.Repository, grades grade.Repository, admin Admin) *Bootstrapper {
	logger, _ := testutil.NewLogger()
	return NewBootstrapper(users, grades, f.codec, logger, admin)
}

func TestCanonicalScaleIsValid(t *testing.T) {
	assert.NoError(t, grade.ValidateScale(grade.CanonicalScale()))
}

func TestBootstrapper_Run_Twice(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	b := f.bootstrapper(f.users, f.grades, canonicalAdmin)

	report, err := b.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, AdminCreated, report.Admin)
	assert.True(t, report.GradesSeeded)
	assert.Equal(t, 5, report.GradeBands)

	admin := report.AdminUser
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.Equal(t, user.StatusActive, admin.Status)
	assert.Equal(t, "admin", admin.Username)
	assert.True(t, f.codec.IsHashed(admin.Password))
	assert.NoError(t, f.codec.Check(admin.Password, canonicalAdmin.Password))

	report, err = b.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, AdminExisted, report.Admin)
	assert.Equal(t, admin, report.AdminUser, "existing admin must not be touched")

	users := testutil.Snapshot(t, f.users)
	require.Len(t, users, 1)
	assert.Equal(t, admin, users[admin.ID])

	bands, err := f.grades.QueryGradeScales(ctx)
	require.NoError(t, err)
	assert.Equal(t, grade.CanonicalScale(), bands)
}

func TestBootstrapper_SeedAdmin_KeepsExistingCredential(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	existing := testutil.CreateUser(t, f.users, "Boss", "boss", canonicalAdmin.Email, "legacy-plaintext", user.RoleAdmin, true)

	res, usr, err := f.bootstrapper(f.users, f.grades, canonicalAdmin).SeedAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, AdminExisted, res)
	assert.Equal(t, existing, usr)

	got, err := f.users.GetUser(ctx, user.GetFilter{ID: existing.ID})
	require.NoError(t, err)
	assert.Equal(t, "legacy-plaintext", got.Password)
}

func TestBootstrapper_SeedAdmin_Conflict(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	t.Run("non-admin owns the email", func(t *testing.T) {
		testutil.CreateUser(t, f.users, "Teacher", "teach", canonicalAdmin.Email, "pwd", user.RoleTeacher, true)
		_, _, err := f.bootstrapper(f.users, f.grades, canonicalAdmin).SeedAdmin(ctx)
		assert.True(t, errors.Is(err, user.ErrConflict), "got %v", err)
		assert.Contains(t, err.Error(), canonicalAdmin.Email)
	})

	t.Run("concurrent bootstrap", func(t *testing.T) {
		f := setup(t)
		_, _, err := f.bootstrapper(conflictingUsers{f.users}, f.grades, canonicalAdmin).SeedAdmin(ctx)
		assert.True(t, errors.Is(err, user.ErrConflict), "got %v", err)
		assert.Empty(t, testutil.Snapshot(t, f.users))
	})
}

func TestBootstrapper_SeedAdmin_Invalid(t *testing.T) {
	f := setup(t)
	tests := []struct {
		name  string
		admin Admin
		field string
	}{
		{name: "no email", admin: Admin{Username: "admin", Password: "pwd"}, field: "email"},
		{name: "bad email", admin: Admin{Email: "lol", Password: "pwd"}, field: "email"},
		{name: "no password", admin: Admin{Email: "admin@smartschool.local"}, field: "password"},
		{name: "bad username", admin: Admin{Username: "ad min", Email: "admin@smartschool.local", Password: "pwd"}, field: "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.bootstrapper(f.users, f.grades, tt.admin).SeedAdmin(context.Background())
			var vErr *core.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tt.field, vErr.Fields[0].Field)
		})
	}
	assert.Empty(t, testutil.Snapshot(t, f.users))
}

func TestBootstrapper_SeedGradeScale_ReplacesEdits(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	edited := grade.CanonicalScale()
	edited[4].Grade = "A+"
	edited = append(edited, grade.Band{Grade: "X"})
	require.NoError(t, f.grades.ReplaceGradeScales(ctx, edited))

	n, err := f.bootstrapper(f.users, f.grades, canonicalAdmin).SeedGradeScale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	bands, err := f.grades.QueryGradeScales(ctx)
	require.NoError(t, err)
	assert.Equal(t, grade.CanonicalScale(), bands)
}

func TestBootstrapper_Run_StepsAreIndependent(t *testing.T) {
	ctx := context.Background()

	t.Run("grade scale fails", func(t *testing.T) {
		f := setup(t)
		report, err := f.bootstrapper(f.users, failingGrades{f.grades}, canonicalAdmin).Run(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrStoreFailure), "got %v", err)
		assert.Equal(t, AdminCreated, report.Admin)
		assert.False(t, report.GradesSeeded)
		assert.Len(t, testutil.Snapshot(t, f.users), 1)
	})

	t.Run("both fail", func(t *testing.T) {
		f := setup(t)
		report, err := f.bootstrapper(conflictingUsers{f.users}, failingGrades{f.grades}, canonicalAdmin).Run(ctx)
		require.Len(t, multierr.Errors(err), 2)
		assert.True(t, errors.Is(err, user.ErrConflict), "got %v", err)
		assert.True(t, errors.Is(err, core.ErrStoreFailure), "got %v", err)
		assert.Empty(t, report.Admin)
		assert.False(t, report.GradesSeeded)
	})

	t.Run("admin fails", func(t *testing.T) {
		f := setup(t)
		report, err := f.bootstrapper(conflictingUsers{f.users}, f.grades, canonicalAdmin).Run(ctx)
		require.Len(t, multierr.Errors(err), 1)
		assert.True(t, report.GradesSeeded)

		bands, err := f.grades.QueryGradeScales(ctx)
		require.NoError(t, err)
		assert.Equal(t, grade.CanonicalScale(), bands)
	})
}
