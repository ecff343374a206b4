// Package seed establishes the canonical data a fresh installation needs.
package seed

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/grade"
	"github.com/mallasudi/smartschool/core/password"
	"github.com/mallasudi/smartschool/core/user"
)

type AdminResult string

const (
	AdminCreated AdminResult = "created"
	AdminExisted AdminResult = "already exists"
)

type (
	// Admin is the canonical administrator account.
	Admin struct {
		Name     string `json:"name"`
		Username string `json:"username" validate:"omitempty,min=3,alphanum_"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,notblank"`
	}

	SeedReport struct {
		Admin        AdminResult
		AdminUser    user.User
		GradeBands   int
		GradesSeeded bool
	}

	Bootstrapper struct {
		users  user.Repository
		grades grade.Repository
		codec  password.Codec
		logger core.Logger
		admin  Admin
	}
)

// AdminFromConfig returns the canonical admin defined by the seed.admin.* settings.
func AdminFromConfig(conf core.AdminSeedConfig) Admin {
	return Admin{
		Name:     conf.Name,
		Username: conf.Username,
		Email:    conf.Email,
		Password: conf.Password,
	}
}

func NewBootstrapper(
	users user.Repository,
	grades grade.Repository,
	codec password.Codec,
	logger core.Logger,
	admin Admin,
) *Bootstrapper {
	admin.Name = core.CleanString(admin.Name)
	admin.Username = core.CleanString(admin.Username)
	admin.Email = core.CleanString(admin.Email)
	return &Bootstrapper{users: users, grades: grades, codec: codec, logger: logger, admin: admin}
}

// SeedAdmin creates the canonical admin unless an admin with the canonical email already exists.
// An existing admin is never modified.
func (b *Bootstrapper) SeedAdmin(ctx context.Context) (AdminResult, user.User, error) {
	if err := core.ValidateStruct(b.admin); err != nil {
		return "", user.User{}, errors.Wrap(err, "validating admin")
	}

	usr, err := b.users.GetUser(ctx, user.GetFilter{Email: b.admin.Email, Role: user.RoleAdmin})
	if err == nil {
		b.logger.Info("admin already exists", usr)
		return AdminExisted, usr, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return "", user.User{}, errors.Wrapf(err, "finding admin %q", b.admin.Email)
	}

	hash, err := b.codec.Hash(b.admin.Password)
	if err != nil {
		return "", user.User{}, errors.Wrapf(err, "hashing password of admin %q", b.admin.Email)
	}
	usr, err = b.users.CreateUser(ctx, user.User{
		Name:     b.admin.Name,
		Username: b.admin.Username,
		Email:    b.admin.Email,
		Password: hash,
		Role:     user.RoleAdmin,
		Status:   user.StatusActive,
	})
	if err != nil {
		return "", user.User{}, errors.Wrapf(err, "creating admin %q", b.admin.Email)
	}
	b.logger.Info("admin created", usr)
	return AdminCreated, usr, nil
}

// SeedGradeScale replaces the whole grade scale with the canonical one. Manual edits are lost.
func (b *Bootstrapper) SeedGradeScale(ctx context.Context) (int, error) {
	bands := grade.CanonicalScale()
	if err := b.grades.ReplaceGradeScales(ctx, bands); err != nil {
		return 0, errors.Wrap(err, "replacing grade scale")
	}
	b.logger.Info("grade scale seeded", map[string]interface{}{"bands": len(bands)})
	return len(bands), nil
}

// Run seeds the admin then the grade scale. A failing step does not prevent the other one from running.
func (b *Bootstrapper) Run(ctx context.Context) (SeedReport, error) {
	var report SeedReport
	var err error

	res, usr, adminErr := b.SeedAdmin(ctx)
	if adminErr != nil {
		err = multierr.Append(err, adminErr)
	} else {
		report.Admin, report.AdminUser = res, usr
	}

	n, gradeErr := b.SeedGradeScale(ctx)
	if gradeErr != nil {
		err = multierr.Append(err, gradeErr)
	} else {
		report.GradeBands, report.GradesSeeded = n, true
	}
	return report, err
}
