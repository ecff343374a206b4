package credential

import (
	"context"
	"net/mail"
	"text/template"

	"github.com/pkg/errors"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/password"
	"github.com/mallasudi/smartschool/core/user"
)

var passwordChangedTmpl = template.Must(template.New("password_changed").Parse(
	`Hello{{with .Name}} {{.}}{{end}},

The password of your account ({{.Login}}) has just been changed by an administrator.
If you did not ask for this change, please contact your school administration.
`))

// Resetter overwrites the password of a single user.
type Resetter struct {
	repo   user.Repository
	codec  password.Codec
	logger core.Logger

	// Notifier, when set, tells the user that their password changed.
	Notifier core.EmailService
}

func NewResetter(repo user.Repository, codec password.Codec, logger core.Logger) *Resetter {
	return &Resetter{repo: repo, codec: codec, logger: logger}
}

// Reset finds the user whose username or email is key and sets their password to pwd, unconditionally.
// It returns user.ErrNotFound, without writing anything, when no user matches key or when the user
// was deleted before the write.
func (r *Resetter) Reset(ctx context.Context, key, pwd string) (user.User, error) {
	key = core.CleanString(key)
	if key == "" {
		return user.User{}, user.ErrNotFound
	}

	usr, err := r.repo.GetUser(ctx, user.GetFilter{UsernameOrEmail: key})
	if err != nil {
		if err == user.ErrNotFound {
			return user.User{}, err
		}
		return user.User{}, errors.Wrapf(err, "finding user %q", key)
	}

	hash, err := r.codec.Hash(pwd)
	if err != nil {
		return user.User{}, errors.Wrapf(err, "hashing password of user %s", usr.ID)
	}
	if err := r.repo.UpdatePassword(ctx, usr.ID, hash); err != nil {
		if err == user.ErrNotFound {
			return user.User{}, err
		}
		return user.User{}, errors.Wrapf(err, "saving password of user %s", usr.ID)
	}
	usr.Password = hash

	r.logger.Info("password reset", usr)
	r.notify(ctx, usr)
	return usr, nil
}

func (r *Resetter) notify(ctx context.Context, usr user.User) {
	if r.Notifier == nil || usr.Email == "" {
		return
	}
	login := usr.Username
	if login == "" {
		login = usr.Email
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Your password has been changed",
		Template:     passwordChangedTmpl,
		TemplateData: map[string]string{"Name": usr.Name, "Login": login},
	}
	if err := r.Notifier.SendMessage(ctx, msg); err != nil {
		r.logger.Warn("sending password change notice failed", err, usr)
	}
}
