package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mallasudi/smartschool/core/user"
)

type UserRepository struct {
	db *userTable
}

var _ user.Repository = (*UserRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.user}
}

// query returns a copy of every user, ordered by ID. The caller must hold the lock.
func (repo *UserRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// checkUniqueness returns user.ErrConflict if another user already has usr's username or email.
func (repo *UserRepository) checkUniqueness(usr user.User) error {
	for _, u := range repo.db.table {
		if u.ID == usr.ID {
			continue
		}
		if (usr.Username != "" && u.Username == usr.Username) || (usr.Email != "" && u.Email == usr.Email) {
			return user.ErrConflict
		}
	}
	return nil
}

func (repo *UserRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *UserRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if usr, ok := repo.db.table[filter.ID]; ok {
			return *usr, nil
		}
	case filter.Email != "":
		for _, usr := range repo.query() {
			if usr.Email == filter.Email && (filter.Role == "" || usr.Role == filter.Role) {
				return usr, nil
			}
		}
	case filter.UsernameOrEmail != "":
		users := repo.query()
		for _, usr := range users {
			if usr.Username == filter.UsernameOrEmail {
				return usr, nil
			}
		}
		for _, usr := range users {
			if usr.Email == filter.UsernameOrEmail {
				return usr, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = uuid.New().String()
	if err := repo.checkUniqueness(usr); err != nil {
		return user.User{}, err
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *UserRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origUsr, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if err := repo.checkUniqueness(usr); err != nil {
		return user.User{}, err
	}
	usr.Password = origUsr.Password
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.Password = hash
	return nil
}

// DeleteUser removes a user. Only used to simulate concurrent deletions.
func (repo *UserRepository) DeleteUser(_ context.Context, id string) {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
}
