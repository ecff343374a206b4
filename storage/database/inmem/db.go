package inmemdb

import (
	"sync"

	"github.com/mallasudi/smartschool/core/grade"
	"github.com/mallasudi/smartschool/core/user"
)

type (
	DB struct {
		user  *userTable
		grade *gradeTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	gradeTable struct {
		sync.RWMutex
		table []grade.Band
	}
)

func Open() *DB {
	return &DB{
		user:  &userTable{table: make(map[string]*user.User)},
		grade: &gradeTable{},
	}
}
