package inmemdb

import (
	"context"
	"sort"

	"github.com/mallasudi/smartschool/core/grade"
)

type GradeRepository struct {
	db *gradeTable
}

var _ grade.Repository = (*GradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) *GradeRepository {
	return &GradeRepository{db: db.grade}
}

func (repo *GradeRepository) ReplaceGradeScales(_ context.Context, bands []grade.Band) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table = append([]grade.Band(nil), bands...)
	return nil
}

func (repo *GradeRepository) QueryGradeScales(_ context.Context) ([]grade.Band, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	bands := append([]grade.Band{}, repo.db.table...)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Min.LessThan(bands[j].Min) })
	return bands, nil
}
