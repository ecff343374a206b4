package sqlxrepos

import (
	"context"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/grade"
)

type gradeRepository struct {
	db core.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db core.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo gradeRepository) ReplaceGradeScales(ctx context.Context, bands []grade.Band) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.NewStoreError("starting grade scale transaction", err)
	}
	if err := replaceBands(ctx, tx, bands); err != nil {
		_ = tx.Rollback()
		return err
	}
	return nil
}

// replaceBands deletes every band and inserts bands, then commits tx.
func replaceBands(ctx context.Context, tx core.DBTransactor, bands []grade.Band) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM grade_scales"); err != nil {
		return core.NewStoreError("deleting grade scales", err)
	}
	q := tx.Rebind("INSERT INTO grade_scales (grade, min_score, max_score, gpa) VALUES (?, ?, ?, ?)")
	for _, b := range bands {
		if _, err := tx.ExecContext(ctx, q, b.Grade, b.Min, b.Max, b.GPA); err != nil {
			return core.NewStoreError("inserting grade scale "+b.Grade, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return core.NewStoreError("committing grade scales", err)
	}
	return nil
}

func (repo gradeRepository) QueryGradeScales(ctx context.Context) ([]grade.Band, error) {
	var bands []grade.Band
	order := core.DBOrdering{Field: "min_score", Ascending: true}
	q := "SELECT grade, min_score, max_score, gpa FROM grade_scales ORDER BY " + order.String()
	if err := repo.db.SelectContext(ctx, &bands, q); err != nil {
		return nil, core.NewStoreError("querying grade scales", err)
	}
	return bands, nil
}
