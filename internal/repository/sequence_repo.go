package repository

import (
	"context"
	"fmt"
	"time"

	"warehouse-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository hands out sequential document and reference numbers,
// one counter per prefix and day, shaped PFX-YYYYMMDD-NNNNN.
type SequenceRepository interface {
	Next(ctx context.Context, prefix string) (string, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Next(ctx context.Context, prefix string) (string, error) {
	db := GetDB(ctx, r.db)

	name := prefix + "-" + time.Now().Format("20060102")

	// Advisory lock serializes concurrent number generation for the same
	// counter; it is released at transaction end.
	if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", name).Error; err != nil {
		return "", err
	}

	seq := model.Sequence{Name: name, Value: 1}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("sequences.value + 1")}),
	}).Create(&seq).Error
	if err != nil {
		return "", err
	}

	if err := db.Where("name = ?", name).First(&seq).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%05d", name, seq.Value), nil
}
