package dao

import (
	"Shopcore/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sequence 按天自增的订单序号
type Sequence struct {
	db *gorm.DB
}

func NewSequence(db *gorm.DB) *Sequence {
	return &Sequence{db: db}
}

func (s *Sequence) WithTx(tx *gorm.DB) *Sequence {
	return &Sequence{db: tx}
}

// Next 必须在下单事务中调用：upsert 持有当天计数行的写锁直到事务结束，
// 同一天并发下单在此串行，序号不会重复
func (s *Sequence) Next(ctx context.Context, day string) (int, error) {
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]any{"seq": gorm.Expr("seq + 1")}),
	}).Create(&models.OrderSequence{Day: day, Seq: 1}).Error
	if err != nil {
		return 0, err
	}

	var row models.OrderSequence
	if err := db.Where("day = ?", day).First(&row).Error; err != nil {
		return 0, err
	}
	return row.Seq, nil
}
