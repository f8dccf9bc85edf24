package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo 通用仓储，按模型类型泛型化
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// WithTx 绑定到事务，返回副本
func (r Repo[T]) WithTx(tx *gorm.DB) Repo[T] {
	return Repo[T]{Db: tx}
}

func (r Repo[T]) Create(ctx context.Context, m *T) error {
	return r.Db.WithContext(ctx).Create(m).Error
}

func (r Repo[T]) FindById(ctx context.Context, id uint64) (*T, error) {
	var m T
	if err := r.Db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByIdForUpdate 行锁读取，必须在事务中调用
func (r Repo[T]) FindByIdForUpdate(ctx context.Context, id uint64) (*T, error) {
	var m T
	err := r.Db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r Repo[T]) FindByIds(ctx context.Context, ids []uint64) ([]*T, error) {
	items := make([]*T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := r.Db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r Repo[T]) UpdateById(ctx context.Context, id uint64, data map[string]any) (int64, error) {
	var m T
	res := r.Db.WithContext(ctx).Model(&m).Where("id = ?", id).Updates(data)
	return res.RowsAffected, res.Error
}
