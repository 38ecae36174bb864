package repository

import (
	"errors"

	"github.com/marketplace-next/internal/models"

	"gorm.io/gorm"
)

// CartSnapshotRepository 游客购物车快照数据访问接口
type CartSnapshotRepository interface {
	GetByKey(storageKey string) (*models.CartSnapshot, error)
	Upsert(snapshot *models.CartSnapshot) error
	DeleteByKey(storageKey string) error
	WithTx(tx *gorm.DB) *GormCartSnapshotRepository
}

// GormCartSnapshotRepository GORM 实现
type GormCartSnapshotRepository struct {
	db *gorm.DB
}

// NewCartSnapshotRepository 创建购物车快照仓库
func NewCartSnapshotRepository(db *gorm.DB) *GormCartSnapshotRepository {
	return &GormCartSnapshotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartSnapshotRepository) WithTx(tx *gorm.DB) *GormCartSnapshotRepository {
	if tx == nil {
		return r
	}
	return &GormCartSnapshotRepository{db: tx}
}

// GetByKey 按存储键获取快照，不存在时返回 nil
func (r *GormCartSnapshotRepository) GetByKey(storageKey string) (*models.CartSnapshot, error) {
	var snapshot models.CartSnapshot
	err := r.db.Where("storage_key = ?", storageKey).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Upsert 写入或覆盖快照（后写覆盖先写）
func (r *GormCartSnapshotRepository) Upsert(snapshot *models.CartSnapshot) error {
	if snapshot == nil {
		return nil
	}
	var existing models.CartSnapshot
	err := r.db.Where("storage_key = ?", snapshot.StorageKey).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(snapshot).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&existing).Update("payload", snapshot.Payload).Error
}

// DeleteByKey 删除快照
func (r *GormCartSnapshotRepository) DeleteByKey(storageKey string) error {
	return r.db.Where("storage_key = ?", storageKey).Delete(&models.CartSnapshot{}).Error
}
