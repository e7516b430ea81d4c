package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/narwhalmedia/reelscout/pkg/errors"
)

// Save inserts entity or updates every column when its primary key exists.
// A unique constraint violation on another column becomes a conflict error.
func Save[T any](ctx context.Context, db *gorm.DB, entity *T) error {
	if err := db.WithContext(ctx).Save(entity).Error; err != nil {
		if pkgerrors.IsDuplicateError(err) {
			return pkgerrors.Conflict("entity already exists")
		}
		return fmt.Errorf("failed to save %T: %w", entity, err)
	}
	return nil
}

// FindByID finds an entity by its ID. A missing row becomes a not found
// error carrying notFound.
func FindByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, notFound string) (*T, error) {
	var entity T
	if err := db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(notFound)
		}
		return nil, err
	}
	return &entity, nil
}

// FindFirst returns the first entity in order.
func FindFirst[T any](ctx context.Context, db *gorm.DB, order string, notFound string) (*T, error) {
	var entity T
	if err := db.WithContext(ctx).Order(order).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(notFound)
		}
		return nil, err
	}
	return &entity, nil
}

// UpdateColumn sets a single column on the row with the given ID.
func UpdateColumn[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, column string, value interface{}, notFound string) error {
	var entity T
	result := db.WithContext(ctx).Model(&entity).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NotFound(notFound)
	}
	return nil
}

// Delete removes an entity from the database by its ID.
func Delete[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, notFound string) error {
	var entity T
	result := db.WithContext(ctx).Delete(&entity, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NotFound(notFound)
	}
	return nil
}

// Count returns the total number of entities.
func Count[T any](ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	var entity T
	if err := db.WithContext(ctx).Model(&entity).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
