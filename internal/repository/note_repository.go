package repository

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	return r.DB.WithContext(ctx).Create(note).Error
}

func (r *NoteRepository) uploaderName(db *gorm.DB) *gorm.DB {
	return db.Preload("Uploader", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name")
	})
}

// List returns notes newest first, optionally only those of one course.
func (r *NoteRepository) List(ctx context.Context, courseID *uint) ([]model.Note, error) {
	query := r.uploaderName(r.DB.WithContext(ctx))
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	var notes []model.Note
	err := query.Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*model.Note, error) {
	var note model.Note
	err := r.uploaderName(r.DB.WithContext(ctx)).Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNoteNotFound
	}
	return nil
}
