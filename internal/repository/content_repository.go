package repository

import (
	"context"
	"studyplan_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) AllBooks(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	err := r.DB.WithContext(ctx).Find(&books).Error
	return books, err
}

func (r *ContentRepository) BooksByIDs(ctx context.Context, ids []string) ([]model.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var books []model.Book
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&books).Error
	return books, err
}

func (r *ContentRepository) BookByID(ctx context.Context, id string) (*model.Book, error) {
	var book model.Book
	err := r.DB.WithContext(ctx).First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *ContentRepository) ChaptersByBook(ctx context.Context, bookID string) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.WithContext(ctx).Where("book_id = ?", bookID).Find(&chapters).Error
	return chapters, err
}

func (r *ContentRepository) ChaptersByIDs(ctx context.Context, ids []string) ([]model.Chapter, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var chapters []model.Chapter
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&chapters).Error
	return chapters, err
}

func (r *ContentRepository) SubchaptersByChapter(ctx context.Context, chapterID string) ([]model.Subchapter, error) {
	var subs []model.Subchapter
	err := r.DB.WithContext(ctx).Where("chapter_id = ?", chapterID).Find(&subs).Error
	return subs, err
}

func (r *ContentRepository) SubchaptersByIDs(ctx context.Context, ids []string) ([]model.Subchapter, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var subs []model.Subchapter
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&subs).Error
	return subs, err
}
