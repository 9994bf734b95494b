// Package repository implements the data access layer for the application.
// Post result sets come in named shapes rather than ad-hoc query chains:
// enriched (author/category/location joined, comment count annotated),
// authored (all of one author's posts, publication state ignored) and
// visible (the publicly visible subset). Each method materializes one shape.
package repository

import (
	"context"
	"errors"
	"time"

	"gazette/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetEnriched loads a post with author, category and location joined and
	// the comment count annotated. It applies no visibility filtering; the
	// caller decides what the viewer may see.
	GetEnriched(ctx context.Context, id uint) (*models.Post, error)
	// ListVisible returns the publicly visible posts, newest pub_date first.
	ListVisible(ctx context.Context, limit, offset int) ([]*models.Post, error)
	// ListVisibleByCategory restricts ListVisible to one category.
	ListVisibleByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, error)
	// ListByAuthor returns one author's posts. With onlyVisible false it is
	// the authored-all shape used when owners view their own profile.
	ListByAuthor(ctx context.Context, authorID uint, onlyVisible bool, limit, offset int) ([]*models.Post, error)
	CountVisible(ctx context.Context) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// enriched joins the display relations and annotates the comment count in a
// single query.
func (r *postRepository) enriched(db *gorm.DB) *gorm.DB {
	return db.
		Model(&models.Post{}).
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Preload("Author").
		Preload("Category").
		Preload("Location")
}

// visible narrows to the publicly visible subset: published post, published
// category, pub_date not in the future. The inner join drops posts with a
// null category, matching the visibility invariant.
func (r *postRepository) visible(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN categories ON categories.id = posts.category_id AND categories.is_published = ?", true).
		Where("posts.is_published = ? AND posts.pub_date <= ?", true, time.Now().UTC())
}

func (r *postRepository) GetEnriched(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.enriched(r.db.WithContext(ctx)).First(&post, "posts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListVisible(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.visible(r.enriched(r.db.WithContext(ctx))).
		Order("posts.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListVisibleByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.visible(r.enriched(r.db.WithContext(ctx))).
		Where("posts.category_id = ?", categoryID).
		Order("posts.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, onlyVisible bool, limit, offset int) ([]*models.Post, error) {
	base := r.enriched(r.db.WithContext(ctx)).Where("posts.author_id = ?", authorID)
	if onlyVisible {
		base = r.visible(base)
	}

	var posts []*models.Post
	err := base.
		Order("posts.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountVisible(ctx context.Context) (int64, error) {
	var count int64
	err := r.visible(r.db.WithContext(ctx).Model(&models.Post{})).Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
