// Package service contains the business logic between HTTP handlers and the
// repositories. Visibility and ownership decisions are delegated to the
// policy package; services translate failed checks into the application
// error taxonomy.
package service

import (
	"context"
	"strings"
	"time"

	"gazette/internal/models"
	"gazette/internal/policy"
	"gazette/internal/repository"
)

// PostInput carries the writable post fields. Pointer fields distinguish
// "absent" from zero values: on update an absent pointer field keeps the
// stored value.
type PostInput struct {
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	PubDate     *time.Time `json:"pub_date,omitempty"`
	CategoryID  *uint      `json:"category_id,omitempty"`
	LocationID  *uint      `json:"location_id,omitempty"`
	ImageRef    string     `json:"image_ref,omitempty"`
	IsPublished *bool      `json:"is_published,omitempty"`
}

// PostService implements post business logic.
type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	locations  repository.LocationRepository
}

// NewPostService creates a new PostService.
func NewPostService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	locations repository.LocationRepository,
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		locations:  locations,
	}
}

func (s *PostService) validateInput(ctx context.Context, input *PostInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return models.NewValidationError("title is required")
	}
	if strings.TrimSpace(input.Text) == "" {
		return models.NewValidationError("text is required")
	}
	if input.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *input.CategoryID)
		if err != nil {
			if models.IsNotFound(err) {
				return models.NewValidationError("category does not exist")
			}
			return err
		}
		if !category.IsPublished {
			return models.NewValidationError("category is not available")
		}
	}
	if input.LocationID != nil {
		location, err := s.locations.GetByID(ctx, *input.LocationID)
		if err != nil {
			if models.IsNotFound(err) {
				return models.NewValidationError("location does not exist")
			}
			return err
		}
		if !location.IsPublished {
			return models.NewValidationError("location is not available")
		}
	}
	return nil
}

// Create stores a new post for the author. A missing pub date defaults to
// now; a future one defers publication without being rejected.
func (s *PostService) Create(ctx context.Context, authorID uint, input PostInput) (*models.Post, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       strings.TrimSpace(input.Title),
		Text:        input.Text,
		AuthorID:    authorID,
		CategoryID:  input.CategoryID,
		LocationID:  input.LocationID,
		ImageRef:    input.ImageRef,
		IsPublished: true,
		PubDate:     time.Now().UTC(),
	}
	if input.PubDate != nil {
		post.PubDate = input.PubDate.UTC()
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetEnriched(ctx, post.ID)
}

// Get returns the post if the viewer may see it. An invisible post is
// reported as not found so its existence does not leak.
func (s *PostService) Get(ctx context.Context, viewerID, id uint) (*models.Post, error) {
	post, err := s.posts.GetEnriched(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(viewerID, post, time.Now().UTC()) {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

// ListFeed returns the public feed. It never branches on the viewer: authors
// do not see their own hidden posts here, only on the detail page and their
// profile.
func (s *PostService) ListFeed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.posts.ListVisible(ctx, limit, offset)
}

// ListByCategory resolves the category by slug and returns its visible
// posts. An unknown or unpublished category is not found for every viewer.
func (s *PostService) ListByCategory(ctx context.Context, slug string, limit, offset int) (*models.Category, []*models.Post, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if !policy.CanViewCategory(category) {
		return nil, nil, models.NewNotFoundError("Category", slug)
	}
	posts, err := s.posts.ListVisibleByCategory(ctx, category.ID, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return category, posts, nil
}

// ListByAuthor returns an author's posts for the profile page. Owners get
// everything they wrote, including drafts and future posts; everyone else
// gets the visible subset.
func (s *PostService) ListByAuthor(ctx context.Context, viewerID, authorID uint, limit, offset int) ([]*models.Post, error) {
	onlyVisible := viewerID != authorID
	return s.posts.ListByAuthor(ctx, authorID, onlyVisible, limit, offset)
}

// Update applies the input to the post after an ownership check. The
// ownership failure is returned as an unauthorized error; the handler
// decides how softly to present it.
func (s *PostService) Update(ctx context.Context, viewerID, id uint, input PostInput) (*models.Post, error) {
	post, err := s.posts.GetEnriched(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(viewerID, post.AuthorID) {
		return nil, models.NewUnauthorizedError("you do not own this post")
	}
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Text = input.Text
	post.ImageRef = input.ImageRef
	if input.CategoryID != nil {
		post.CategoryID = input.CategoryID
	}
	if input.LocationID != nil {
		post.LocationID = input.LocationID
	}
	if input.PubDate != nil {
		post.PubDate = input.PubDate.UTC()
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}

	// Clear stale preloads so Save does not resurrect replaced relations.
	post.Category = nil
	post.Location = nil

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetEnriched(ctx, id)
}

// Delete removes the post after an ownership check.
func (s *PostService) Delete(ctx context.Context, viewerID, id uint) error {
	post, err := s.posts.GetEnriched(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanModify(viewerID, post.AuthorID) {
		return models.NewUnauthorizedError("you do not own this post")
	}
	return s.posts.Delete(ctx, id)
}

// CountVisible reports the size of the public feed for pagination metadata.
func (s *PostService) CountVisible(ctx context.Context) (int64, error) {
	return s.posts.CountVisible(ctx)
}
