package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gazette/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn                func(context.Context, *models.Post) error
	getEnrichedFn           func(context.Context, uint) (*models.Post, error)
	listVisibleFn           func(context.Context, int, int) ([]*models.Post, error)
	listVisibleByCategoryFn func(context.Context, uint, int, int) ([]*models.Post, error)
	listByAuthorFn          func(context.Context, uint, bool, int, int) ([]*models.Post, error)
	countVisibleFn          func(context.Context) (int64, error)
	updateFn                func(context.Context, *models.Post) error
	deleteFn                func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetEnriched(ctx context.Context, id uint) (*models.Post, error) {
	return s.getEnrichedFn(ctx, id)
}
func (s *postRepoStub) ListVisible(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listVisibleFn(ctx, limit, offset)
}
func (s *postRepoStub) ListVisibleByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, error) {
	return s.listVisibleByCategoryFn(ctx, categoryID, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, onlyVisible bool, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, onlyVisible, limit, offset)
}
func (s *postRepoStub) CountVisible(ctx context.Context) (int64, error) {
	return s.countVisibleFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getEnrichedFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, IsPublished: true,
				PubDate:  time.Now().UTC().Add(-time.Hour),
				Category: &models.Category{ID: 1, IsPublished: true}}, nil
		},
		listVisibleFn: func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listVisibleByCategoryFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint, _ bool, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countVisibleFn: func(_ context.Context) (int64, error) { return 0, nil },
		updateFn:       func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn        func(context.Context, *models.Category) error
	getByIDFn       func(context.Context, uint) (*models.Category, error)
	getBySlugFn     func(context.Context, string) (*models.Category, error)
	listPublishedFn func(context.Context) ([]*models.Category, error)
	updateFn        func(context.Context, *models.Category) error
	deleteFn        func(context.Context, uint) error
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) ListPublished(ctx context.Context) ([]*models.Category, error) {
	return s.listPublishedFn(ctx)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, IsPublished: true}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Category, error) {
			return &models.Category{ID: 1, Slug: slug, IsPublished: true}, nil
		},
		listPublishedFn: func(_ context.Context) ([]*models.Category, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// locationRepoStub is a stub for repository.LocationRepository.
type locationRepoStub struct {
	createFn        func(context.Context, *models.Location) error
	getByIDFn       func(context.Context, uint) (*models.Location, error)
	listPublishedFn func(context.Context) ([]*models.Location, error)
	deleteFn        func(context.Context, uint) error
}

func (s *locationRepoStub) Create(ctx context.Context, location *models.Location) error {
	return s.createFn(ctx, location)
}
func (s *locationRepoStub) GetByID(ctx context.Context, id uint) (*models.Location, error) {
	return s.getByIDFn(ctx, id)
}
func (s *locationRepoStub) ListPublished(ctx context.Context) ([]*models.Location, error) {
	return s.listPublishedFn(ctx)
}
func (s *locationRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopLocationRepo() *locationRepoStub {
	return &locationRepoStub{
		createFn: func(_ context.Context, _ *models.Location) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Location, error) {
			return &models.Location{ID: id, IsPublished: true}, nil
		},
		listPublishedFn: func(_ context.Context) ([]*models.Location, error) { return nil, nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsValidation(err), "expected VALIDATION_ERROR, got %v", err)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsUnauthorized(err), "expected UNAUTHORIZED, got %v", err)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err), "expected NOT_FOUND, got %v", err)
}

func newPostService(posts *postRepoStub) *PostService {
	return NewPostService(posts, noopCategoryRepo(), noopLocationRepo())
}

func TestPostService_Create_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		_, err := newPostService(noopPostRepo()).Create(ctx, 1, PostInput{Text: "body"})
		assertValidationError(t, err)
	})

	t.Run("missing text", func(t *testing.T) {
		t.Parallel()
		_, err := newPostService(noopPostRepo()).Create(ctx, 1, PostInput{Title: "title"})
		assertValidationError(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		categories := noopCategoryRepo()
		categories.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return nil, models.NewNotFoundError("Category", id)
		}
		svc := NewPostService(noopPostRepo(), categories, noopLocationRepo())
		categoryID := uint(9)
		_, err := svc.Create(ctx, 1, PostInput{Title: "t", Text: "b", CategoryID: &categoryID})
		assertValidationError(t, err)
	})

	t.Run("unpublished category", func(t *testing.T) {
		t.Parallel()
		categories := noopCategoryRepo()
		categories.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, IsPublished: false}, nil
		}
		svc := NewPostService(noopPostRepo(), categories, noopLocationRepo())
		categoryID := uint(9)
		_, err := svc.Create(ctx, 1, PostInput{Title: "t", Text: "b", CategoryID: &categoryID})
		assertValidationError(t, err)
	})

	t.Run("unpublished location", func(t *testing.T) {
		t.Parallel()
		locations := noopLocationRepo()
		locations.getByIDFn = func(_ context.Context, id uint) (*models.Location, error) {
			return &models.Location{ID: id, IsPublished: false}, nil
		}
		svc := NewPostService(noopPostRepo(), noopCategoryRepo(), locations)
		locationID := uint(3)
		_, err := svc.Create(ctx, 1, PostInput{Title: "t", Text: "b", LocationID: &locationID})
		assertValidationError(t, err)
	})
}

func TestPostService_Create_Defaults(t *testing.T) {
	t.Parallel()

	var created *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 42
		created = p
		return nil
	}

	before := time.Now().UTC()
	_, err := newPostService(posts).Create(context.Background(), 7, PostInput{Title: "t", Text: "b"})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, uint(7), created.AuthorID)
	assert.True(t, created.IsPublished)
	assert.False(t, created.PubDate.Before(before))
	assert.False(t, created.PubDate.After(time.Now().UTC()))
}

func TestPostService_Create_FuturePubDateAccepted(t *testing.T) {
	t.Parallel()

	var created *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}

	future := time.Now().UTC().Add(72 * time.Hour)
	_, err := newPostService(posts).Create(context.Background(), 7, PostInput{
		Title: "t", Text: "b", PubDate: &future,
	})
	require.NoError(t, err)
	assert.Equal(t, future, created.PubDate)
}

func TestPostService_Get_Visibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hiddenPost := func() *models.Post {
		return &models.Post{
			ID: 5, AuthorID: 7, IsPublished: false,
			PubDate:  time.Now().UTC().Add(-time.Hour),
			Category: &models.Category{ID: 1, IsPublished: true},
		}
	}

	t.Run("owner sees own hidden post", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getEnrichedFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return hiddenPost(), nil
		}
		post, err := newPostService(posts).Get(ctx, 7, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(5), post.ID)
	})

	t.Run("stranger gets not found, never forbidden", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getEnrichedFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return hiddenPost(), nil
		}
		_, err := newPostService(posts).Get(ctx, 8, 5)
		assertNotFoundError(t, err)
	})

	t.Run("anonymous future post is not found", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getEnrichedFn = func(_ context.Context, _ uint) (*models.Post, error) {
			p := hiddenPost()
			p.IsPublished = true
			p.PubDate = time.Now().UTC().Add(24 * time.Hour)
			return p, nil
		}
		_, err := newPostService(posts).Get(ctx, 0, 5)
		assertNotFoundError(t, err)
	})
}

func TestPostService_Update_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	posts := noopPostRepo()
	posts.getEnrichedFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 7, IsPublished: true,
			PubDate:  time.Now().UTC().Add(-time.Hour),
			Category: &models.Category{ID: 1, IsPublished: true}}, nil
	}

	_, err := newPostService(posts).Update(ctx, 8, 5, PostInput{Title: "t", Text: "b"})
	assertUnauthorizedError(t, err)

	_, err = newPostService(posts).Update(ctx, 7, 5, PostInput{Title: "t", Text: "b"})
	require.NoError(t, err)
}

func TestPostService_Update_AbsentFieldsRetained(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	catID, locID := uint(3), uint(4)
	pub := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	var saved *models.Post
	posts := noopPostRepo()
	posts.getEnrichedFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{
			ID: id, AuthorID: 7, Title: "old", Text: "old",
			CategoryID: &catID, LocationID: &locID,
			PubDate: pub, IsPublished: false,
			Category: &models.Category{ID: catID, IsPublished: true},
		}, nil
	}
	posts.updateFn = func(_ context.Context, p *models.Post) error {
		saved = p
		return nil
	}

	_, err := newPostService(posts).Update(ctx, 7, 5, PostInput{Title: "new", Text: "new"})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "new", saved.Title)
	require.NotNil(t, saved.CategoryID)
	assert.Equal(t, catID, *saved.CategoryID)
	require.NotNil(t, saved.LocationID)
	assert.Equal(t, locID, *saved.LocationID)
	assert.Equal(t, pub, saved.PubDate)
	assert.False(t, saved.IsPublished)
}

func TestPostService_Delete_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	deleted := false
	posts := noopPostRepo()
	posts.getEnrichedFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 7}, nil
	}
	posts.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	svc := newPostService(posts)

	err := svc.Delete(ctx, 8, 5)
	assertUnauthorizedError(t, err)
	assert.False(t, deleted)

	require.NoError(t, svc.Delete(ctx, 7, 5))
	assert.True(t, deleted)
}

func TestPostService_ListByAuthor_OwnerCheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotOnlyVisible bool
	posts := noopPostRepo()
	posts.listByAuthorFn = func(_ context.Context, _ uint, onlyVisible bool, _, _ int) ([]*models.Post, error) {
		gotOnlyVisible = onlyVisible
		return nil, nil
	}
	svc := newPostService(posts)

	_, err := svc.ListByAuthor(ctx, 7, 7, 10, 0)
	require.NoError(t, err)
	assert.False(t, gotOnlyVisible, "owners see all their posts")

	_, err = svc.ListByAuthor(ctx, 8, 7, 10, 0)
	require.NoError(t, err)
	assert.True(t, gotOnlyVisible, "strangers see the visible subset")

	_, err = svc.ListByAuthor(ctx, 0, 7, 10, 0)
	require.NoError(t, err)
	assert.True(t, gotOnlyVisible, "anonymous viewers see the visible subset")
}

func TestPostService_ListByCategory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unpublished category is not found", func(t *testing.T) {
		t.Parallel()
		categories := noopCategoryRepo()
		categories.getBySlugFn = func(_ context.Context, slug string) (*models.Category, error) {
			return &models.Category{ID: 1, Slug: slug, IsPublished: false}, nil
		}
		svc := NewPostService(noopPostRepo(), categories, noopLocationRepo())
		_, _, err := svc.ListByCategory(ctx, "secret", 10, 0)
		assertNotFoundError(t, err)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("boom")
		categories := noopCategoryRepo()
		categories.getBySlugFn = func(_ context.Context, _ string) (*models.Category, error) {
			return nil, repoErr
		}
		svc := NewPostService(noopPostRepo(), categories, noopLocationRepo())
		_, _, err := svc.ListByCategory(ctx, "travel", 10, 0)
		assert.ErrorIs(t, err, repoErr)
	})
}
