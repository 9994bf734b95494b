package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gazette/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetPost_FuturePostHiddenFromStrangers(t *testing.T) {
	app, s, db := newTestServer(t)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	category := createTestCategory(t, db, "travel", true)
	post := createTestPost(t, db, owner, category, func(p *models.Post) {
		p.PubDate = time.Now().UTC().Add(48 * time.Hour)
	})

	// Anonymous: not found, not forbidden.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, postDetailPath(post.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Another authenticated user: still not found.
	req := httptest.NewRequest(http.MethodGet, postDetailPath(post.ID), nil)
	req.Header.Set("Authorization", bearer(t, s, stranger))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The owner sees it.
	req = httptest.NewRequest(http.MethodGet, postDetailPath(post.ID), nil)
	req.Header.Set("Authorization", bearer(t, s, owner))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetFeed_OnlyVisiblePosts(t *testing.T) {
	app, s, db := newTestServer(t)

	owner := createTestUser(t, db, "owner")
	category := createTestCategory(t, db, "travel", true)
	hidden := createTestCategory(t, db, "secret", false)

	visible := createTestPost(t, db, owner, category)
	createTestPost(t, db, owner, category, func(p *models.Post) { p.IsPublished = false })
	createTestPost(t, db, owner, category, func(p *models.Post) {
		p.PubDate = time.Now().UTC().Add(48 * time.Hour)
	})
	createTestPost(t, db, owner, hidden)
	createTestPost(t, db, owner, nil)

	decode := func(resp *http.Response) struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	} {
		t.Helper()
		var body struct {
			Posts []models.Post `json:"posts"`
			Total int64         `json:"total"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(resp)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, visible.ID, body.Posts[0].ID)
	assert.Equal(t, int64(1), body.Total)

	// The feed does not widen for the author: hidden posts stay hidden here.
	req := httptest.NewRequest(http.MethodGet, "/api/posts/", nil)
	req.Header.Set("Authorization", bearer(t, s, owner))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(resp).Posts, 1)
}

func TestCreatePost_RedirectsToProfile(t *testing.T) {
	app, s, db := newTestServer(t)

	owner := createTestUser(t, db, "owner")
	category := createTestCategory(t, db, "travel", true)

	req := jsonRequest(http.MethodPost, "/api/posts/", map[string]any{
		"title":       "fresh",
		"text":        "content",
		"category_id": category.ID,
	})
	req.Header.Set("Authorization", bearer(t, s, owner))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, profilePath("owner"), resp.Header.Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Where("title = ?", "fresh").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreatePost_UnpublishedCategoryRejected(t *testing.T) {
	app, s, db := newTestServer(t)

	owner := createTestUser(t, db, "owner")
	hidden := createTestCategory(t, db, "secret", false)

	req := jsonRequest(http.MethodPost, "/api/posts/", map[string]any{
		"title":       "fresh",
		"text":        "content",
		"category_id": hidden.ID,
	})
	req.Header.Set("Authorization", bearer(t, s, owner))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePost_NonOwnerSoftRedirect(t *testing.T) {
	app, s, db := newTestServer(t)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	category := createTestCategory(t, db, "travel", true)
	post := createTestPost(t, db, owner, category)

	req := jsonRequest(http.MethodPut, postDetailPath(post.ID), map[string]any{
		"title": "hijacked",
		"text":  "content",
	})
	req.Header.Set("Authorization", bearer(t, s, stranger))

	resp, err := app.Test(req)
	require.NoError(t, err)
	// Not 403: the edit page bounces non-owners to the detail view.
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, postDetailPath(post.ID), resp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "a post", reloaded.Title)
}

func TestUpdatePost_OwnerEdits(t *testing.T) {
	app, s, db := newTestServer(t)

	owner := createTestUser(t, db, "owner")
	category := createTestCategory(t, db, "travel", true)
	post := createTestPost(t, db, owner, category)

	req := jsonRequest(http.MethodPut, postDetailPath(post.ID), map[string]any{
		"title":       "updated",
		"text":        "new content",
		"category_id": category.ID,
	})
	req.Header.Set("Authorization", bearer(t, s, owner))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, postDetailPath(post.ID), resp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "updated", reloaded.Title)
}

func TestDeletePost_NonOwnerForbidden(t *testing.T) {
	app, s, db := newTestServer(t)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	category := createTestCategory(t, db, "travel", true)
	post := createTestPost(t, db, owner, category)

	req := httptest.NewRequest(http.MethodDelete, postDetailPath(post.ID), nil)
	req.Header.Set("Authorization", bearer(t, s, stranger))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeletePost_Owner(t *testing.T) {
	app, s, db := newTestServer(t)

	owner := createTestUser(t, db, "owner")
	category := createTestCategory(t, db, "travel", true)
	post := createTestPost(t, db, owner, category)

	req := httptest.NewRequest(http.MethodDelete, postDetailPath(post.ID), nil)
	req.Header.Set("Authorization", bearer(t, s, owner))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, profilePath("owner"), resp.Header.Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMutationsRequireAuth(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/posts/", map[string]any{
		"title": "t", "text": "b",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
