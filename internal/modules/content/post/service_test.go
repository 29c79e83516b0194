package post

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.UserSession{},
		&models.LocationModel{},
		&models.CategoryModel{},
		&models.PostModel{},
		&models.CommentModel{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.UserModel{Username: username, Name: username, Password: string(hash)}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.CategoryModel {
	t.Helper()
	cat := &models.CategoryModel{Title: slug, Slug: slug}
	cat.IsPublished = published
	require.NoError(t, db.Create(cat).Error)
	return cat
}

type postSeed struct {
	title      string
	authorID   string
	categoryID *string
	locationID *string
	published  bool
	pubDate    time.Time
}

func seedPost(t *testing.T, db *gorm.DB, s postSeed) *models.PostModel {
	t.Helper()
	p := &models.PostModel{
		Title:      s.title,
		Text:       "body of " + s.title,
		PubDate:    s.pubDate,
		AuthorID:   s.authorID,
		CategoryID: s.categoryID,
		LocationID: s.locationID,
	}
	p.IsPublished = s.published
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedComment(t *testing.T, db *gorm.DB, postID, authorID, text string, created time.Time) *models.CommentModel {
	t.Helper()
	cm := &models.CommentModel{Text: text, PostID: postID, AuthorID: authorID}
	cm.CreatedAt = created
	require.NoError(t, db.Create(cm).Error)
	return cm
}

func titlesOf(posts []models.PostModel) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func defaultQuery() pagination.Query {
	return pagination.Query{Page: 1, Size: pagination.DefaultSize}
}

func TestListIndexVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	visibleCat := seedCategory(t, db, "travel", true)
	hiddenCat := seedCategory(t, db, "drafts", false)

	now := time.Now()
	seedPost(t, db, postSeed{title: "old", authorID: author.ID, published: true, pubDate: now.Add(-48 * time.Hour)})
	seedPost(t, db, postSeed{title: "recent", authorID: author.ID, categoryID: &visibleCat.ID, published: true, pubDate: now.Add(-time.Hour)})
	seedPost(t, db, postSeed{title: "unpublished", authorID: author.ID, published: false, pubDate: now.Add(-time.Hour)})
	seedPost(t, db, postSeed{title: "scheduled", authorID: author.ID, published: true, pubDate: now.Add(24 * time.Hour)})
	seedPost(t, db, postSeed{title: "in-hidden-category", authorID: author.ID, categoryID: &hiddenCat.ID, published: true, pubDate: now.Add(-time.Hour)})

	posts, pag, err := svc.ListIndex(defaultQuery())
	require.NoError(t, err)

	assert.Equal(t, []string{"recent", "old"}, titlesOf(posts))
	assert.Equal(t, int64(2), pag.Total)
}

func TestListIndexIncludesBoundaryPubDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")

	// pub_date in the past by a moment; the comparison is inclusive of
	// anything at or before the current instant.
	seedPost(t, db, postSeed{title: "just-now", authorID: author.ID, published: true, pubDate: time.Now().Add(-time.Millisecond)})

	posts, _, err := svc.ListIndex(defaultQuery())
	require.NoError(t, err)
	assert.Equal(t, []string{"just-now"}, titlesOf(posts))
}

func TestListIndexCommentCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	reader := seedUser(t, db, "bob")

	now := time.Now()
	commented := seedPost(t, db, postSeed{title: "commented", authorID: author.ID, published: true, pubDate: now.Add(-2 * time.Hour)})
	quiet := seedPost(t, db, postSeed{title: "quiet", authorID: author.ID, published: true, pubDate: now.Add(-time.Hour)})

	seedComment(t, db, commented.ID, reader.ID, "first", now.Add(-time.Hour))
	seedComment(t, db, commented.ID, author.ID, "second", now.Add(-30*time.Minute))

	posts, _, err := svc.ListIndex(defaultQuery())
	require.NoError(t, err)
	require.Equal(t, []string{"quiet", "commented"}, titlesOf(posts))
	assert.Equal(t, int64(0), posts[0].CommentCount)
	assert.Equal(t, int64(2), posts[1].CommentCount)
	assert.Equal(t, quiet.ID, posts[0].ID)
}

func TestListIndexPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")

	now := time.Now()
	for i := 0; i < 13; i++ {
		seedPost(t, db, postSeed{
			title:     fmt.Sprintf("post-%02d", i),
			authorID:  author.ID,
			published: true,
			pubDate:   now.Add(-time.Duration(i+1) * time.Hour),
		})
	}

	posts, pag, err := svc.ListIndex(pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 10)
	assert.Equal(t, int64(13), pag.Total)
	assert.Equal(t, 2, pag.TotalPage)
	assert.True(t, pag.HasNextPage)

	posts, pag, err = svc.ListIndex(pagination.Query{Page: 2, Size: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.False(t, pag.HasNextPage)
}

func TestListByAuthorIncludesHiddenPosts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")

	now := time.Now()
	seedPost(t, db, postSeed{title: "visible", authorID: author.ID, published: true, pubDate: now.Add(-time.Hour)})
	seedPost(t, db, postSeed{title: "unpublished", authorID: author.ID, published: false, pubDate: now.Add(-time.Hour)})
	seedPost(t, db, postSeed{title: "scheduled", authorID: author.ID, published: true, pubDate: now.Add(time.Hour)})
	seedPost(t, db, postSeed{title: "not-hers", authorID: other.ID, published: true, pubDate: now.Add(-time.Hour)})

	u, posts, pag, err := svc.ListByAuthor("alice", defaultQuery())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, author.ID, u.ID)
	assert.Equal(t, int64(3), pag.Total)
	assert.ElementsMatch(t, []string{"visible", "unpublished", "scheduled"}, titlesOf(posts))
}

func TestListByAuthorUnknownUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	u, posts, _, err := svc.ListByAuthor("ghost", defaultQuery())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Nil(t, posts)
}

func TestListByCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "travel", true)

	now := time.Now()
	seedPost(t, db, postSeed{title: "in-cat", authorID: author.ID, categoryID: &cat.ID, published: true, pubDate: now.Add(-time.Hour)})
	seedPost(t, db, postSeed{title: "unpublished-in-cat", authorID: author.ID, categoryID: &cat.ID, published: false, pubDate: now.Add(-time.Hour)})
	seedPost(t, db, postSeed{title: "scheduled-in-cat", authorID: author.ID, categoryID: &cat.ID, published: true, pubDate: now.Add(time.Hour)})
	seedPost(t, db, postSeed{title: "elsewhere", authorID: author.ID, published: true, pubDate: now.Add(-time.Hour)})

	got, posts, _, err := svc.ListByCategory("travel", defaultQuery())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cat.ID, got.ID)
	assert.Equal(t, []string{"in-cat"}, titlesOf(posts))
}

func TestListByCategoryHiddenSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	seedCategory(t, db, "secret", false)

	got, _, _, err := svc.ListByCategory("secret", defaultQuery())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, _, _, err = svc.ListByCategory("missing", defaultQuery())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetDetailAuthorSeesHiddenPost(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "bob")

	hidden := seedPost(t, db, postSeed{title: "draft", authorID: author.ID, published: false, pubDate: time.Now().Add(-time.Hour)})

	got, err := svc.GetDetail(hidden.ID, author.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "draft", got.Title)

	got, err = svc.GetDetail(hidden.ID, stranger.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetDetail(hidden.ID, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetDetailScheduledPost(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "bob")

	scheduled := seedPost(t, db, postSeed{title: "tomorrow", authorID: author.ID, published: true, pubDate: time.Now().Add(24 * time.Hour)})

	got, err := svc.GetDetail(scheduled.ID, stranger.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetDetail(scheduled.ID, author.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestGetDetailHiddenCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	hiddenCat := seedCategory(t, db, "drafts", false)

	p := seedPost(t, db, postSeed{title: "stuck", authorID: author.ID, categoryID: &hiddenCat.ID, published: true, pubDate: time.Now().Add(-time.Hour)})

	got, err := svc.GetDetail(p.ID, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetDetail(p.ID, author.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestGetDetailCommentsChronological(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	reader := seedUser(t, db, "bob")

	now := time.Now()
	p := seedPost(t, db, postSeed{title: "thread", authorID: author.ID, published: true, pubDate: now.Add(-2 * time.Hour)})
	seedComment(t, db, p.ID, reader.ID, "newest", now.Add(-5*time.Minute))
	seedComment(t, db, p.ID, author.ID, "oldest", now.Add(-time.Hour))
	seedComment(t, db, p.ID, reader.ID, "middle", now.Add(-30*time.Minute))

	got, err := svc.GetDetail(p.ID, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Comments, 3)
	assert.Equal(t, "oldest", got.Comments[0].Text)
	assert.Equal(t, "middle", got.Comments[1].Text)
	assert.Equal(t, "newest", got.Comments[2].Text)
	assert.Equal(t, int64(3), got.CommentCount)
	require.NotNil(t, got.Comments[0].Author)
	assert.Equal(t, "alice", got.Comments[0].Author.Username)
}

func TestGetDetailMissingPost(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	got, err := svc.GetDetail(uuid.NewString(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")

	before := time.Now()
	p, err := svc.Create(&CreatePostDTO{Title: "hello", Text: "world"}, author.ID)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.True(t, p.IsPublished)
	assert.Equal(t, author.ID, p.AuthorID)
	assert.False(t, p.PubDate.Before(before.Add(-time.Second)))
	assert.False(t, p.PubDate.After(time.Now().Add(time.Second)))
	assert.Nil(t, p.CategoryID)
	assert.Nil(t, p.LocationID)
}

func TestCreateExplicitUnpublished(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")

	published := false
	p, err := svc.Create(&CreatePostDTO{Title: "draft", Text: "wip", IsPublished: &published}, author.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.IsPublished)

	// Verify the value survived the round trip through the database.
	var stored models.PostModel
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.False(t, stored.IsPublished)
}

func TestCreateUnknownReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")

	missing := uuid.NewString()
	_, err := svc.Create(&CreatePostDTO{Title: "x", Text: "y", CategoryID: &missing}, author.ID)
	assert.ErrorIs(t, err, errCategoryNotFound)

	_, err = svc.Create(&CreatePostDTO{Title: "x", Text: "y", LocationID: &missing}, author.ID)
	assert.ErrorIs(t, err, errLocationNotFound)
}

func TestUpdateClearsReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "travel", true)

	p := seedPost(t, db, postSeed{title: "tagged", authorID: author.ID, categoryID: &cat.ID, published: true, pubDate: time.Now().Add(-time.Hour)})

	empty := ""
	updated, err := svc.Update(p.ID, &UpdatePostDTO{CategoryID: &empty})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Nil(t, updated.CategoryID)
}

func TestUpdateChangesCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")
	oldCat := seedCategory(t, db, "travel", true)
	newCat := seedCategory(t, db, "food", true)

	p := seedPost(t, db, postSeed{title: "retagged", authorID: author.ID, categoryID: &oldCat.ID, published: true, pubDate: time.Now().Add(-time.Hour)})

	updated, err := svc.Update(p.ID, &UpdatePostDTO{CategoryID: &newCat.ID})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, newCat.ID, *updated.CategoryID)

	var stored models.PostModel
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, newCat.ID, *stored.CategoryID)
}

func TestUpdateUntouchedFieldsSurvive(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")

	p := seedPost(t, db, postSeed{title: "before", authorID: author.ID, published: true, pubDate: time.Now().Add(-time.Hour)})

	title := "after"
	updated, err := svc.Update(p.ID, &UpdatePostDTO{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "body of before", updated.Text)
	assert.Equal(t, author.ID, updated.AuthorID)
}

func TestDeleteRemovesOwnCommentsOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	author := seedUser(t, db, "alice")

	now := time.Now()
	doomed := seedPost(t, db, postSeed{title: "doomed", authorID: author.ID, published: true, pubDate: now.Add(-time.Hour)})
	kept := seedPost(t, db, postSeed{title: "kept", authorID: author.ID, published: true, pubDate: now.Add(-time.Hour)})
	seedComment(t, db, doomed.ID, author.ID, "gone", now)
	seedComment(t, db, kept.ID, author.ID, "stays", now)

	require.NoError(t, svc.Delete(doomed.ID))

	var postCount, commentCount int64
	db.Model(&models.PostModel{}).Count(&postCount)
	db.Model(&models.CommentModel{}).Count(&commentCount)
	assert.Equal(t, int64(1), postCount)
	assert.Equal(t, int64(1), commentCount)

	var remaining models.CommentModel
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, kept.ID, remaining.PostID)
}

func TestUsernameOf(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	u := seedUser(t, db, "alice")

	name, err := svc.UsernameOf(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = svc.UsernameOf(uuid.NewString())
	assert.Error(t, err)
}
