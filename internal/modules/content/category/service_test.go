package category

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quillspace/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
		&models.CategoryModel{},
		&models.LocationModel{},
		&models.PostModel{},
		&models.CommentModel{},
	))
	return db
}

func TestCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	cat, err := svc.Create(&CreateCategoryDTO{Title: "Travel", Slug: "travel"})
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.True(t, cat.IsPublished)
	assert.NotEmpty(t, cat.ID)

	hidden := false
	cat, err = svc.Create(&CreateCategoryDTO{Title: "Drafts", Slug: "drafts", IsPublished: &hidden})
	require.NoError(t, err)
	assert.False(t, cat.IsPublished)
}

func TestCreateSlugValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	for _, slug := range []string{"has space", "ümlaut", "a/b", ""} {
		_, err := svc.Create(&CreateCategoryDTO{Title: "x", Slug: slug})
		assert.ErrorIs(t, err, errSlugInvalid, "slug %q", slug)
	}

	_, err := svc.Create(&CreateCategoryDTO{Title: "x", Slug: "ok_slug-1"})
	require.NoError(t, err)

	_, err = svc.Create(&CreateCategoryDTO{Title: "y", Slug: "ok_slug-1"})
	assert.ErrorIs(t, err, errSlugTaken)
}

func TestListIncludesUnpublished(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	hidden := false
	_, err := svc.Create(&CreateCategoryDTO{Title: "B", Slug: "b"})
	require.NoError(t, err)
	_, err = svc.Create(&CreateCategoryDTO{Title: "A", Slug: "a", IsPublished: &hidden})
	require.NoError(t, err)

	cats, err := svc.List()
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "A", cats[0].Title)
	assert.Equal(t, "B", cats[1].Title)
}

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	cat, err := svc.Create(&CreateCategoryDTO{Title: "Travel", Slug: "travel"})
	require.NoError(t, err)

	hidden := false
	title := "Journeys"
	_, err = svc.Update(cat.ID, &UpdateCategoryDTO{Title: &title, IsPublished: &hidden})
	require.NoError(t, err)

	got, err := svc.GetByID(cat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Journeys", got.Title)
	assert.Equal(t, "travel", got.Slug)
	assert.False(t, got.IsPublished)

	bad := "no spaces allowed!"
	_, err = svc.Update(cat.ID, &UpdateCategoryDTO{Slug: &bad})
	assert.ErrorIs(t, err, errSlugInvalid)
}

func TestDeleteNullifiesPosts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	u := &models.UserModel{Username: "alice", Password: "x"}
	require.NoError(t, db.Create(u).Error)

	cat, err := svc.Create(&CreateCategoryDTO{Title: "Travel", Slug: "travel"})
	require.NoError(t, err)

	p := &models.PostModel{Title: "tagged", Text: "body", PubDate: time.Now(), AuthorID: u.ID, CategoryID: &cat.ID}
	p.IsPublished = true
	require.NoError(t, db.Create(p).Error)

	require.NoError(t, svc.Delete(cat.ID))

	got, err := svc.GetByID(cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var stored models.PostModel
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Nil(t, stored.CategoryID)
}
