package comment

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

func seedFixture(t *testing.T, db *gorm.DB) (*models.UserModel, *models.PostModel) {
	t.Helper()
	u := &models.UserModel{Username: "alice", Name: "alice", Password: "x"}
	require.NoError(t, db.Create(u).Error)

	p := &models.PostModel{Title: "post", Text: "body", PubDate: time.Now().Add(-time.Hour), AuthorID: u.ID}
	p.IsPublished = true
	require.NoError(t, db.Create(p).Error)
	return u, p
}

func TestCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	u, p := seedFixture(t, db)

	cm, err := svc.Create(p.ID, u.ID, "nice post")
	require.NoError(t, err)
	require.NotNil(t, cm)
	assert.Equal(t, p.ID, cm.PostID)
	assert.Equal(t, u.ID, cm.AuthorID)
	assert.Equal(t, "nice post", cm.Text)
	assert.NotEmpty(t, cm.ID)
}

func TestCreateMissingPost(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	u, _ := seedFixture(t, db)

	_, err := svc.Create(uuid.NewString(), u.ID, "into the void")
	assert.ErrorIs(t, err, errPostNotFound)
}

func TestListForPostChronological(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	u, p := seedFixture(t, db)

	now := time.Now()
	for i, spec := range []struct {
		text string
		age  time.Duration
	}{
		{"third", 10 * time.Minute},
		{"first", time.Hour},
		{"second", 30 * time.Minute},
	} {
		cm := &models.CommentModel{Text: spec.text, PostID: p.ID, AuthorID: u.ID}
		cm.CreatedAt = now.Add(-spec.age)
		require.NoError(t, db.Create(cm).Error, "comment %d", i)
	}

	comments, err := svc.ListForPost(p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "third", comments[2].Text)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "alice", comments[0].Author.Username)
}

func TestUpdateOnlyChangesText(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	u, p := seedFixture(t, db)

	cm, err := svc.Create(p.ID, u.ID, "original")
	require.NoError(t, err)

	updated, err := svc.Update(cm.ID, "edited")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, p.ID, updated.PostID)
	assert.Equal(t, u.ID, updated.AuthorID)
}

func TestUpdateMissingComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	updated, err := svc.Update(uuid.NewString(), "edited")
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	u, p := seedFixture(t, db)

	cm, err := svc.Create(p.ID, u.ID, "soon gone")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(cm.ID))

	got, err := svc.GetByID(cm.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The post itself is untouched.
	var count int64
	db.Model(&models.PostModel{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
