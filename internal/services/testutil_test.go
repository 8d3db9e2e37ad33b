package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/solarrank/backend/internal/database"
	"github.com/emilythestrangee/solarrank/backend/internal/models"
)

// setupDB starts a throwaway postgres container and returns a migrated
// connection. The container is torn down with the test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("solarrank_test"),
		tcpostgres.WithUsername("solarrank"),
		tcpostgres.WithPassword("solarrank"),
		tcpostgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if ctr != nil {
			_ = ctr.Terminate(context.Background())
		}
	})
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func testSessionConfig() SessionConfig {
	return SessionConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    email,
		Password: "not-a-real-hash",
		Role:     "user",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedPost(t *testing.T, db *gorm.DB, authorID int, title string) *models.Post {
	t.Helper()
	post := models.Post{
		UserID: authorID,
		Title:  title,
		Body:   "body of " + title,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func seedComment(t *testing.T, db *gorm.DB, postID, authorID int, body string) *models.Comment {
	t.Helper()
	comment := models.Comment{
		PostID: postID,
		UserID: authorID,
		Body:   body,
	}
	require.NoError(t, db.Create(&comment).Error)
	return &comment
}

func postEnergy(t *testing.T, db *gorm.DB, postID int) int {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, postID).Error)
	return post.Energy
}

func commentEnergy(t *testing.T, db *gorm.DB, commentID int) int {
	t.Helper()
	var comment models.Comment
	require.NoError(t, db.First(&comment, commentID).Error)
	return comment.Energy
}

func userTotalEnergy(t *testing.T, db *gorm.DB, userID int) int {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.TotalEnergy
}

func voteCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&n).Error)
	return n
}
