package services

import (
	"path/filepath"
	"testing"

	"inkpress/internal/db"
	"inkpress/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database. MaxOpenConns(1) serializes
// concurrent callers on one connection, like a single pooled connection in
// production, so concurrency tests exercise the transactional logic rather
// than SQLite's file locking.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB) *models.User {
	t.Helper()
	user := models.User{Username: "ada", Email: "ada@example.com", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedPost(t *testing.T, gdb *gorm.DB, title string) *models.Post {
	t.Helper()
	user := models.User{Username: "author-" + title, Email: title + "@example.com", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed author: %v", err)
	}
	post := models.Post{Title: title, Slug: Slugify(title), AuthorID: user.ID}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return &post
}

// ledgerCounts recounts the ledger directly, independent of the service,
// for checking the counters-match-ledger invariant.
func ledgerCounts(t *testing.T, gdb *gorm.DB, postID uint) Counts {
	t.Helper()
	var like, dislike, share int64
	if err := gdb.Model(&models.Interaction{}).Where("post_id = ? AND \"like\" = ?", postID, true).Count(&like).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if err := gdb.Model(&models.Interaction{}).Where("post_id = ? AND dislike = ?", postID, true).Count(&dislike).Error; err != nil {
		t.Fatalf("count dislikes: %v", err)
	}
	if err := gdb.Model(&models.Interaction{}).Where("post_id = ? AND share = ?", postID, true).Count(&share).Error; err != nil {
		t.Fatalf("count shares: %v", err)
	}
	return Counts{Like: int(like), Dislike: int(dislike), Share: int(share)}
}

func storedCounts(t *testing.T, gdb *gorm.DB, postID uint) Counts {
	t.Helper()
	var post models.Post
	if err := gdb.First(&post, postID).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}
	return Counts{Like: post.LikeCount, Dislike: post.DislikeCount, Share: post.ShareCount}
}

// assertConsistent fails unless the denormalized counters equal a fresh
// ledger recount.
func assertConsistent(t *testing.T, gdb *gorm.DB, postID uint) {
	t.Helper()
	stored := storedCounts(t, gdb, postID)
	ledger := ledgerCounts(t, gdb, postID)
	if stored != ledger {
		t.Fatalf("counters diverged from ledger: stored %+v, ledger %+v", stored, ledger)
	}
}
