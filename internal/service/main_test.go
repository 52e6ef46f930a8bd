package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/leon37/ReceiptLedger/internal/infrastructure/database"
	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个全新的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory database")

	// 内存库只能有一个连接，多开会各看各的空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Entities...))
	return db
}

var testUserSeq int

// createTestUser 直接落库造一个用户，绕开注册流程的副作用
func createTestUser(t *testing.T, db *gorm.DB, firstName string) *model.User {
	t.Helper()
	testUserSeq++

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username:  fmt.Sprintf("user%d_%s", testUserSeq, firstName),
		Email:     fmt.Sprintf("user%d@example.com", testUserSeq),
		Password:  string(hash),
		FirstName: firstName,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}
