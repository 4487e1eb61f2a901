package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/pkg/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
	))
	return db
}

type testEnv struct {
	db            *gorm.DB
	auth          *AuthService
	users         *UserService
	posts         *PostService
	comments      *CommentService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	log := logger.NewLogger("error")

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	return &testEnv{
		db:            db,
		auth:          NewAuthService(userRepo, nil, nil, nil, log, "http://localhost:3000", ""),
		users:         NewUserService(userRepo, followRepo, notificationRepo, nil, log),
		posts:         NewPostService(postRepo, userRepo, likeRepo, notificationRepo, nil, log, t.TempDir()),
		comments:      NewCommentService(postRepo, commentRepo, likeRepo, notificationRepo, nil, log),
		notifications: NewNotificationService(notificationRepo, log),
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func notificationsFor(t *testing.T, db *gorm.DB, receiverID uuid.UUID) []*models.Notification {
	t.Helper()

	var notifications []*models.Notification
	require.NoError(t, db.Where("receiver_id = ?", receiverID).Find(&notifications).Error)
	return notifications
}
