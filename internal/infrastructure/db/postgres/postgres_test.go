package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
	"github.com/Goodness-MArcel/oasis/internal/core/service"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/db/migrations"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/db/postgres"
)

// setupDB connects to TEST_DATABASE_DSN, migrates and empties every table.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := postgres.Connect(context.Background(), postgres.Config{URL: dsn}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = postgres.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, migrations.Up(sqlDB))

	require.NoError(t, db.Exec(`TRUNCATE users, admins, courses, enrollments, payments, activities, meetings RESTART IDENTITY CASCADE`).Error)
	return db
}

func createUser(t *testing.T, repo *postgres.UserRepository, username, email string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{Username: username, Email: email, PasswordHash: "x", Role: domain.RoleStudent})
	require.NoError(t, err)
	return u
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	db := setupDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "ann", "ann@example.com")

	_, err := repo.Create(ctx, &domain.User{Username: "ann2", Email: "ANN@example.com", PasswordHash: "x", Role: domain.RoleStudent})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = repo.Create(ctx, &domain.User{Username: "ann", Email: "other@example.com", PasswordHash: "x", Role: domain.RoleStudent})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	found, err := repo.FindByEmail(ctx, "Ann@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann", found.Username)
}

func TestUserRepository_ResetTokenLifecycle(t *testing.T) {
	db := setupDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()
	u := createUser(t, repo, "bo", "bo@example.com")

	expires := time.Now().Add(time.Hour)
	u.ResetToken = "tok"
	u.ResetTokenExpires = &expires
	require.NoError(t, repo.Update(ctx, u))

	found, err := repo.FindByResetToken(ctx, "tok", time.Now())
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = repo.FindByResetToken(ctx, "tok", expires.Add(time.Second))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	found.ResetToken = ""
	found.ResetTokenExpires = nil
	require.NoError(t, repo.Update(ctx, found))
	_, err = repo.FindByResetToken(ctx, "tok", time.Now())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ListSearch(t *testing.T) {
	db := setupDB(t)
	repo := postgres.NewUserRepository(db)
	createUser(t, repo, "carol", "carol@example.com")
	createUser(t, repo, "dave", "dave@test.org")
	createUser(t, repo, "erin", "erin@example.com")

	users, total, err := repo.List(context.Background(), ports.ListUsersFilter{Search: "EXAMPLE", Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, "erin", users[0].Username)
}

func TestEnrollmentRepository_DuplicateIsRejected(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := createUser(t, postgres.NewUserRepository(db), "fay", "fay@example.com")
	course := &domain.Course{Title: "Go", Price: 19.99}
	require.NoError(t, postgres.NewCourseRepository(db).Create(ctx, course))

	repo := postgres.NewEnrollmentRepository(db)
	require.NoError(t, repo.Create(ctx, &domain.Enrollment{UserID: u.ID, CourseID: course.ID, Status: domain.EnrollmentEnrolled}))
	err := repo.Create(ctx, &domain.Enrollment{UserID: u.ID, CourseID: course.ID, Status: domain.EnrollmentEnrolled})
	assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)

	rows, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Go", rows[0].Course.Title)
	assert.InDelta(t, 19.99, rows[0].Course.Price, 0.001)
}

func TestEnrollmentRepository_Reactivate(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := createUser(t, postgres.NewUserRepository(db), "gil", "gil@example.com")
	course := &domain.Course{Title: "Rust"}
	require.NoError(t, postgres.NewCourseRepository(db).Create(ctx, course))

	repo := postgres.NewEnrollmentRepository(db)
	require.NoError(t, repo.Create(ctx, &domain.Enrollment{UserID: u.ID, CourseID: course.ID, Status: domain.EnrollmentCancelled, Progress: 35}))

	e := &domain.Enrollment{UserID: u.ID, CourseID: course.ID}
	require.NoError(t, repo.Reactivate(ctx, e))
	assert.Equal(t, domain.EnrollmentEnrolled, e.Status)
	assert.Zero(t, e.Progress)
	assert.NotZero(t, e.ID)

	assert.ErrorIs(t, repo.Reactivate(ctx, &domain.Enrollment{UserID: u.ID, CourseID: course.ID}), domain.ErrAlreadyEnrolled)

	rows, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestStore_CascadingDelete(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(db)
	activities := postgres.NewActivityRepository(db)

	victim := createUser(t, users, "gus", "gus@example.com")
	other := createUser(t, users, "hal", "hal@example.com")
	course := &domain.Course{Title: "SQL"}
	require.NoError(t, postgres.NewCourseRepository(db).Create(ctx, course))
	require.NoError(t, postgres.NewEnrollmentRepository(db).Create(ctx, &domain.Enrollment{UserID: victim.ID, CourseID: course.ID, Status: domain.EnrollmentEnrolled}))
	require.NoError(t, db.Exec(`INSERT INTO payments (user_id, amount) VALUES (?, 10)`, victim.ID).Error)
	for _, u := range []*domain.User{victim, other} {
		require.NoError(t, activities.Create(ctx, &domain.Activity{
			Type:     domain.ActivityUserSignup,
			Metadata: map[string]any{domain.ActivityUserIDKey: u.ID},
		}))
	}

	svc := service.NewUserAdminService(users, postgres.NewPaymentRepository(db), postgres.NewStore(db), nil, nil, zerolog.Nop())
	require.NoError(t, svc.DeleteUser(ctx, victim.ID))

	_, err := users.FindByID(ctx, victim.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	var remaining []struct {
		Type string
	}
	require.NoError(t, db.Table("activities").Select("type").Order("id").Scan(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, string(domain.ActivityUserSignup), remaining[0].Type)
	assert.Equal(t, string(domain.ActivityUserDeleted), remaining[1].Type)

	var payments int64
	require.NoError(t, db.Table("payments").Count(&payments).Error)
	assert.Zero(t, payments)
}

func TestActivityRepository_CreateForUserWaitsForDeletion(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(db)
	activities := postgres.NewActivityRepository(db)
	u := createUser(t, users, "kim", "kim@example.com")

	linked := func() *domain.Activity {
		return &domain.Activity{Type: domain.ActivityEnrollment, Metadata: map[string]any{domain.ActivityUserIDKey: u.ID}}
	}
	require.NoError(t, activities.CreateForUser(ctx, u.ID, linked()))
	assert.ErrorIs(t, activities.CreateForUser(ctx, u.ID+1000, linked()), domain.ErrUserNotFound)

	late := make(chan error, 1)
	err := postgres.NewStore(db).WithTransaction(ctx, func(tx ports.TxRepositories) error {
		if _, err := tx.Users().FindByIDForUpdate(ctx, u.ID); err != nil {
			return err
		}
		go func() { late <- activities.CreateForUser(ctx, u.ID, linked()) }()
		time.Sleep(200 * time.Millisecond)

		if _, err := tx.Activities().DeleteByUser(ctx, u.ID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, u.ID)
	})
	require.NoError(t, err)

	select {
	case err := <-late:
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	case <-time.After(5 * time.Second):
		t.Fatal("CreateForUser did not return after the deletion committed")
	}

	var left int64
	require.NoError(t, db.Table("activities").Count(&left).Error)
	assert.Zero(t, left)
}

func TestStore_RollsBackOnError(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(db)
	u := createUser(t, users, "ida", "ida@example.com")

	err := postgres.NewStore(db).WithTransaction(ctx, func(tx ports.TxRepositories) error {
		if err := tx.Users().Delete(ctx, u.ID); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = users.FindByID(ctx, u.ID)
	assert.NoError(t, err)
}

func TestAnalyticsRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := createUser(t, postgres.NewUserRepository(db), "jo", "jo@example.com")
	courses := postgres.NewCourseRepository(db)
	a := &domain.Course{Title: "A"}
	b := &domain.Course{Title: "B"}
	require.NoError(t, courses.Create(ctx, a))
	require.NoError(t, courses.Create(ctx, b))
	require.NoError(t, postgres.NewEnrollmentRepository(db).Create(ctx, &domain.Enrollment{UserID: u.ID, CourseID: b.ID, Status: domain.EnrollmentCompleted}))

	repo := postgres.NewAnalyticsRepository(db)

	stats, err := repo.CourseEnrollmentStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "A", stats[0].Title)
	assert.Zero(t, stats[0].Total)
	assert.EqualValues(t, 1, stats[1].Completed)

	recent, err := repo.RecentEnrollments(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "B", recent[0].CourseTitle)
	assert.Equal(t, "jo", recent[0].Username)

	times, err := repo.UserSignupTimes(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, times, 1)
}

func TestMeetingRepository_RangeFilter(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgres.NewMeetingRepository(db)
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Meeting{Title: "m", Start: base.AddDate(0, 0, i*7)}))
	}

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 10)
	got, err := repo.List(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Start.Equal(base.AddDate(0, 0, 7)))

	all, err := repo.List(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
