package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"watchlist/internal/config"
	authentity "watchlist/internal/feature/auth/domain/entity"
	movieentity "watchlist/internal/feature/movie/domain/entity"
	"watchlist/internal/platform/db"
)

func setupApp(t *testing.T, stdin string) (*App, *bytes.Buffer) {
	t.Helper()

	gdb, err := db.Open(db.Target{Driver: db.DriverSQLite, DSN: filepath.Join(t.TempDir(), "cli.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	out := &bytes.Buffer{}
	return &App{
		Config: config.Config{SessionTTL: time.Hour, CacheTTL: time.Minute},
		DB:     gdb,
		In:     strings.NewReader(stdin),
		Out:    out,
	}, out
}

// stubPasswords makes readPassword return answers in order.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	prev := readPassword
	t.Cleanup(func() { readPassword = prev })
	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}
}

func owner(t *testing.T, gdb *gorm.DB) authentity.User {
	t.Helper()
	var u authentity.User
	require.NoError(t, gdb.First(&u).Error)
	return u
}

func TestInitDB(t *testing.T) {
	app, out := setupApp(t, "")

	require.NoError(t, app.Run(context.Background(), []string{"initdb"}))
	assert.Contains(t, out.String(), "Initialized database.")
	assert.NotContains(t, out.String(), "Drop data...")
	assert.True(t, app.DB.Migrator().HasTable(&movieentity.Movie{}))

	require.NoError(t, app.DB.Create(&movieentity.Movie{Title: "Leon", Year: "1994"}).Error)

	out.Reset()
	require.NoError(t, app.Run(context.Background(), []string{"initdb", "--drop"}))
	assert.Contains(t, out.String(), "Drop data...\ndone.\nInitialized database.")

	var count int64
	app.DB.Model(&movieentity.Movie{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestForge(t *testing.T) {
	app, out := setupApp(t, "")

	require.NoError(t, app.Run(context.Background(), []string{"forge"}))
	assert.Contains(t, out.String(), "Made data.")

	var count int64
	app.DB.Model(&movieentity.Movie{}).Count(&count)
	assert.Equal(t, int64(len(forgeMovies)), count)

	u := owner(t, app.DB)
	assert.Equal(t, "Murphian Xiao", u.Name)
	assert.Equal(t, authentity.OwnerID, u.ID)
	assert.Empty(t, u.PasswordHash)
}

func TestForge_RollsBackOnFailure(t *testing.T) {
	app, out := setupApp(t, "")
	require.NoError(t, db.Migrate(app.DB))

	err := app.DB.Callback().Create().Before("gorm:create").Register("fail_on_leon", func(tx *gorm.DB) {
		if m, ok := tx.Statement.Dest.(*movieentity.Movie); ok && m.Title == "Leon" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"forge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Leon")
	assert.NotContains(t, out.String(), "Made data.")

	var movies, users int64
	app.DB.Model(&movieentity.Movie{}).Count(&movies)
	app.DB.Model(&authentity.User{}).Count(&users)
	assert.Equal(t, int64(0), movies, "earlier movies must be rolled back")
	assert.Equal(t, int64(0), users, "owner must be rolled back")
}

func TestAdmin_RejectsOverlongValues(t *testing.T) {
	app, out := setupApp(t, "")

	err := app.Run(context.Background(), []string{"admin", "--username", strings.Repeat("u", 21), "--password", "123"})
	require.Error(t, err)
	assert.NotContains(t, out.String(), "Done.")

	err = app.Run(context.Background(), []string{"admin", "--username", "test", "--password", "123", "--name", strings.Repeat("n", 21)})
	require.Error(t, err)

	var count int64
	app.DB.Model(&authentity.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAdmin(t *testing.T) {
	app, out := setupApp(t, "")

	err := app.Run(context.Background(), []string{"admin", "--username", "testname", "--password", "123"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Creating administrator...")
	assert.Contains(t, out.String(), "Done.")

	var count int64
	app.DB.Model(&authentity.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
	u := owner(t, app.DB)
	assert.Equal(t, "testname", u.UserName)
	assert.True(t, u.ValidatePassword("123"))

	out.Reset()
	err = app.Run(context.Background(), []string{"admin", "--username", "test_admin_update", "--password", "456"})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Creating administrator...")
	assert.Contains(t, out.String(), "Done.")

	app.DB.Model(&authentity.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
	u = owner(t, app.DB)
	assert.Equal(t, "test_admin_update", u.UserName)
	assert.True(t, u.ValidatePassword("456"))
	assert.False(t, u.ValidatePassword("123"))
}

func TestAdmin_AfterForgeKeepsName(t *testing.T) {
	app, out := setupApp(t, "")
	require.NoError(t, app.Run(context.Background(), []string{"forge"}))

	out.Reset()
	require.NoError(t, app.Run(context.Background(), []string{"admin", "--username", "owner", "--password", "pw"}))
	assert.NotContains(t, out.String(), "Creating administrator...")

	u := owner(t, app.DB)
	assert.Equal(t, "Murphian Xiao", u.Name)
	assert.True(t, u.ValidatePassword("pw"))
}

func TestAdmin_Interactive(t *testing.T) {
	t.Run("prompts for missing values", func(t *testing.T) {
		app, out := setupApp(t, "prompted\n")
		stubPasswords(t, "secret", "secret")

		require.NoError(t, app.Run(context.Background(), []string{"admin", "--name", "Prompted"}))
		assert.Contains(t, out.String(), "Username: ")
		assert.Contains(t, out.String(), "Repeat for confirmation: ")

		u := owner(t, app.DB)
		assert.Equal(t, "prompted", u.UserName)
		assert.Equal(t, "Prompted", u.Name)
		assert.True(t, u.ValidatePassword("secret"))
	})

	t.Run("mismatched passwords", func(t *testing.T) {
		app, _ := setupApp(t, "")
		stubPasswords(t, "one", "two")

		err := app.Run(context.Background(), []string{"admin", "--username", "u"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "do not match")

		var count int64
		app.DB.Model(&authentity.User{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("empty password", func(t *testing.T) {
		app, _ := setupApp(t, "")
		stubPasswords(t, "", "")

		err := app.Run(context.Background(), []string{"admin", "--username", "u"})
		require.Error(t, err)
	})
}

func TestRun_UnknownSubcommand(t *testing.T) {
	app, out := setupApp(t, "")

	assert.Error(t, app.Run(context.Background(), nil))
	assert.Error(t, app.Run(context.Background(), []string{"serve"}))
	assert.NoError(t, app.Run(context.Background(), []string{"help"}))
	assert.Contains(t, out.String(), "watchlist <initdb|forge|admin>")
}
