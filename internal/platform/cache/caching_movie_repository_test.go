package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"watchlist/internal/feature/movie/domain/entity"
	"watchlist/internal/feature/movie/usecase"
)

// mockMovieRepository is a test double for MovieRepository.
type mockMovieRepository struct {
	listFn     func(ctx context.Context) ([]entity.Movie, error)
	findByIDFn func(ctx context.Context, id uint) (*entity.Movie, error)
	createFn   func(ctx context.Context, m *entity.Movie) error
	updateFn   func(ctx context.Context, m *entity.Movie) error
	deleteFn   func(ctx context.Context, id uint) error
}

func (m *mockMovieRepository) List(ctx context.Context) ([]entity.Movie, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockMovieRepository) FindByID(ctx context.Context, id uint) (*entity.Movie, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, usecase.ErrMovieNotFound
}

func (m *mockMovieRepository) Create(ctx context.Context, mv *entity.Movie) error {
	if m.createFn != nil {
		return m.createFn(ctx, mv)
	}
	return nil
}

func (m *mockMovieRepository) Update(ctx context.Context, mv *entity.Movie) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, mv)
	}
	return nil
}

func (m *mockMovieRepository) Delete(ctx context.Context, id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

var sampleMovies = []entity.Movie{
	{ID: 1, Title: "My Neighbor Totoro", Year: "1988"},
	{ID: 2, Title: "Dead Poets Society", Year: "1989"},
}

// TestNewCachingMovieRepository_Defaults verifies default TTL and namespace.
func TestNewCachingMovieRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "movies"},
		{"negative ttl uses default", -time.Minute, "", 5 * time.Minute, "movies"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingMovieRepository(nil, tt.ttl, &mockMovieRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingMovieRepository_NilRedis verifies every call passes straight through without Redis.
func TestCachingMovieRepository_NilRedis(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mockMovieRepository{
		listFn: func(ctx context.Context) ([]entity.Movie, error) {
			calls++
			return sampleMovies, nil
		},
		createFn: func(ctx context.Context, m *entity.Movie) error {
			calls++
			return nil
		},
	}

	repo := NewCachingMovieRepository(nil, 5*time.Minute, inner, "movies")

	movies, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("expected 2 movies, got %d", len(movies))
	}
	if err := repo.Create(context.Background(), &entity.Movie{Title: "x", Year: "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", calls)
	}
}

// TestCachingMovieRepository_List_CacheHit verifies a hit never reaches the database.
func TestCachingMovieRepository_List_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, _ := json.Marshal(sampleMovies)
	mock.ExpectGet("movies:gen").SetVal("3")
	mock.ExpectGet("movies:g3:list").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockMovieRepository{
		listFn: func(ctx context.Context) ([]entity.Movie, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingMovieRepository(rdb, 5*time.Minute, inner, "movies")
	movies, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(movies) != 2 || movies[1].Title != "Dead Poets Society" {
		t.Errorf("unexpected movies: %+v", movies)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMovieRepository_List_CacheMiss verifies a miss loads from the database and fills the cache.
func TestCachingMovieRepository_List_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleMovies)
	mock.ExpectGet("movies:gen").RedisNil()
	mock.ExpectGet("movies:g0:list").RedisNil()
	mock.ExpectSet("movies:g0:list", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockMovieRepository{
		listFn: func(ctx context.Context) ([]entity.Movie, error) {
			return sampleMovies, nil
		},
	}

	repo := NewCachingMovieRepository(rdb, 5*time.Minute, inner, "movies")
	movies, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("expected 2 movies, got %d", len(movies))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMovieRepository_List_InnerError verifies database errors are propagated.
func TestCachingMovieRepository_List_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("movies:gen").RedisNil()
	mock.ExpectGet("movies:g0:list").RedisNil()

	inner := &mockMovieRepository{
		listFn: func(ctx context.Context) ([]entity.Movie, error) {
			return nil, expectedErr
		},
	}

	repo := NewCachingMovieRepository(rdb, 5*time.Minute, inner, "movies")
	_, err := repo.List(context.Background())

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingMovieRepository_List_RedisDown verifies cache failures never fail a read.
func TestCachingMovieRepository_List_RedisDown(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("movies:gen").SetErr(errors.New("connection refused"))

	inner := &mockMovieRepository{
		listFn: func(ctx context.Context) ([]entity.Movie, error) {
			return sampleMovies, nil
		},
	}

	repo := NewCachingMovieRepository(rdb, 5*time.Minute, inner, "movies")
	movies, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("expected 2 movies, got %d", len(movies))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("cache must be bypassed when the generation is unreadable: %v", err)
	}
}

// TestCachingMovieRepository_FindByID_CorruptedCache verifies a corrupted entry is dropped and reloaded.
func TestCachingMovieRepository_FindByID_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := sampleMovies[0]
	expectedJSON, _ := json.Marshal(&expected)

	mock.ExpectGet("movies:gen").SetVal("2")
	mock.ExpectGet("movies:g2:id:1").SetVal("invalid json")
	mock.ExpectDel("movies:g2:id:1").SetVal(1)
	mock.ExpectSet("movies:g2:id:1", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockMovieRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.Movie, error) {
			m := expected
			return &m, nil
		},
	}

	repo := NewCachingMovieRepository(rdb, 5*time.Minute, inner, "movies")
	movie, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movie.Title != expected.Title {
		t.Errorf("expected %q, got %q", expected.Title, movie.Title)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMovieRepository_FindByID_NotFound verifies misses are not cached.
func TestCachingMovieRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("movies:gen").RedisNil()
	mock.ExpectGet("movies:g0:id:42").RedisNil()

	repo := NewCachingMovieRepository(rdb, 5*time.Minute, &mockMovieRepository{}, "movies")
	_, err := repo.FindByID(context.Background(), 42)

	if !errors.Is(err, usecase.ErrMovieNotFound) {
		t.Errorf("expected ErrMovieNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMovieRepository_Writes_Invalidate verifies every successful write bumps the generation.
func TestCachingMovieRepository_Writes_Invalidate(t *testing.T) {
	t.Parallel()

	writes := map[string]func(repo *CachingMovieRepository) error{
		"create": func(repo *CachingMovieRepository) error {
			return repo.Create(context.Background(), &entity.Movie{Title: "New Movie", Year: "2019"})
		},
		"update": func(repo *CachingMovieRepository) error {
			return repo.Update(context.Background(), &entity.Movie{ID: 1, Title: "Edited", Year: "2019"})
		},
		"delete": func(repo *CachingMovieRepository) error {
			return repo.Delete(context.Background(), 1)
		},
	}

	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rdb, mock := redismock.NewClientMock()
			defer func() { _ = rdb.Close() }()

			mock.ExpectIncr("movies:gen").SetVal(1)

			repo := NewCachingMovieRepository(rdb, 5*time.Minute, &mockMovieRepository{}, "movies")
			if err := write(repo); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled mock expectations: %v", err)
			}
		})
	}
}

// TestCachingMovieRepository_Writes_InnerError verifies failed writes leave the cache alone.
func TestCachingMovieRepository_Writes_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockMovieRepository{
		updateFn: func(ctx context.Context, m *entity.Movie) error { return usecase.ErrMovieNotFound },
		deleteFn: func(ctx context.Context, id uint) error { return usecase.ErrMovieNotFound },
	}

	repo := NewCachingMovieRepository(rdb, 5*time.Minute, inner, "movies")
	if err := repo.Update(context.Background(), &entity.Movie{ID: 9}); !errors.Is(err, usecase.ErrMovieNotFound) {
		t.Errorf("expected ErrMovieNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), 9); !errors.Is(err, usecase.ErrMovieNotFound) {
		t.Errorf("expected ErrMovieNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis commands: %v", err)
	}
}

// TestCachingMovieRepository_Invalidate_ScanPages verifies that when the generation
// cannot be bumped, every SCAN page of cached entries is deleted.
func TestCachingMovieRepository_Invalidate_ScanPages(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr("movies:gen").SetErr(errors.New("READONLY"))
	mock.ExpectScan(0, "movies:g[0-9]*", 200).SetVal([]string{"movies:g4:list"}, 17)
	mock.ExpectDel("movies:g4:list").SetVal(1)
	mock.ExpectScan(17, "movies:g[0-9]*", 200).SetVal([]string{"movies:g4:id:3"}, 0)
	mock.ExpectDel("movies:g4:id:3").SetVal(1)

	repo := NewCachingMovieRepository(rdb, 5*time.Minute, &mockMovieRepository{}, "movies")
	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestSafe verifies characters that are problematic in Redis keys are escaped.
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"movies", "movies"},
		{"my movies", "my_movies"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if result := safe(tt.input); result != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
