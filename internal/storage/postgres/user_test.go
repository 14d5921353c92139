package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"auth-backend/internal/models"
	"auth-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Файл интеграционных тестов для пакета postgres (репозиторий user.go):
// - поднимает реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяет миграции из ./migrations (1_init_users.up.sql);
// - проверяет happy-path, уникальность email (CITEXT, регистронезависимо),
//   частичное обновление профиля и смену пароля;
// - валидирует сценарии отсутствия записей (storage.ErrNotFound).
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
// Используется для поиска SQL-миграций в каталоге ./migrations независимо от текущего рабочего каталога.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает временный экземпляр PostgreSQL через testcontainers-go,
// применяет миграцию users и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// применяем миграции.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init_users.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// seedUser — создаёт пользователя с заполненными полями.
func seedUser(t *testing.T, st *Storage, email string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.SaveUser(context.Background(), u))
	return u
}

// TestIntegration_SaveUser_And_GetByEmail_And_ByID_OK — happy-path:
// сохранение пользователя и последующий поиск по email и ID; проверка CITEXT (регистронезависимо) и таймстемпов.
func TestIntegration_SaveUser_And_GetByEmail_And_ByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := seedUser(t, st, "User@Example.Com")

	gotByEmail, err := st.UserByEmail(context.Background(), strings.ToLower(u.Email))
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByEmail.ID)
	require.Equal(t, u.Name, gotByEmail.Name)
	require.Equal(t, models.RoleUser, gotByEmail.Role)
	require.Equal(t, models.StatusActive, gotByEmail.Status)
	require.Nil(t, gotByEmail.LastLogin)
	require.WithinDuration(t, u.CreatedAt, gotByEmail.CreatedAt, time.Second)
	require.WithinDuration(t, u.UpdatedAt, gotByEmail.UpdatedAt, time.Second)

	gotByID, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByID.ID)
}

// TestIntegration_SaveUser_UniqueEmail_CaseInsensitive_Violation — конфликт уникальности по email
// при различии только в регистре, ожидаем storage.ErrAlreadyExists.
func TestIntegration_SaveUser_UniqueEmail_CaseInsensitive_Violation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	seedUser(t, st, "user@example.com")

	now := time.Now().UTC()
	dup := &models.User{
		ID:           uuid.New(),
		Name:         "Another User",
		Email:        "USER@EXAMPLE.COM",
		PasswordHash: "hash2",
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := st.SaveUser(context.Background(), dup)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_UserByEmail_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByEmail(context.Background(), "missing@example.com")
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_UserByID_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_UpdateLastLogin_Flow(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	u := seedUser(t, st, "user@example.com")

	at := time.Now().UTC()
	require.NoError(t, st.UpdateLastLogin(ctx, u.ID, at))

	got, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	require.WithinDuration(t, at, *got.LastLogin, time.Second)
	// Фиксация входа обновляет и updated_at.
	require.WithinDuration(t, at, got.UpdatedAt, time.Second)

	// Несуществующий пользователь.
	err = st.UpdateLastLogin(ctx, uuid.New(), at)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UpdateUser_Partial — частичное обновление: COALESCE оставляет
// незаданные поля нетронутыми.
func TestIntegration_UpdateUser_Partial(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	u := seedUser(t, st, "user@example.com")

	newName := "Renamed User"
	got, err := st.UpdateUser(ctx, u.ID, storage.UserUpdate{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, got.Name)
	require.Equal(t, u.Email, got.Email)
	require.True(t, got.UpdatedAt.After(u.UpdatedAt) || got.UpdatedAt.Equal(u.UpdatedAt))

	newEmail := "renamed@example.com"
	got, err = st.UpdateUser(ctx, u.ID, storage.UserUpdate{Email: &newEmail})
	require.NoError(t, err)
	require.Equal(t, newName, got.Name)
	require.Equal(t, newEmail, got.Email)
}

func TestIntegration_UpdateUser_EmailConflict(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	seedUser(t, st, "taken@example.com")
	u := seedUser(t, st, "user@example.com")

	taken := "Taken@Example.Com"
	_, err := st.UpdateUser(ctx, u.ID, storage.UserUpdate{Email: &taken})
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_UpdateUser_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	name := "Ghost"
	_, err := st.UpdateUser(context.Background(), uuid.New(), storage.UserUpdate{Name: &name})
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_UpdatePassword_Flow(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	u := seedUser(t, st, "user@example.com")

	at := time.Now().UTC()
	require.NoError(t, st.UpdatePassword(ctx, u.ID, "new-hash", at))

	got, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.WithinDuration(t, at, got.UpdatedAt, time.Second)

	// Несуществующий пользователь.
	err = st.UpdatePassword(ctx, uuid.New(), "new-hash", at)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
