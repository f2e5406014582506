package database

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	pgOnce sync.Once
	pgDSN  string
	pgErr  error
)

// setupPostgres starts one PostgreSQL container for the package and returns a
// migrated Database. Set STORE_INTEGRATION=1 to run these tests.
func setupPostgres(t *testing.T) Database {
	t.Helper()
	if os.Getenv("STORE_INTEGRATION") != "1" {
		t.Skip("set STORE_INTEGRATION=1 to run PostgreSQL integration tests")
	}

	pgOnce.Do(func() {
		pgDSN, pgErr = startPostgres()
	})
	require.NoError(t, pgErr)

	db, err := Connect(map[string]string{"DB_TYPE": TypePostgres, "DATABASE_URL": pgDSN})
	require.NoError(t, err)

	store := New(db)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, db.Exec("TRUNCATE votes, projects CASCADE").Error)

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "legit",
				"POSTGRES_PASSWORD": "legit",
				"POSTGRES_DB":       "legit",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("postgres://legit:legit@%s:%s/legit?sslmode=disable", host, port.Port()), nil
}

func TestDatabaseSubmissionQuotaUnderConcurrency(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var created atomic.Int32
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.CreateProject(ctx, newProject("3.3.3.3", time.Now()), allowUpTo(3)); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), created.Load())
	count, err := store.ProjectRepo().CountByIP("3.3.3.3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestDatabaseVoteLifecycle(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()

	project := newProject("1.1.1.1", time.Now())
	require.NoError(t, store.CreateProject(ctx, project, allowUpTo(3)))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.AddVote(ctx, project.ID, "5.5.5.5")
		}()
	}
	wg.Wait()

	found, err := store.FindProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Votes)

	_, err = store.AddVote(ctx, project.ID, "5.5.5.5")
	assert.True(t, errs.IsAlreadyVoted(err))

	cleared, err := store.ClearVotes(ctx, project.ID)
	require.NoError(t, err)
	assert.Zero(t, cleared.Votes)

	voted, err := store.AddVote(ctx, project.ID, "5.5.5.5")
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Votes)

	exists, err := store.VoteRepo().Exists(project.ID, "5.5.5.5")
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := store.DeleteProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, deleted.ID)

	has, err := store.HasVote(ctx, project.ID, "5.5.5.5")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = store.FindProject(ctx, project.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestDatabaseUpdateAndList(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()

	project := newProject("1.1.1.1", time.Now().Add(-time.Hour))
	require.NoError(t, store.CreateProject(ctx, project, allowUpTo(3)))

	updated, err := store.UpdateProject(ctx, project.ID, func(p *models.Project) error {
		p.Approved = true
		p.CreatedByIP = "spoofed"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Approved)
	assert.Equal(t, "1.1.1.1", updated.CreatedByIP)

	approved := true
	list, err := store.ListProjects(ctx, ProjectFilter{Approved: &approved})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, project.ID, list[0].ID)

	_, err = store.UpdateProject(ctx, uuid.New(), func(*models.Project) error { return nil })
	assert.True(t, errs.IsNotFound(err))

	require.NoError(t, store.Ping(ctx))
}
