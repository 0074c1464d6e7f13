//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"

	pgstore "github.com/Gunvolt24/orders_sync/internal/store/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v23.3.8"

	// на подъём контейнеров уходит заметно больше, чем на сами тесты
	startTimeout = 2 * time.Minute
)

var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

// lifecycleLog — по строке лога на каждый этап жизни контейнера.
func lifecycleLog(l *log.Logger) tc.ContainerLifecycleHooks {
	stage := func(name string) []tc.ContainerHook {
		return []tc.ContainerHook{func(_ context.Context, c tc.Container) error {
			id := c.GetContainerID()
			if len(id) > 12 {
				id = id[:12]
			}
			l.Printf("%s id=%s", name, id)
			return nil
		}}
	}
	return tc.ContainerLifecycleHooks{
		PreCreates: []tc.ContainerRequestHook{func(_ context.Context, req tc.ContainerRequest) error {
			l.Printf("creating image=%s", req.Image)
			return nil
		}},
		PostStarts:     stage("started"),
		PostReadies:    stage("ready"),
		PostTerminates: stage("terminated"),
	}
}

// ----------------------------------------------------------------------------
// Postgres
// ----------------------------------------------------------------------------

type PGContainer struct {
	Container *postgres.PostgresContainer
	DSN       string
}

// StartPostgresTC поднимает пустой Postgres; схему накатывает ApplyMigrationsGoose.
func StartPostgresTC(ctx context.Context) (*PGContainer, func(context.Context) error, error) {
	pg, err := postgres.Run(
		ctx,
		postgresImage,
		tc.WithLifecycleHooks(lifecycleLog(tcLogger)),
		postgres.WithDatabase("orders_sync"),
		postgres.WithUsername("orders"),
		postgres.WithPassword("orders"),
		tc.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, nil, fmt.Errorf("conn string: %w", err)
	}

	stop := func(c context.Context) error { return pg.Terminate(c) }
	return &PGContainer{Container: pg, DSN: dsn}, stop, nil
}

// ApplyMigrationsGoose накатывает <repo_root>/migrations.
func ApplyMigrationsGoose(dsn string) error {
	// этот файл: <repo>/internal/testutil/containers_tc_integration.go
	_, thisFile, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")
	return pgstore.Migrate(dsn, filepath.Clean(dir), pgstore.MigrateUp, os.Stdout)
}

// OrderStoreTC — хранилище заказов на свежем контейнере с применённой схемой.
// Контейнер и пул закрываются в t.Cleanup.
func OrderStoreTC(t testing.TB) (*pgstore.OrderStore, *PGContainer) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	pg, stop, err := StartPostgresTC(ctx)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = stop(context.Background()) })

	if err := ApplyMigrationsGoose(pg.DSN); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgstore.NewPool(ctx, pg.DSN, 4)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pgstore.NewOrderStore(pool), pg
}

// NewPool — отдельный пул к контейнеру, когда тесту нужен прямой SQL.
func (c *PGContainer) NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	return pgstore.NewPool(ctx, c.DSN, 2)
}

// ----------------------------------------------------------------------------
// Kafka (redpanda)
// ----------------------------------------------------------------------------

type KafkaEnv struct {
	Container *redpanda.Container
	Brokers   []string
	BaseTopic string
}

func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, func(context.Context) error, error) {
	rp, err := redpanda.Run(
		ctx,
		redpandaImage,
		tc.WithLifecycleHooks(lifecycleLog(tcLogger)),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}

	env := &KafkaEnv{Container: rp, Brokers: []string{seed}, BaseTopic: baseTopic}
	stop := func(_ context.Context) error { return tc.TerminateContainer(rp) }
	return env, stop, nil
}

// KafkaTC — redpanda на время теста.
func KafkaTC(t testing.TB, baseTopic string) *KafkaEnv {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	kf, stop, err := StartKafkaTC(ctx, baseTopic)
	if err != nil {
		t.Fatalf("start kafka: %v", err)
	}
	t.Cleanup(func() { _ = stop(context.Background()) })
	return kf
}
