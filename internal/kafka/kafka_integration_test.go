//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	ikafka "github.com/Gunvolt24/orders_sync/internal/kafka"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	pgstore "github.com/Gunvolt24/orders_sync/internal/store/postgres"
	"github.com/Gunvolt24/orders_sync/internal/testutil"
	"github.com/Gunvolt24/orders_sync/internal/usecase"
	"github.com/Gunvolt24/orders_sync/pkg/logger"
	"github.com/Gunvolt24/orders_sync/pkg/validate"
)

// 1) Валидный снимок сохраняется в хранилище
func TestKafka_Valid_Saved_TC(t *testing.T) {
	st := newStack(t)

	topic, group := testutil.TopicFor(t, st.ctx, st.kf)

	st.runConsumer(t, &ikafka.ConsumerConfig{
		Brokers:        st.kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 5 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, st.svc)

	ord := testutil.MakeOrder(testutil.WithItems(2))
	st.publish(t, topic, ord)

	got := st.waitOrder(t, ord.ID, 20*time.Second)
	require.Equal(t, ord.UserID, got.UserID)
	require.Equal(t, 30, got.Quantity())
}

// 2) Не-JSON и невалидный заказ пропускаются, следующий валидный сохраняется
func TestKafka_Skip_Invalid_Then_SaveValid_TC(t *testing.T) {
	st := newStack(t)

	topic, group := testutil.TopicFor(t, st.ctx, st.kf)

	st.runConsumer(t, &ikafka.ConsumerConfig{
		Brokers:        st.kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 3 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, st.svc)

	require.NoError(t, testutil.PublishRaw(st.ctx, st.kf.Brokers, topic, kafka.Message{Value: []byte("not-a-json")}))

	// пустой user_id валидатор не пропустит
	bad := testutil.MakeOrder(testutil.WithUser(""))
	st.publish(t, topic, bad)

	ok := testutil.MakeOrder()
	st.publish(t, topic, ok)

	st.waitOrder(t, ok.ID, 20*time.Second)
	_, found := st.findOrder(t, bad.ID)
	require.False(t, found, "invalid order must be skipped")
}

// 3) StartOffset="last": сообщения до старта консьюмера игнорируются
func TestKafka_StartOffset_Last_IgnoresOld_TC(t *testing.T) {
	st := newStack(t)

	topic, group := testutil.TopicFor(t, st.ctx, st.kf)

	old := testutil.MakeOrder()
	st.publish(t, topic, old)

	st.runConsumer(t, &ikafka.ConsumerConfig{
		Brokers:     st.kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "last",
	}, st.svc)

	// публикуем новое повторно, пока одно из сообщений не окажется после стартовой позиции
	fresh := testutil.MakeOrder()

	deadline := time.Now().Add(20 * time.Second)
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		st.publish(t, topic, fresh)
		if _, ok := st.findOrder(t, fresh.ID); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("order %s not saved in time", fresh.ID)
		}
		<-ticker.C
	}

	_, found := st.findOrder(t, old.ID)
	require.False(t, found, "old message must be ignored")
}

// 4) At-least-once: без коммита сообщение передоставляется после рестарта
func TestKafka_Redelivery_AfterRestart_NoCommit_TC(t *testing.T) {
	st := newStack(t)

	topic, group := testutil.TopicFor(t, st.ctx, st.kf)

	ord := testutil.MakeOrder()
	st.publish(t, topic, ord)

	// фаза 1: всегда временная ошибка, оффсет не коммитится
	failing := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        st.kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 300 * time.Millisecond,
		RetryInitial:   100 * time.Millisecond,
		RetryMax:       300 * time.Millisecond,
	}, alwaysTempFailSaver{}, st.log)

	runCtx, cancelRun := context.WithCancel(st.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = failing.Run(runCtx)
	}()
	time.Sleep(2 * time.Second)
	cancelRun()
	<-done
	_ = failing.Close()

	_, found := st.findOrder(t, ord.ID)
	require.False(t, found)

	// фаза 2: та же группа, рабочий сервис
	st.runConsumer(t, &ikafka.ConsumerConfig{
		Brokers:     st.kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "first",
	}, st.svc)

	st.waitOrder(t, ord.ID, 25*time.Second)
}

// 5) Идемпотентность: повтор одного снимка не раздувает позиции
func TestKafka_Idempotent_DuplicateMessage_TC(t *testing.T) {
	st := newStack(t)

	topic, group := testutil.TopicFor(t, st.ctx, st.kf)

	st.runConsumer(t, &ikafka.ConsumerConfig{
		Brokers:     st.kf.Brokers,
		Topic:       topic,
		GroupID:     group,
		StartOffset: "first",
	}, st.svc)

	ord := testutil.MakeOrder(testutil.WithItems(3))
	st.publish(t, topic, ord, ord)

	// второй снимок с другим составом заменяет позиции целиком
	next := ord
	testutil.WithItems(1)(&next)
	st.publish(t, topic, next)

	require.Eventually(t, func() bool {
		got, ok := st.findOrder(t, ord.ID)
		return ok && len(got.ItemEntities) == 1
	}, 20*time.Second, 200*time.Millisecond)

	all, err := st.store.List(st.ctx)
	require.NoError(t, err)
	count := 0
	for i := range all {
		if all[i].ID == ord.ID {
			count++
		}
	}
	require.Equal(t, 1, count)
}

// -----------------функции-помощники-----------------

type stack struct {
	ctx   context.Context
	kf    *testutil.KafkaEnv
	store *pgstore.OrderStore
	svc   *usecase.IngestService
	log   ports.Logger
}

func newStack(t *testing.T) *stack {
	t.Helper()

	store, _ := testutil.OrderStoreTC(t)
	kf := testutil.KafkaTC(t, "orders-itc")

	// короткий контекст — сам тест
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	logg, closer, err := logger.NewZapLogger(false, "debug")
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	return &stack{
		ctx:   ctx,
		kf:    kf,
		store: store,
		svc:   usecase.NewIngestService(store, logg, validate.NewOrderValidator()),
		log:   logg,
	}
}

// runConsumer запускает консьюмера до конца теста и даёт ему войти в группу.
func (s *stack) runConsumer(t *testing.T, cfg *ikafka.ConsumerConfig, svc interface {
	SaveFromMessage(ctx context.Context, raw []byte) error
}) {
	t.Helper()

	consumer := ikafka.NewConsumer(cfg, svc, s.log)
	runCtx, cancelRun := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(runCtx)
	}()
	t.Cleanup(func() {
		cancelRun()
		<-done
		_ = consumer.Close()
	})

	time.Sleep(1500 * time.Millisecond)
}

func (s *stack) findOrder(t *testing.T, id domain.OrderEntityID) (domain.OrderEntity, bool) {
	t.Helper()
	all, err := s.store.List(s.ctx)
	require.NoError(t, err)
	for i := range all {
		if all[i].ID == id {
			return all[i], true
		}
	}
	return domain.OrderEntity{}, false
}

func (s *stack) waitOrder(t *testing.T, id domain.OrderEntityID, wait time.Duration) domain.OrderEntity {
	t.Helper()
	deadline := time.Now().Add(wait)
	for {
		if got, ok := s.findOrder(t, id); ok {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("order %s not saved in time", id)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func (s *stack) publish(t *testing.T, topic string, orders ...domain.OrderEntity) {
	t.Helper()
	require.NoError(t, testutil.PublishOrders(s.ctx, s.kf.Brokers, topic, orders...))
}

// временная "сетеподобная" ошибка
type tempNetErr struct{}

func (tempNetErr) Error() string   { return "temporary failure" }
func (tempNetErr) Temporary() bool { return true }
func (tempNetErr) Timeout() bool   { return true }

type alwaysTempFailSaver struct{}

func (alwaysTempFailSaver) SaveFromMessage(context.Context, []byte) error {
	return tempNetErr{}
}
