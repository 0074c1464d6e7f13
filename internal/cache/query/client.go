package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/orders_sync/internal/ports"
)

type outcome int

const (
	outcomePending outcome = iota
	outcomeDone
	outcomeSuperseded
	outcomeCanceled
)

// fetchCall — одна загрузка записи; к ней присоединяются все ожидающие.
type fetchCall struct {
	epoch      uint64
	prevStatus Status
	cancel     context.CancelFunc
	done       chan struct{}

	// заполняются под Client.mu до close(done); done закрывается ровно один раз,
	// тем, кто первым перевёл outcome из pending
	outcome outcome
	data    any
	err     error
}

type mutation struct {
	cancel   context.CancelFunc
	canceled bool
}

type entry struct {
	key       Key
	state     State
	fetcher   FetchFunc
	observers map[uint64]*observer
	inflight  *fetchCall
	mutations map[*mutation]struct{}
	// epoch растёт при инвалидации и отмене; загрузка из старой эпохи в кэш не пишет
	epoch   uint64
	gcTimer *time.Timer
}

// Client — явное хранилище серверного состояния. Создаётся при старте приложения,
// закрывается через Close.
type Client struct {
	staleTime time.Duration
	gcTime    time.Duration
	log       ports.Logger
	metrics   Metrics
	now       func() time.Time

	root       context.Context
	cancelRoot context.CancelFunc

	mu         sync.Mutex
	entries    map[Key]*entry
	version    uint64
	observerID uint64
	closed     bool
}

func NewClient(opts ...Option) *Client {
	root, cancel := context.WithCancel(context.Background())
	c := &Client{
		staleTime:  defaultStaleTime,
		gcTime:     defaultGCTime,
		log:        nopLogger{},
		metrics:    nopMetrics{},
		now:        time.Now,
		root:       root,
		cancelRoot: cancel,
		entries:    make(map[Key]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe регистрирует подписчика: сразу возвращает текущий снимок,
// дальнейшие изменения приходят в listener. Запускает загрузку, если данных нет или они устарели.
func (c *Client) Subscribe(key Key, fetch FetchFunc, listener Listener) (State, Unsubscribe) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return State{}, func() {}
	}

	e := c.entryLocked(key)
	if fetch != nil {
		e.fetcher = fetch
	}
	c.stopGCLocked(e)

	if e.inflight == nil && e.fetcher != nil && c.needsFetchLocked(e) {
		c.metrics.CacheOp(c.missOrStale(e))
		c.startFetchLocked(e)
	} else if e.state.HasData {
		c.metrics.CacheOp("hit")
	}

	c.observerID++
	id := c.observerID
	obs := newObserver(listener, e.state.Version)
	e.observers[id] = obs
	snapshot := e.state

	var once sync.Once
	return snapshot, func() {
		once.Do(func() { c.unsubscribe(e, id) })
	}
}

func (c *Client) unsubscribe(e *entry, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	obs, ok := e.observers[id]
	if !ok {
		return
	}
	obs.close()
	delete(e.observers, id)
	c.releaseLocked(e)
}

// Fetch возвращает свежие данные: из кэша, из уже идущей загрузки или запуская новую.
// Отмена ctx прерывает только ожидание, общая загрузка продолжается.
func (c *Client) Fetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, ErrClosed
		}
		e := c.entryLocked(key)
		if fetch != nil {
			e.fetcher = fetch
		}
		if e.fetcher == nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrNoFetcher, key)
		}
		if e.inflight == nil && e.state.Status == StatusSuccess && !c.isStaleLocked(e) {
			data := e.state.Data
			c.metrics.CacheOp("hit")
			c.mu.Unlock()
			return data, nil
		}
		if e.inflight == nil {
			c.metrics.CacheOp(c.missOrStale(e))
		}
		call := c.startFetchLocked(e)
		c.mu.Unlock()

		data, retry, err := c.wait(ctx, call)
		if retry {
			continue
		}
		return data, err
	}
}

// Invalidate помечает запись устаревшей. Загрузки, начатые раньше, вытесняются:
// их результат отбрасывается, контекст отменяется. Если у записи есть подписчики,
// запускается перезагрузка и Invalidate ждёт её завершения.
func (c *Client) Invalidate(ctx context.Context, key Key) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || c.closed {
		c.mu.Unlock()
		return nil
	}
	call := c.invalidateLocked(e, false)
	c.mu.Unlock()

	return c.waitSettled(ctx, key, call)
}

// Mutate выполняет изменение, учитывая его в State.Mutating. При успехе запись
// инвалидируется и перезагружается, даже без подписчиков: Mutate возвращается
// только после перезагрузки, так что следующее чтение видит результат изменения.
// При ошибке данные кэша не трогаются. Счётчик уменьшается при любом исходе.
func (c *Client) Mutate(ctx context.Context, key Key, op string, mutate MutateFunc) error {
	mctx, m, e, err := c.beginMutation(ctx, key)
	if err != nil {
		return err
	}
	defer m.cancel()

	err = mutate(mctx)

	c.mu.Lock()
	if m.canceled {
		c.mu.Unlock()
		c.metrics.MutationDone(key.Feature, key.Resource, op, "canceled")
		return fmt.Errorf("%w: %s %s", ErrCanceled, op, key)
	}
	if err != nil {
		c.finishMutationLocked(e, m)
		c.mu.Unlock()
		c.metrics.MutationDone(key.Feature, key.Resource, op, "error")
		return err
	}
	call := c.invalidateLocked(e, true)
	c.mu.Unlock()

	// перезагрузка — часть мутации: Processing не падает между ними
	if werr := c.waitSettled(ctx, key, call); werr != nil {
		c.log.Warnf(ctx, "query %s: refetch after %s: %v", key, op, werr)
	}

	c.mu.Lock()
	canceled := m.canceled
	c.finishMutationLocked(e, m)
	c.mu.Unlock()

	if canceled {
		c.metrics.MutationDone(key.Feature, key.Resource, op, "canceled")
		return fmt.Errorf("%w: %s %s", ErrCanceled, op, key)
	}
	c.metrics.MutationDone(key.Feature, key.Resource, op, "success")
	return nil
}

// Cancel отменяет загрузки и мутации подходящих ключей. Отменённые операции
// не пишут в кэш и не порождают уведомлений.
func (c *Client) Cancel(filter Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if filter(e.key) {
			c.cancelLocked(e)
		}
	}
}

// Remove — Cancel и удаление записей вместе с их подписчиками.
func (c *Client) Remove(filter Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if !filter(key) {
			continue
		}
		c.cancelLocked(e)
		c.dropLocked(e)
		c.metrics.CacheOp("evicted")
	}
	c.metrics.Entries(len(c.entries))
}

// State — текущий снимок записи.
func (c *Client) State(key Key) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// Close отменяет всё и удаляет все записи; дальнейшие вызовы получают ErrClosed.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, e := range c.entries {
		c.cancelLocked(e)
		c.dropLocked(e)
	}
	c.metrics.Entries(0)
	c.mu.Unlock()

	c.cancelRoot()
}

// runFetch выполняется в своей горутине и публикует результат, только если загрузка всё ещё актуальна.
func (c *Client) runFetch(ctx context.Context, e *entry, call *fetchCall, fetch FetchFunc) {
	data, err := fetch(ctx)
	call.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	// вытесненную или отменённую загрузку уже закрыли, ожидающие получили исход
	switch call.outcome {
	case outcomeSuperseded:
		c.log.Debugf(ctx, "query %s: superseded fetch discarded", e.key)
		c.metrics.FetchDone(e.key.Feature, e.key.Resource, "superseded")
		c.releaseLocked(e)
		return
	case outcomeCanceled:
		c.log.Debugf(ctx, "query %s: canceled fetch discarded", e.key)
		c.metrics.FetchDone(e.key.Feature, e.key.Resource, "canceled")
		c.releaseLocked(e)
		return
	}

	call.outcome = outcomeDone
	call.data, call.err = data, err
	defer close(call.done)
	e.inflight = nil
	e.state.IsFetching = false

	if err != nil {
		e.state.Status = StatusError
		e.state.Err = err
		e.state.Stale = true
		c.metrics.FetchDone(e.key.Feature, e.key.Resource, "error")
		c.log.Warnf(ctx, "query %s: fetch failed: %v", e.key, err)
	} else {
		e.state.Data = data
		e.state.HasData = true
		e.state.Status = StatusSuccess
		e.state.Err = nil
		e.state.Stale = false
		e.state.UpdatedAt = c.now()
		c.metrics.FetchDone(e.key.Feature, e.key.Resource, "success")
	}
	c.bumpLocked(e)
	c.releaseLocked(e)
}
