package query

import (
	"context"
	"time"
)

// entryLocked — запись по ключу; создаёт пустую при отсутствии.
func (c *Client) entryLocked(key Key) *entry {
	if e, ok := c.entries[key]; ok {
		return e
	}
	e := &entry{
		key:       key,
		observers: make(map[uint64]*observer),
		mutations: make(map[*mutation]struct{}),
	}
	c.entries[key] = e
	c.metrics.Entries(len(c.entries))
	return e
}

// startFetchLocked — присоединение к актуальной загрузке или запуск новой.
func (c *Client) startFetchLocked(e *entry) *fetchCall {
	if e.inflight != nil && e.inflight.epoch == e.epoch {
		return e.inflight
	}
	if e.inflight != nil {
		c.supersedeLocked(e)
	}

	ctx, cancel := context.WithCancel(c.root)
	call := &fetchCall{
		epoch:      e.epoch,
		prevStatus: e.state.Status,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	e.inflight = call
	e.state.IsFetching = true
	if !e.state.HasData {
		e.state.Status = StatusLoading
	}
	c.bumpLocked(e)

	go c.runFetch(ctx, e, call, e.fetcher)
	return call
}

// supersedeLocked — текущая загрузка больше не может записать результат.
func (c *Client) supersedeLocked(e *entry) {
	call := e.inflight
	if call == nil {
		return
	}
	call.outcome = outcomeSuperseded
	call.cancel()
	close(call.done)
	e.inflight = nil
	e.state.IsFetching = false
	c.metrics.CacheOp("superseded")
}

// invalidateLocked — новая эпоха. Перезагрузка запускается при наличии подписчиков
// или при force; иначе запись остаётся устаревшей до следующего чтения.
func (c *Client) invalidateLocked(e *entry, force bool) *fetchCall {
	e.epoch++
	e.state.Stale = true
	c.supersedeLocked(e)

	if (force || len(e.observers) > 0) && e.fetcher != nil && !c.closed {
		return c.startFetchLocked(e)
	}
	if e.state.Status == StatusLoading {
		e.state.Status = StatusIdle
	}
	c.bumpLocked(e)
	c.releaseLocked(e)
	return nil
}

// cancelLocked — отмена загрузки и мутаций; состояние откатывается к последнему известному.
func (c *Client) cancelLocked(e *entry) {
	changed := false

	if call := e.inflight; call != nil {
		call.outcome = outcomeCanceled
		call.cancel()
		close(call.done)
		e.inflight = nil
		e.state.IsFetching = false
		e.state.Status = call.prevStatus
		if e.state.Status == StatusLoading {
			e.state.Status = StatusIdle
		}
		c.metrics.CacheOp("canceled")
		changed = true
	}

	for m := range e.mutations {
		m.canceled = true
		m.cancel()
		delete(e.mutations, m)
		e.state.Mutating--
		changed = true
	}

	if changed {
		e.epoch++
		c.bumpLocked(e)
		c.releaseLocked(e)
	}
}

// dropLocked — удаление записи; подписчики больше ничего не получат.
func (c *Client) dropLocked(e *entry) {
	c.stopGCLocked(e)
	for id, obs := range e.observers {
		obs.close()
		delete(e.observers, id)
	}
	delete(c.entries, e.key)
}

func (c *Client) beginMutation(ctx context.Context, key Key) (context.Context, *mutation, *entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, nil, nil, ErrClosed
	}
	e := c.entryLocked(key)
	c.stopGCLocked(e)

	mctx, cancel := context.WithCancel(ctx)
	m := &mutation{cancel: cancel}
	e.mutations[m] = struct{}{}
	e.state.Mutating++
	c.bumpLocked(e)
	return mctx, m, e, nil
}

// finishMutationLocked — снятие мутации со счёта; отменённая уже снята в cancelLocked.
func (c *Client) finishMutationLocked(e *entry, m *mutation) {
	if _, ok := e.mutations[m]; !ok {
		return
	}
	delete(e.mutations, m)
	e.state.Mutating--
	if c.entries[e.key] != e {
		return
	}
	c.bumpLocked(e)
	c.releaseLocked(e)
}

// wait — ожидание загрузки. retry=true: загрузку вытеснила более новая.
func (c *Client) wait(ctx context.Context, call *fetchCall) (data any, retry bool, err error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-call.done:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch call.outcome {
	case outcomeSuperseded:
		return nil, true, nil
	case outcomeCanceled:
		return nil, false, ErrCanceled
	default:
		return call.data, false, call.err
	}
}

// waitSettled ждёт, пока по ключу не останется актуальной загрузки, начиная с call.
func (c *Client) waitSettled(ctx context.Context, key Key, call *fetchCall) error {
	for call != nil {
		_, retry, err := c.wait(ctx, call)
		if !retry {
			return err
		}

		c.mu.Lock()
		call = nil
		if e, ok := c.entries[key]; ok {
			call = e.inflight
		}
		c.mu.Unlock()
	}
	return nil
}

// bumpLocked — новая версия снимка и рассылка подписчикам.
func (c *Client) bumpLocked(e *entry) {
	c.version++
	e.state.Version = c.version
	for _, obs := range e.observers {
		obs.offer(e.state)
	}
}

func (c *Client) needsFetchLocked(e *entry) bool {
	return !e.state.HasData || c.isStaleLocked(e)
}

func (c *Client) isStaleLocked(e *entry) bool {
	if e.state.Stale || !e.state.HasData {
		return true
	}
	if c.staleTime < 0 {
		return false
	}
	return c.now().Sub(e.state.UpdatedAt) >= c.staleTime
}

func (c *Client) missOrStale(e *entry) string {
	if e.state.HasData {
		return "stale"
	}
	return "miss"
}

// scheduleGCLocked — удаление записи без подписчиков через gcTime.
func (c *Client) scheduleGCLocked(e *entry) {
	if c.gcTime < 0 || c.closed {
		return
	}
	c.stopGCLocked(e)
	e.gcTimer = time.AfterFunc(c.gcTime, func() { c.collect(e) })
}

// releaseLocked — запись без подписчиков уходит под сборку.
func (c *Client) releaseLocked(e *entry) {
	if len(e.observers) == 0 && c.entries[e.key] == e {
		c.scheduleGCLocked(e)
	}
}

func (c *Client) stopGCLocked(e *entry) {
	if e.gcTimer != nil {
		e.gcTimer.Stop()
		e.gcTimer = nil
	}
}

func (c *Client) collect(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[e.key] != e || len(e.observers) > 0 || e.inflight != nil || len(e.mutations) > 0 {
		// занятая запись будет запланирована заново по завершении операции
		return
	}
	c.dropLocked(e)
	c.metrics.CacheOp("evicted")
	c.metrics.Entries(len(c.entries))
	c.log.Debugf(c.root, "query %s: evicted after %s without observers", e.key, c.gcTime)
}
