package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_DeliversToSubscribers(t *testing.T) {
	bus := NewEventBusWithWorkers(1)

	var (
		mu  sync.Mutex
		got []interface{}
	)
	record := func(payload interface{}) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, payload)
	}
	bus.Subscribe(ArticleVoted, record)
	bus.Subscribe(ArticleVoted, record)
	bus.Subscribe(UserDeleted, func(interface{}) { t.Error("unexpected topic") })

	bus.Publish(ArticleVoted, 1)
	bus.Publish(ArticleVoted, 2)
	bus.Publish(CategoryDeleted, 3)
	bus.Shutdown()

	// 单 worker 按发布顺序处理，每个订阅者各收到一次
	assert.Equal(t, []interface{}{1, 1, 2, 2}, got)
}

func TestEventBus_HandlerPanicDoesNotStopWorker(t *testing.T) {
	bus := NewEventBusWithWorkers(1)

	delivered := 0
	bus.Subscribe(ArticlesDeleted, func(payload interface{}) {
		if payload == "boom" {
			panic("boom")
		}
		delivered++
	})

	bus.Publish(ArticlesDeleted, "boom")
	bus.Publish(ArticlesDeleted, "ok")
	bus.Shutdown()

	assert.Equal(t, 1, delivered)
}

func TestEventBus_PublishAfterShutdown(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe(CategoriesMerged, func(interface{}) { called = true })

	bus.Shutdown()
	bus.Shutdown()
	assert.NotPanics(t, func() { bus.Publish(CategoriesMerged, nil) })
	assert.False(t, called)
}
