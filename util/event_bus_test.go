// util/event_bus_test.go
package util_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sentra-iam/sentra/util"
)

func TestEventBus_PublishReachesSubscribers(t *testing.T) {
	bus := util.NewEventBus()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var received []string

	handler := func(name string) util.EventHandler {
		return func(ctx context.Context, event util.Event) error {
			mu.Lock()
			received = append(received, name+":"+event.Type)
			mu.Unlock()
			wg.Done()
			return nil
		}
	}

	bus.Subscribe("policy.validated", handler("a"))
	bus.Subscribe("policy.validated", handler("b"))

	bus.Publish(context.Background(), "policy.validated", map[string]string{"policy_id": "p1"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handlers were not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a:policy.validated", "b:policy.validated"}, received)
}

func TestEventBus_PublishWithoutSubscribers(t *testing.T) {
	bus := util.NewEventBus()

	// No subscribers registered for this type; must not panic or block
	bus.Publish(context.Background(), "policy.deleted", nil)
}
