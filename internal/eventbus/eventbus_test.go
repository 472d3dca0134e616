package eventbus

import "testing"

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish("report")
	if v := <-ch; v != "report" {
		t.Fatalf("expected report, got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	bus.Publish("late")
	if _, ok := <-ch; ok {
		t.Fatalf("subscriber channel not closed")
	}
}

func TestBus_SubscribeAfterClose(t *testing.T) {
	bus := New()
	bus.Close()
	ch := bus.Subscribe()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel from closed bus")
	}
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := New()
	_ = bus.Subscribe()
	for i := 0; i < subBuffer*2; i++ {
		bus.Publish(i)
	}
	// Reaching here without deadlock is the assertion.
	bus.Close()
}
