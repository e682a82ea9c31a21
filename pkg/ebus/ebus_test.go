package ebus_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/roffe/txgauge/pkg/ebus"
)

func receive(t *testing.T, ch chan float64) float64 {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	return 0
}

func TestPublish(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		data    float64
		wantErr bool
	}{
		{
			name:  "test",
			topic: "test",
			data:  1.23,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr := ebus.Publish(tt.topic, tt.data)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("Publish() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("Publish() succeeded unexpectedly")
			}
		})
	}
}

func TestSubscribe(t *testing.T) {
	b := ebus.New()
	defer b.Close()

	ch := b.Subscribe("boost")
	if ch == nil {
		t.Fatal("Subscribe() returned nil channel")
	}
	if err := b.Publish("boost", 3.14); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if v := receive(t, ch); v != 3.14 {
		t.Errorf("Subscribe() got %v, want 3.14", v)
	}
	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel not closed after Unsubscribe")
	}
}

func TestDuplicateValuesDropped(t *testing.T) {
	b := ebus.New()
	defer b.Close()

	ch := b.Subscribe("rpm")
	for _, v := range []float64{1, 1, 1, 2, 2, 1} {
		if err := b.Publish("rpm", v); err != nil {
			t.Fatalf("Publish() failed: %v", err)
		}
	}
	want := []float64{1, 2, 1}
	for i, w := range want {
		if got := receive(t, ch); got != w {
			t.Errorf("value %d = %v, want %v", i, got, w)
		}
	}
	select {
	case v := <-ch:
		t.Errorf("unexpected extra value %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewSubscriberGetsCachedValue(t *testing.T) {
	b := ebus.New()
	defer b.Close()

	first := b.Subscribe("lambda")
	if err := b.Publish("lambda", 0.98); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	receive(t, first)

	second := b.Subscribe("lambda")
	if v := receive(t, second); v != 0.98 {
		t.Errorf("cached value = %v, want 0.98", v)
	}
	if v, ok := b.Last("lambda"); !ok || v != 0.98 {
		t.Errorf("Last() = %v, %v", v, ok)
	}
	if _, ok := b.Last("missing"); ok {
		t.Error("Last() found a topic never published")
	}
}

func TestSubscribeWhilePublishingKeepsOrder(t *testing.T) {
	bus := ebus.New()
	defer bus.Close()

	const last = 500
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= last; {
			if bus.Publish("rpm", float64(i)) != nil {
				runtime.Gosched()
				continue
			}
			i++
		}
	}()

	for s := 0; s < 20; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := bus.Subscribe("rpm")
			defer bus.Unsubscribe(ch)
			prev := 0.0
			timeout := time.After(time.Second)
			for prev < last {
				select {
				case v := <-ch:
					if v <= prev {
						t.Errorf("got %v after %v", v, prev)
						return
					}
					prev = v
				case <-timeout:
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestTopicsAreIsolated(t *testing.T) {
	b := ebus.New()
	defer b.Close()

	a := b.Subscribe("a")
	c := b.Subscribe("c")
	b.Publish("a", 1)
	b.Publish("c", 2)
	if v := receive(t, a); v != 1 {
		t.Errorf("a got %v", v)
	}
	if v := receive(t, c); v != 2 {
		t.Errorf("c got %v", v)
	}
}

func TestSubscribeFunc(t *testing.T) {
	b := ebus.New()
	defer b.Close()

	got := make(chan float64, 1)
	cancel := b.SubscribeFunc("temp", func(v float64) {
		got <- v
	})
	if cancel == nil {
		t.Fatal("SubscribeFunc() returned nil cleanup function")
	}
	defer cancel()
	b.Publish("temp", 2.71)
	if v := receive(t, got); v != 2.71 {
		t.Errorf("SubscribeFunc() got %v, want 2.71", v)
	}
}

func TestSubscribeAll(t *testing.T) {
	b := ebus.New()
	defer b.Close()

	sync := b.Subscribe("x")
	b.Publish("x", 7)
	receive(t, sync)

	all := b.SubscribeAll()
	select {
	case m := <-all:
		if m.Topic != "x" || m.Data != 7 {
			t.Errorf("snapshot message = %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot message")
	}

	b.Publish("y", 8)
	select {
	case m := <-all:
		if m.Topic != "y" || m.Data != 8 {
			t.Errorf("message = %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no live message")
	}

	b.UnsubscribeAll(all)
	if _, ok := <-all; ok {
		t.Error("channel not closed after UnsubscribeAll")
	}
}

func TestPublishQueueFull(t *testing.T) {
	b := ebus.New()
	b.Close()
	// give the dispatcher time to exit
	time.Sleep(10 * time.Millisecond)

	var err error
	for i := 0; i < 1000 && err == nil; i++ {
		err = b.Publish("q", float64(i))
	}
	if err != ebus.ErrQueueFull {
		t.Errorf("Publish() on a stopped bus = %v, want ErrQueueFull", err)
	}
}
