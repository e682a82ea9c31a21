// Package ebus fans gauge values out to subscribers by topic. Repeated
// identical values for a topic are dropped and the last value of every topic
// is cached for a minute so new subscribers start from the current reading.
package ebus

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	queueSize  = 100
	bufferSize = 100
	cacheTTL   = 1 * time.Minute
)

var ErrQueueFull = errors.New("publish channel full")

type Message struct {
	Topic string
	Data  float64
}

type Bus struct {
	mu      sync.Mutex
	subs    map[string][]chan float64
	subsAll []chan Message

	in    chan Message
	cache *ttlcache.Cache[string, float64]

	closeOnce sync.Once
	done      chan struct{}
}

// New starts a bus with its own dispatch goroutine. Close stops it.
func New() *Bus {
	b := &Bus{
		subs: make(map[string][]chan float64),
		in:   make(chan Message, queueSize),
		cache: ttlcache.New[string, float64](
			ttlcache.WithTTL[string, float64](cacheTTL),
		),
		done: make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bus) run() {
	for {
		select {
		case <-b.done:
			return
		case msg := <-b.in:
			b.dispatch(msg)
		}
	}
}

// dispatch updates the cache and fans out under mu, so a subscriber replaying
// the cache never sees an older value after a newer one.
func (b *Bus) dispatch(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v := b.cache.Get(msg.Topic); v != nil && v.Value() == msg.Data {
		return
	}
	b.cache.Set(msg.Topic, msg.Data, ttlcache.DefaultTTL)

	for i := 0; i < len(b.subsAll); i++ {
		sub := b.subsAll[i]
		select {
		case sub <- msg:
		default:
			// slow listener, drop it
			log.Println("ebus: dropping slow SubscribeAll listener")
			b.subsAll = append(b.subsAll[:i], b.subsAll[i+1:]...)
			close(sub)
			i--
		}
	}
	for _, sub := range b.subs[msg.Topic] {
		select {
		case sub <- msg.Data:
		default:
		}
	}
}

// Publish queues a value without blocking.
func (b *Bus) Publish(topic string, data float64) error {
	select {
	case b.in <- Message{Topic: topic, Data: data}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe returns a channel that receives every new value of topic. The
// cached value, if any, is delivered first.
func (b *Bus) Subscribe(topic string) chan float64 {
	respChan := make(chan float64, bufferSize)
	b.mu.Lock()
	defer b.mu.Unlock()
	if itm := b.cache.Get(topic); itm != nil {
		respChan <- itm.Value()
	}
	b.subs[topic] = append(b.subs[topic], respChan)
	return respChan
}

// SubscribeFunc calls f for every value of topic on its own goroutine and
// returns a function that unsubscribes.
func (b *Bus) SubscribeFunc(topic string, f func(float64)) func() {
	respChan := b.Subscribe(topic)
	go func() {
		for v := range respChan {
			f(v)
		}
	}()
	return func() {
		b.Unsubscribe(respChan)
	}
}

// Unsubscribe removes and closes channel. Unknown channels are ignored.
func (b *Bus) Unsubscribe(channel chan float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, subz := range b.subs {
		for i, sub := range subz {
			if sub != channel {
				continue
			}
			b.subs[topic] = append(subz[:i], subz[i+1:]...)
			close(channel)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
			return
		}
	}
}

// SubscribeAll receives every topic, starting with a snapshot of the cache.
func (b *Bus) SubscribeAll() chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	respChan := make(chan Message, max(bufferSize, b.cache.Len()))
	b.cache.Range(func(item *ttlcache.Item[string, float64]) bool {
		select {
		case respChan <- Message{Topic: item.Key(), Data: item.Value()}:
			return true
		default:
			return false
		}
	})
	b.subsAll = append(b.subsAll, respChan)
	return respChan
}

func (b *Bus) SubscribeAllFunc(f func(topic string, value float64)) func() {
	respChan := b.SubscribeAll()
	go func() {
		for v := range respChan {
			f(v.Topic, v.Data)
		}
	}()
	return func() {
		b.UnsubscribeAll(respChan)
	}
}

func (b *Bus) UnsubscribeAll(channel chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subsAll {
		if sub == channel {
			b.subsAll = append(b.subsAll[:i], b.subsAll[i+1:]...)
			close(sub)
			return
		}
	}
}

// Last returns the cached value of topic.
func (b *Bus) Last(topic string) (float64, bool) {
	if itm := b.cache.Get(topic); itm != nil {
		return itm.Value(), true
	}
	return 0, false
}

// Close stops dispatching. Subscriber channels stay open.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}
