package ebus

var defaultBus = New()

// Default returns the process wide bus used by the package level functions.
func Default() *Bus { return defaultBus }

func Publish(topic string, data float64) error { return defaultBus.Publish(topic, data) }

func Subscribe(topic string) chan float64 { return defaultBus.Subscribe(topic) }

// SubscribeFunc returns a function that can be used to unsubscribe the function
func SubscribeFunc(topic string, f func(float64)) func() {
	return defaultBus.SubscribeFunc(topic, f)
}

func Unsubscribe(channel chan float64) { defaultBus.Unsubscribe(channel) }

func SubscribeAll() chan Message { return defaultBus.SubscribeAll() }

func SubscribeAllFunc(f func(topic string, value float64)) func() {
	return defaultBus.SubscribeAllFunc(f)
}

func UnsubscribeAll(channel chan Message) { defaultBus.UnsubscribeAll(channel) }
