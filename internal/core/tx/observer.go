package tx

// Observer is notified after every transaction the engine processes,
// successful or not, in apply order.
type Observer interface {
	OnApplied(tx Transaction, result ApplyResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tx Transaction, result ApplyResult)

func (f ObserverFunc) OnApplied(tx Transaction, result ApplyResult) { f(tx, result) }
