package domain

// Optional carries a value together with an explicit "supplied" marker, so an
// absent patch field and an explicitly empty one stay distinguishable.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{value: v, set: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

func (o Optional[T]) IsSet() bool { return o.set }

func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

// OrElse returns the value when supplied, def otherwise.
func (o Optional[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}
