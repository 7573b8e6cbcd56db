package service

// result carries one sub-computation's outcome through the insight
// fan-out. Sub-computations never decide fallback policy themselves;
// the aggregator collapses failures to the component's zero default in
// exactly one place.
type result[T any] struct {
	value T
	err   error
}

func ok[T any](v T) result[T] { return result[T]{value: v} }

func fail[T any](err error) result[T] { return result[T]{err: err} }

// collapse returns the value, or the zero value when the computation
// failed. onErr sees the failure so it can be logged with component
// context.
func (r result[T]) collapse(onErr func(error)) (T, bool) {
	if r.err != nil {
		onErr(r.err)
		var zero T
		return zero, false
	}
	return r.value, true
}
