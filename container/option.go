package container

import "fmt"

// Option holds either a value of type T or nothing. Unlike a pointer or a zero value, it can tell "set to the zero
// value" apart from "not set", which matters for positions where (0, 0) is perfectly valid.
type Option[T any] struct {
	v   T
	set bool
}

func (opt Option[T]) String() string {
	if !opt.set {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", opt.v)
}

func None[T any]() Option[T] {
	return Option[T]{}
}

func Some[T any](v T) Option[T] {
	return Option[T]{
		v:   v,
		set: true,
	}
}

func (opt Option[T]) Get() (T, bool) {
	return opt.v, opt.set
}

func (opt Option[T]) GetOr(alt T) T {
	if opt.set {
		return opt.v
	} else {
		return alt
	}
}

func (opt Option[T]) IsSome() bool {
	return opt.set
}

// Take returns the value, if any, and leaves opt empty.
func (opt *Option[T]) Take() (T, bool) {
	v, ok := opt.v, opt.set
	*opt = Option[T]{}
	return v, ok
}
