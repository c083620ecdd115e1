package model

import "log"

// An Attribute is a value that may be left unspecified until it is inferred.
type Attribute[T any] struct {
	value     T
	specified bool
}

// Specified creates an attribute that holds a value.
func Specified[T any](v T) Attribute[T] {
	return Attribute[T]{value: v, specified: true}
}

// IsSpecified returns true if the attribute holds a value.
func (a Attribute[T]) IsSpecified() bool {
	return a.specified
}

// Get returns the value. It panics if the attribute is unspecified.
func (a Attribute[T]) Get() T {
	if !a.specified {
		log.Panic("reading an unspecified attribute")
	}

	return a.value
}

// GetOr returns the value, or def if the attribute is unspecified.
func (a Attribute[T]) GetOr(def T) T {
	if !a.specified {
		return def
	}

	return a.value
}

// Set assigns a value.
func (a *Attribute[T]) Set(v T) {
	a.value = v
	a.specified = true
}

func attributeFromPtr[T any](p *T) Attribute[T] {
	if p == nil {
		return Attribute[T]{}
	}

	return Specified(*p)
}
