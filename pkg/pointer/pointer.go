// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional values.

The panel stores a few nullable columns (a profile's email) as pointers; these
helpers keep the nil handling out of the domain code.

Key Functions:
  - NonZero: Returns a pointer, or nil for the zero value.
  - Val: Safely dereferences a pointer, returning the zero value if nil.
*/
package pointer

// NonZero returns a pointer to v, or nil when v is the zero value of its type.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// Val safely dereferences a pointer.
// If the pointer is nil, it returns the zero value of the underlying type.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
