package types

// Ptr returns a pointer to a copy of the passed value.
// Intended use is to populate optional fields of records from literals
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value the pointer points to, or the zero value of the type when it's nil
func Deref[T any](p *T) (res T) {
	if p != nil {
		res = *p
	}
	return
}

// DerefOr returns the value the pointer points to, or the fallback when it's nil
func DerefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// IsZero reports whether the pointer is nil or points to the zero value of its type
func IsZero[T comparable](p *T) bool {
	var zero T
	return p == nil || *p == zero
}
