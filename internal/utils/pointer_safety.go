package utils

// Value dereferences v, returning the zero value for a nil pointer. Handy
// for the optional profile fields (image URL, phone number).
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// ValueOr dereferences v, returning fallback for a nil pointer.
func ValueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}
