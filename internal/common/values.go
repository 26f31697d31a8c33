package common

// BoolOr dereferences v, or returns def when v is nil.
func BoolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}

	return *v
}
