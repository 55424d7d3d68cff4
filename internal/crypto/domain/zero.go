package domain

// Zero overwrites key material (the shared secret, derived map keys and freshly
// generated secrets) once it is no longer needed. Nil slices are ignored.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
