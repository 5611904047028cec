package registry

// Default is the process-wide registry used by the package-level helpers.
var Default = New()

// Set makes c the current connection for id in the default registry.
func Set(id string, c Conn) {
	Default.Set(id, c)
}

// Unset removes id's mapping from the default registry.
func Unset(id string) error {
	return Default.Unset(id)
}

// Current returns id's current connection from the default registry.
func Current(id string) (Conn, bool) {
	return Default.Current(id)
}

// Send writes an outbound packet through id's current connection.
func Send(id, payload string) error {
	return Default.Send(id, payload)
}

// Receive injects an inbound packet through id's current connection.
func Receive(id, payload string) error {
	return Default.Receive(id, payload)
}

// With runs fn with c registered for id in the default registry.
func With(id string, c Conn, fn func() error) error {
	return Default.With(id, c, fn)
}
