package domain

// IDGenerator produces identifiers for new user rows. Injected so services
// stay deterministic in tests.
type IDGenerator interface {
	NewID() string
}
