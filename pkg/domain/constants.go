package domain

const (
	// DefaultWitnesses is the number of Miller-Rabin rounds used when none is configured.
	// The false-positive bound is 4^-15.
	DefaultWitnesses = 15

	// MaxWitnesses caps configurable round counts.
	MaxWitnesses = 256
)
