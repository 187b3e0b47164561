package ports

// Hasher computes stable content fingerprints.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// Name reports the algorithm name the hasher is registered under.
	Name() string

	// Hash returns the lowercase hex digest of data. The result depends
	// only on the bytes, never on platform or process state.
	Hash(data []byte) string

	// HashInputs returns the hex digest over a sequence of byte slices.
	// Each part is framed by its length so shifting bytes between parts
	// changes the digest.
	HashInputs(parts ...[]byte) string
}
