// Package digest produces hashes of the machine's video output, such that
// runs can be compared against previously recorded values. A changed hash
// means the emulation behaves differently.
//
// SHA-1 is fine here: this is not a cryptographic task.
package digest

// Digest implementations return a hash of everything they observed so far.
type Digest interface {
	Hash() string
	ResetDigest()
}
