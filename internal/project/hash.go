package project

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Hex returns the digest as lower-case hex.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// DigestBytes hashes b.
func DigestBytes(b []byte) Digest {
	return sha256.Sum256(b)
}

// DigestString hashes s.
func DigestString(s string) Digest {
	return sha256.Sum256([]byte(s))
}

// DigestFile hashes the content of the file at path.
func DigestFile(path string) (Digest, error) {
	// #nosec G304 -- path comes from report discovery
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Digest{}, err
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Combine строит составной хеш: H( content || part1 || part2 ... ).
// Порядок частей должен быть детерминированным.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
