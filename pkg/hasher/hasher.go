package hasher

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Algorithms lists the supported checksum algorithms.
var Algorithms = []string{"md5", "sha1", "sha256", "sha512"}

// IsValid reports whether algo is supported, ignoring case.
func IsValid(algo string) bool {
	for _, a := range Algorithms {
		if strings.ToLower(algo) == a {
			return true
		}
	}
	return false
}

func newHash(algo string) (hash.Hash, error) {
	switch strings.ToLower(algo) {
	case "md5":
		return md5.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	}
	return nil, fmt.Errorf("unsupported checksum algorithm: %s", algo)
}

// Sum returns the hex digest of everything read from r.
func Sum(r io.Reader, algo string) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File returns the hex digest of the file at path.
func File(path, algo string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Sum(f, algo)
}

// ManifestName is the file WriteManifest creates, e.g. "SHA256SUMS".
func ManifestName(algo string) string {
	return strings.ToUpper(algo) + "SUMS"
}

// WriteManifest writes "<digest>  <name>" lines for the given files, which
// must live in dir, sorted by name. It returns the manifest path.
func WriteManifest(dir string, names []string, algo string) (string, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var b strings.Builder
	for _, name := range sorted {
		sum, err := File(filepath.Join(dir, name), algo)
		if err != nil {
			return "", fmt.Errorf("checksum %s: %w", name, err)
		}
		fmt.Fprintf(&b, "%s  %s\n", sum, name)
	}
	path := filepath.Join(dir, ManifestName(algo))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
