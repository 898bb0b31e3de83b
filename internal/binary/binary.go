package binary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a binary artifact staged for scanning. Detectors consume it
// read-only and only need a resolvable path; the size and digest identify the
// artifact in reports. Parsing of the executable format is left to the
// matching engine.
type File struct {
	path   string
	size   int64
	sha256 string
}

// Open stats and fingerprints the file at path.
func Open(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a binary", abs)
	}

	digest, err := hashFile(abs)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", abs, err)
	}

	return &File{path: abs, size: info.Size(), sha256: digest}, nil
}

// Path returns the resolved absolute path of the artifact.
func (f *File) Path() string { return f.path }

// Size returns the artifact size in bytes.
func (f *File) Size() int64 { return f.size }

// SHA256 returns the hex-encoded SHA-256 digest of the artifact.
func (f *File) SHA256() string { return f.sha256 }

func hashFile(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
