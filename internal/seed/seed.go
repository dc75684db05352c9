// Package seed provides the device seed the keyring derives keys from.
// Several providers are tried in order, so a simulator run works out of the
// box with the demo seed while real runs can pin one from the environment
// or a file.
package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

// EnvVar is the environment variable EnvProvider reads by default.
const EnvVar = "NANOUI_SEED"

var (
	// ErrNotSet indicates a provider has no seed configured.
	ErrNotSet = errors.New("seed not set")
	// ErrInvalidSeed indicates a configured seed is not valid hex.
	ErrInvalidSeed = errors.New("invalid seed")
	// ErrNoSeed is returned by Resolve when every provider failed.
	ErrNoSeed = errors.New("no seed available")
)

// Provider obtains the device seed from one source.
type Provider interface {
	Name() string
	GetSeed() ([]byte, error)
}

// EnvProvider reads a hex seed from an environment variable.
type EnvProvider struct {
	Var string // Defaults to EnvVar
}

func (e *EnvProvider) Name() string { return "env:" + e.variable() }

// GetSeed reads and decodes the variable. Returns ErrNotSet if it is unset
// or empty.
func (e *EnvProvider) GetSeed() ([]byte, error) {
	raw := os.Getenv(e.variable())
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotSet, e.variable())
	}
	return decode(raw)
}

func (e *EnvProvider) variable() string {
	if e.Var == "" {
		return EnvVar
	}
	return e.Var
}

// FileProvider reads a hex seed from a file. Surrounding whitespace is
// ignored.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file:" + f.Path }

// GetSeed reads and decodes the file. An empty Path or a missing file is
// ErrNotSet.
func (f *FileProvider) GetSeed() ([]byte, error) {
	if f.Path == "" {
		return nil, fmt.Errorf("%w: no seed file configured", ErrNotSet)
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrNotSet, f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return decode(string(data))
}

// DemoProvider returns a fixed, publicly known seed. It never fails.
type DemoProvider struct{}

func (DemoProvider) Name() string { return "demo" }

func (DemoProvider) GetSeed() ([]byte, error) {
	sum := sha256.Sum256([]byte("nanoui demo seed"))
	return sum[:], nil
}

// Resolve returns the seed of the first provider that succeeds, along with
// that provider's name. A provider that is merely not configured is
// skipped; a configured but invalid seed stops the chain.
func Resolve(providers ...Provider) ([]byte, string, error) {
	var errs []error
	for _, p := range providers {
		s, err := p.GetSeed()
		if err == nil {
			return s, p.Name(), nil
		}
		if !errors.Is(err, ErrNotSet) {
			return nil, "", fmt.Errorf("%s: %w", p.Name(), err)
		}
		errs = append(errs, err)
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoSeed, errors.Join(errs...))
}

// Default returns the standard provider chain: environment, then file (if
// path is set), then the demo seed.
func Default(path string) []Provider {
	return []Provider{&EnvProvider{}, &FileProvider{Path: path}, DemoProvider{}}
}

func decode(raw string) ([]byte, error) {
	s, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	return s, nil
}
