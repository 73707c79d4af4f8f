package registry

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

//go:embed default.toml
var defaultTOML []byte

// file is the on-disk TOML layout: one [[node]] table per contract.
type file struct {
	Nodes []model.NodeTypeContract `toml:"node"`
}

// Decode reads a TOML registry document from r.
func Decode(r io.Reader) (*Registry, error) {
	var f file
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode registry: unknown key %q", undecoded[0].String())
	}
	return New(f.Nodes...)
}

// LoadFile reads a TOML registry from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Default returns the built-in trading-workflow registry.
func Default() *Registry {
	r, err := Decode(bytes.NewReader(defaultTOML))
	if err != nil {
		panic(fmt.Sprintf("registry: embedded default is invalid: %v", err))
	}
	return r
}
