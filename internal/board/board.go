// Package board describes the interrupt-controller portion of a board's
// memory map, loaded from a small YAML file.
package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PLIC describes the controller's location and geometry.
type PLIC struct {
	Base         uint64 `yaml:"base"`
	Sources      int    `yaml:"sources"`
	Contexts     int    `yaml:"contexts"`
	PriorityBits int    `yaml:"priority_bits"`
}

// Board is one board description.
type Board struct {
	Name string `yaml:"name"`
	PLIC PLIC   `yaml:"plic"`
}

// Default returns the layout of the QEMU virt machine, the model this
// driver is written against.
func Default() Board {
	return Board{
		Name: "qemu-virt",
		PLIC: PLIC{
			Base:         0x0c00_0000,
			Sources:      1024,
			Contexts:     1,
			PriorityBits: 3,
		},
	}
}

// Parse decodes a board description. Omitted fields keep their Default
// values; the result is validated before it is returned.
func Parse(data []byte) (Board, error) {
	b := Default()
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Board{}, fmt.Errorf("board: parse: %w", err)
	}
	if err := b.validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// Load reads and parses a board description file.
func Load(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("board: %w", err)
	}
	return Parse(data)
}

func (b Board) validate() error {
	p := b.PLIC
	if p.Base == 0 || p.Base%4096 != 0 {
		return fmt.Errorf("board %q: plic base 0x%x must be a nonzero page-aligned address", b.Name, p.Base)
	}
	if p.Sources < 2 || p.Sources > 1024 {
		return fmt.Errorf("board %q: plic source count %d out of range [2, 1024]", b.Name, p.Sources)
	}
	if p.Contexts != 1 {
		return fmt.Errorf("board %q: only single-context controllers are supported, got %d", b.Name, p.Contexts)
	}
	if p.PriorityBits < 1 || p.PriorityBits > 32 {
		return fmt.Errorf("board %q: priority_bits %d out of range [1, 32]", b.Name, p.PriorityBits)
	}
	return nil
}
