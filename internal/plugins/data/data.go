// Package data provides the bundled data node types.
package data

import (
	"fmt"
	"sort"

	"github.com/zjrosen/entrypoints/internal/loader"
)

func init() {
	loader.RegisterType(func() *ArrayData { return &ArrayData{arrays: map[string][]float64{}} })
	loader.RegisterType(func() *DictData { return &DictData{values: map[string]any{}} })
}

// ArrayData stores named numeric arrays.
type ArrayData struct {
	arrays map[string][]float64
}

// Set stores a copy of values under name.
func (d *ArrayData) Set(name string, values []float64) {
	d.arrays[name] = append([]float64(nil), values...)
}

// Get returns the array stored under name.
func (d *ArrayData) Get(name string) ([]float64, bool) {
	v, ok := d.arrays[name]
	return v, ok
}

// Names returns the array names, sorted.
func (d *ArrayData) Names() []string {
	names := make([]string, 0, len(d.arrays))
	for n := range d.arrays {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (d *ArrayData) String() string { return fmt.Sprintf("array data (%d arrays)", len(d.arrays)) }

// DictData stores a flat attribute dictionary.
type DictData struct {
	values map[string]any
}

// Set stores value under key.
func (d *DictData) Set(key string, value any) {
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *DictData) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Len returns the number of keys.
func (d *DictData) Len() int { return len(d.values) }

func (d *DictData) String() string { return fmt.Sprintf("dict data (%d keys)", len(d.values)) }
