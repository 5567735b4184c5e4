// Package rawvol reads and writes volumes as raw little-endian voxel data
// with a YAML sidecar describing dimensions and element type. The sidecar
// lives next to the data file with a .yaml suffix appended, so volume.raw is
// described by volume.raw.yaml.
package rawvol

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"morpho3d/pkg/volume"
)

// Header is the sidecar content.
type Header struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Depth  int    `yaml:"depth"`
	Dtype  string `yaml:"dtype"`
}

func sidecarPath(path string) string {
	return path + ".yaml"
}

// DtypeName returns the sidecar dtype string for the element type.
func DtypeName[T volume.Element]() (string, error) {
	var z T
	switch any(z).(type) {
	case int8:
		return "int8", nil
	case int16:
		return "int16", nil
	case int32:
		return "int32", nil
	case int64:
		return "int64", nil
	case uint8:
		return "uint8", nil
	case uint16:
		return "uint16", nil
	case uint32:
		return "uint32", nil
	case uint64:
		return "uint64", nil
	case float32:
		return "float32", nil
	case float64:
		return "float64", nil
	}
	return "", fmt.Errorf("unsupported element type %T", z)
}

// ReadHeader loads and validates the sidecar of the given data file.
func ReadHeader(path string) (Header, error) {
	var h Header
	data, err := os.ReadFile(sidecarPath(path))
	if err != nil {
		return h, fmt.Errorf("error reading volume header: %w", err)
	}
	if err := yaml.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("error parsing volume header: %w", err)
	}
	if h.Width < 1 || h.Height < 1 || h.Depth < 1 {
		return h, fmt.Errorf("invalid volume dimensions %dx%dx%d in header", h.Width, h.Height, h.Depth)
	}
	if h.Dtype == "" {
		return h, fmt.Errorf("volume header is missing dtype")
	}
	return h, nil
}

// Read loads the data file into a volume of element type T. The sidecar
// dtype must match T exactly.
func Read[T volume.Element](path string) (*volume.Volume[T], error) {
	h, err := ReadHeader(path)
	if err != nil {
		return nil, err
	}
	want, err := DtypeName[T]()
	if err != nil {
		return nil, err
	}
	if h.Dtype != want {
		return nil, fmt.Errorf("volume dtype is %s, expected %s", h.Dtype, want)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening volume data: %w", err)
	}
	defer f.Close()

	v := volume.New[T](h.Width, h.Height, h.Depth)
	if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, v.Data); err != nil {
		return nil, fmt.Errorf("error reading volume data: %w", err)
	}
	return v, nil
}

// Write stores the volume as raw data plus sidecar.
func Write[T volume.Element](path string, v *volume.Volume[T]) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("invalid volume: %w", err)
	}
	dtype, err := DtypeName[T]()
	if err != nil {
		return err
	}

	h := Header{Width: v.Width, Height: v.Height, Depth: v.Depth, Dtype: dtype}
	meta, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("error marshaling volume header: %w", err)
	}
	if err := os.WriteFile(sidecarPath(path), meta, 0644); err != nil {
		return fmt.Errorf("error writing volume header: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating volume data file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, v.Data); err != nil {
		return fmt.Errorf("error writing volume data: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error flushing volume data: %w", err)
	}
	return nil
}
