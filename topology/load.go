package topology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a profile set file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported profile file extension %q", filepath.Ext(path))
	}
}

// LoadProfileSet reads a profile set file. Unknown fields are rejected.
func LoadProfileSet(path string) (ProfileSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return ProfileSet{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("failed to read profile set %s: %w", path, err)
	}

	set, err := DecodeProfileSet(data, format)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("failed to decode profile set %s: %w", path, err)
	}

	return set, nil
}

// DecodeProfileSet decodes a profile set in the given format.
func DecodeProfileSet(data []byte, format Format) (ProfileSet, error) {
	var set ProfileSet

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&set); err != nil && !errors.Is(err, io.EOF) {
			return ProfileSet{}, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&set); err != nil {
			return ProfileSet{}, err
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&set); err != nil {
			return ProfileSet{}, err
		}
	default:
		return ProfileSet{}, fmt.Errorf("unsupported profile format %q", format)
	}

	return set, nil
}

// ResolveProfileSet returns the built-in preset named nameOrPath, or loads it as a file.
func ResolveProfileSet(nameOrPath string) (ProfileSet, error) {
	if set, ok := Preset(nameOrPath); ok {
		return set, nil
	}

	return LoadProfileSet(nameOrPath)
}

// EncodeDocument writes doc as indented JSON or YAML.
func EncodeDocument(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format %q", format)
	}
}
