// Package document turns raw layout document bytes into a generic tree of
// maps, slices and scalars.
//
// Three encodings are supported: JSON (the canonical form), TOML and YAML.
// Whatever the encoding, the returned tree is normalized so that every
// mapping is a map[string]any and every sequence is a []any; loaders can
// walk it without caring where it came from.
//
// JSON numbers are decoded as json.Number, TOML integers as int64, and YAML
// integers as int. Consumers that need a number should accept all three.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
)

// Format identifies a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatTOML, FormatYAML}

// ParseFormat validates a format name. Matching is case-insensitive and
// "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", rerrors.New(rerrors.ErrCodeInvalidFormat, "unsupported document format: %q", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", rerrors.New(rerrors.ErrCodeInvalidFormat, "cannot infer document format from %q", path)
	}
	return ParseFormat(ext)
}

// ReadFile reads and decodes the document at path. If f is empty the
// format is inferred from the file extension.
func ReadFile(path string, f Format) (any, error) {
	if f == "" {
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}
	data, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, f)
}

// Read returns the raw bytes of the document at path. A missing file
// fails with a FILE_NOT_FOUND error.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, rerrors.Wrap(rerrors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes an in-memory document.
func Parse(data []byte, f Format) (any, error) {
	return Decode(bytes.NewReader(data), f)
}

// Decode reads a single document of format f from r.
// Malformed input fails with an INVALID_FORMAT error.
func Decode(r io.Reader, f Format) (any, error) {
	var (
		tree any
		err  error
	)
	switch f {
	case FormatJSON:
		tree, err = decodeJSON(r)
	case FormatTOML:
		tree, err = decodeTOML(r)
	case FormatYAML:
		tree, err = decodeYAML(r)
	default:
		return nil, rerrors.New(rerrors.ErrCodeInvalidFormat, "unsupported document format: %q", f)
	}
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidFormat, err, "malformed %s document", f)
	}
	return normalize(tree), nil
}

func decodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	// Anything but whitespace after the value is an error, including a
	// stray closing bracket, which dec.More does not report.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeTOML(r io.Reader) (any, error) {
	var m map[string]any
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeYAML(r io.Reader) (any, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	return v, nil
}

// normalize rewrites decoder-specific container types into map[string]any
// and []any, recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
