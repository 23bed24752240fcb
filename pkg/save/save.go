// Package save persists resolved registries: one indented UTF-8 file per
// catalog, written into a freshly cleaned output directory.
package save

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/specmap/pkg/constants"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/registry"
)

var bom = []byte("\xef\xbb\xbf")

// Encode renders a registry in the given format with a trailing newline.
func Encode(r *registry.Registry, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, errors.WrapResource("encode", "registry", r.Publisher, err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", constants.JSONIndent); err != nil {
			return nil, errors.WrapResource("encode", "registry", r.Publisher, err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(r, yaml.Indent(2))
		if err != nil {
			return nil, errors.WrapResource("encode", "registry", r.Publisher, err)
		}
		return data, nil
	}
	return nil, errors.NewValidationError("format", f, "unsupported format")
}

// Decode parses a registry file. A leading byte-order mark is tolerated.
func Decode(data []byte, f Format) (*registry.Registry, error) {
	data = bytes.TrimPrefix(data, bom)
	r := registry.New("")
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, r); err != nil {
			return nil, errors.WrapResource("decode", "registry", "", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, r); err != nil {
			return nil, errors.WrapResource("decode", "registry", "", err)
		}
	default:
		return nil, errors.NewValidationError("format", f, "unsupported format")
	}
	return r, nil
}

// Filename returns the file name for a catalog.
func Filename(catalog string, f Format) string {
	return catalog + f.Ext()
}

// Write encodes r and writes it to dir/<catalog>.<ext>, or to the path or
// writer given in opts. It returns the path written, empty for a writer.
func Write(dir, catalog string, r *registry.Registry, opts ...Option) (string, error) {
	o := Defaults().Apply(opts...)

	data, err := Encode(r, o.Format())
	if err != nil {
		return "", err
	}

	if w := o.Writer(); w != nil {
		if _, err := w.Write(data); err != nil {
			return "", errors.WrapIO("write", catalog, err)
		}
		return "", nil
	}

	path := o.Path()
	if path == "" {
		path = filepath.Join(dir, Filename(catalog, o.Format()))
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}

// Load reads a registry file, choosing the format from its extension.
func Load(path string) (*registry.Registry, error) {
	f, err := ParseFormat(trimDot(filepath.Ext(path)))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("registry", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	r, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Previous loads the existing file for a catalog in dir, trying every
// format. It returns a NotFoundError when none exists.
func Previous(dir, catalog string) (*registry.Registry, string, error) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		path := filepath.Join(dir, Filename(catalog, f))
		r, err := Load(path)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, path, err
		}
		return r, path, nil
	}
	return nil, "", errors.NewNotFoundError("registry", filepath.Join(dir, catalog))
}

// Clean deletes dir and recreates it empty. The filesystem root, the home
// directory and the working directory are refused.
func Clean(dir string) error {
	if dir == "" {
		return errors.NewValidationError("output_dir", dir, "output directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.WrapIO("resolve", dir, err)
	}
	if protected(abs) {
		return errors.NewValidationError("output_dir", dir, "refusing to clean "+abs)
	}

	if err := os.RemoveAll(abs); err != nil {
		return errors.WrapIO("delete", abs, err)
	}
	if err := os.MkdirAll(abs, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", abs, err)
	}
	return nil
}

// Remove deletes the files of the named catalogs from dir in every format
// and leaves the rest of the directory alone. dir is created if missing.
func Remove(dir string, catalogs ...string) error {
	if dir == "" {
		return errors.NewValidationError("output_dir", dir, "output directory is required")
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	for _, catalog := range catalogs {
		for _, f := range []Format{FormatJSON, FormatYAML} {
			path := filepath.Join(dir, Filename(catalog, f))
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return errors.WrapIO("delete", path, err)
			}
		}
	}
	return nil
}

func protected(abs string) bool {
	if abs == filepath.Dir(abs) {
		return true
	}
	if home, err := os.UserHomeDir(); err == nil && abs == filepath.Clean(home) {
		return true
	}
	if wd, err := os.Getwd(); err == nil && abs == filepath.Clean(wd) {
		return true
	}
	return false
}

func trimDot(ext string) string {
	if ext != "" && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
