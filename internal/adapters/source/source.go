// Package source supplies the registrations a roster run ingests.
package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/roster/internal/domain/model"
)

// Sentinel kinds for source errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported roster file format")
	ErrDecode            = errors.New("decode roster file")
)

// Source yields registrations in arrival order.
type Source interface {
	Registrations(ctx context.Context) ([]model.Registration, error)
}

// rosterFile is the on-disk layout shared by YAML and TOML files:
//
//	registrations:
//	  - name: Alice
//	    score: 95
type rosterFile struct {
	Registrations []model.Registration `koanf:"registrations" toml:"registrations"`
}

// Builtin returns the fixed registrations compiled into the binary.
type Builtin struct{}

// Registrations implements Source.
func (Builtin) Registrations(ctx context.Context) ([]model.Registration, error) {
	return model.DefaultRegistrations(), nil
}

// File reads registrations from a YAML or TOML file chosen by extension.
type File struct {
	Path string
}

// Registrations implements Source. Every registration is validated; the
// first invalid one fails the whole file.
func (f File) Registrations(ctx context.Context) ([]model.Registration, error) {
	var (
		rf  rosterFile
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(f.Path)); ext {
	case ".yaml", ".yml":
		rf, err = decodeYAML(f.Path)
	case ".toml":
		rf, err = decodeTOML(f.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	for i, r := range rf.Registrations {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s: registration %d: %w", f.Path, i, err)
		}
	}
	return rf.Registrations, nil
}

func decodeYAML(path string) (rosterFile, error) {
	var rf rosterFile
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return rf, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	// Unknown keys and non-integral scores fail the file, as they do for TOML.
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.DecodeHookFuncKind(rejectFractionalInt),
			ErrorUnused:      true,
			WeaklyTypedInput: false,
			Result:           &rf,
		},
	}
	if err := k.UnmarshalWithConf("", &rf, conf); err != nil {
		return rf, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return rf, nil
}

// rejectFractionalInt stops mapstructure from truncating 95.9 into an int field.
func rejectFractionalInt(from, to reflect.Kind, data interface{}) (interface{}, error) {
	if to != reflect.Int {
		return data, nil
	}
	switch from {
	case reflect.Float32, reflect.Float64:
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
	}
	return data, nil
}

func decodeTOML(path string) (rosterFile, error) {
	var rf rosterFile
	b, err := os.ReadFile(path)
	if err != nil {
		return rf, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	md, err := toml.Decode(string(b), &rf)
	if err != nil {
		return rf, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return rf, fmt.Errorf("%w: %s: unknown keys %v", ErrDecode, path, undecoded)
	}
	return rf, nil
}

// New picks the file source when path is set, the built-in list otherwise.
func New(path string) Source {
	if path == "" {
		return Builtin{}
	}
	return File{Path: path}
}
