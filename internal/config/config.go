package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ifscloud/internal/ifs"
)

const (
	DefaultIterations  = 50000
	DefaultSkipInitial = 1000
	DefaultPointSize   = 3.0
	DefaultScale       = 1.0

	// DocumentVersion is written into every saved document.
	DocumentVersion = "1.0"
)

var (
	// ErrNoMatrices indicates a document without a matrices list.
	ErrNoMatrices = errors.New("config: document has no matrices array")

	// ErrUnknownExtension indicates a path whose extension has no codec.
	ErrUnknownExtension = errors.New("config: unsupported file extension")

	ErrInvalidSettings = errors.New("config: invalid settings")
)

// Settings are the generation parameters stored alongside a transform set.
// PointSize is for viewers only and Scale applies only to exports.
type Settings struct {
	Iterations    int     `json:"iterations" yaml:"iterations" toml:"iterations"`
	SkipInitial   int     `json:"skipInitial" yaml:"skip_initial" toml:"skip_initial"`
	RandomSeed    bool    `json:"randomSeed" yaml:"random_seed" toml:"random_seed"`
	Seed          int64   `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	AutoNormalize bool    `json:"autoNormalize" yaml:"auto_normalize" toml:"auto_normalize"`
	PointSize     float64 `json:"pointSize" yaml:"point_size" toml:"point_size"`
	Scale         float64 `json:"scale,omitempty" yaml:"scale,omitempty" toml:"scale,omitempty"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Iterations:    DefaultIterations,
		SkipInitial:   DefaultSkipInitial,
		RandomSeed:    true,
		AutoNormalize: true,
		PointSize:     DefaultPointSize,
		Scale:         DefaultScale,
	}
}

func (s *Settings) Validate() error {
	switch {
	case s.Iterations < 0:
		return fmt.Errorf("%w: iterations must be >= 0, got %d", ErrInvalidSettings, s.Iterations)
	case s.SkipInitial < 0:
		return fmt.Errorf("%w: skipInitial must be >= 0, got %d", ErrInvalidSettings, s.SkipInitial)
	case s.Scale < 0:
		return fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidSettings, s.Scale)
	}
	return nil
}

// Document is a saved transform set with its settings.
type Document struct {
	Version   string          `json:"version" yaml:"version" toml:"version"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Matrices  []ifs.Transform `json:"matrices" yaml:"matrices" toml:"matrices"`
	Settings  *Settings       `json:"settings,omitempty" yaml:"settings,omitempty" toml:"settings,omitempty"`
}

// NewDocument stamps ts and s with the current version and time.
func NewDocument(ts []ifs.Transform, s *Settings) *Document {
	return &Document{
		Version:   DocumentVersion,
		Timestamp: time.Now().UTC(),
		Matrices:  ifs.Clone(ts),
		Settings:  s,
	}
}

// Codec is a document serialization keyed by file extension.
type Codec string

const (
	JSON Codec = "json"
	YAML Codec = "yaml"
	TOML Codec = "toml"
)

// CodecFor picks the codec from a path extension.
func CodecFor(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExtension, filepath.Ext(path))
}

func Marshal(doc *Document, c Codec) ([]byte, error) {
	switch c {
	case JSON:
		return json.MarshalIndent(doc, "", "  ")
	case YAML:
		return yaml.Marshal(doc)
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, c)
}

// Unmarshal decodes and imports a document: the matrices list must be
// present, every transform gets a fresh ID and missing settings are
// filled from DefaultSettings.
func Unmarshal(data []byte, c Codec) (*Document, error) {
	doc := &Document{}
	var err error
	switch c {
	case JSON:
		err = json.Unmarshal(data, doc)
	case YAML:
		err = yaml.Unmarshal(data, doc)
	case TOML:
		err = toml.Unmarshal(data, doc)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownExtension, c)
	}
	if err != nil {
		return nil, err
	}
	if err := doc.importMatrices(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) importMatrices() error {
	if d.Matrices == nil {
		return ErrNoMatrices
	}
	for i := range d.Matrices {
		d.Matrices[i].ID = uuid.NewString()
	}
	if err := ifs.ValidateAll(d.Matrices); err != nil {
		return err
	}
	if d.Settings == nil {
		d.Settings = DefaultSettings()
	}
	if d.Version == "" {
		d.Version = DocumentVersion
	}
	return d.Settings.Validate()
}

func Load(path string) (*Document, error) {
	c, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Unmarshal(data, c)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

func Save(path string, doc *Document) error {
	c, err := CodecFor(path)
	if err != nil {
		return err
	}
	data, err := Marshal(doc, c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
