package appicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the command line flags in a YAML file, so the icon settings can be
// committed next to the flutter_launcher_icons configuration.
//
//	image_path: assets/images/app_icon.svg
//	background: "#ffffff"
//	inset: 16
//	sizes: [android, 512]
//	favicon: true
type Config struct {
	ImagePath      string   `yaml:"image_path"`
	OutputDir      string   `yaml:"output_dir"`
	Size           int      `yaml:"size"`
	Background     string   `yaml:"background"`
	BackgroundOp   string   `yaml:"background_op"`
	Inset          int      `yaml:"inset"`
	Sizes          SizeList `yaml:"sizes"`
	Monochrome     bool     `yaml:"monochrome"`
	Favicon        bool     `yaml:"favicon"`
	FaviconSize    int      `yaml:"favicon_size"`
	Stretch        bool     `yaml:"stretch"`
	OutputName     string   `yaml:"output_name"`
	ForegroundName string   `yaml:"foreground_name"`
	Workers        int      `yaml:"workers"`
}

// SizeList accepts either a YAML sequence or a comma separated string
// of sizes and preset names.
type SizeList []int

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (s *SizeList) UnmarshalYAML(value *yaml.Node) error {
	var fields []string

	switch value.Kind {
	case yaml.ScalarNode:
		fields = append(fields, value.Value)
	case yaml.SequenceNode:
		for _, n := range value.Content {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: sizes should only contain numbers or preset names", n.Line)
			}
			fields = append(fields, n.Value)
		}
	default:
		return fmt.Errorf("line %d: sizes should be a list", value.Line)
	}

	sizes, err := ParseSizes(strings.Join(fields, ","))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = sizes
	return nil
}

// LoadConfig reads and decodes the YAML configuration file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read the config file: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Apply copies the configured values into the processor and the operation options.
// isSet reports whether a command line flag was given explicitly, in which case it wins
// over the config file.
func (c *Config) Apply(p *Processor, op *Ops, isSet func(flag string) bool) {
	if isSet == nil {
		isSet = func(string) bool { return false }
	}
	if c.ImagePath != "" && !isSet("in") {
		op.Src = c.ImagePath
	}
	if c.OutputDir != "" && !isSet("out") {
		op.Dst = c.OutputDir
	}
	if c.Workers > 0 && !isSet("conc") {
		op.Workers = c.Workers
	}
	if c.OutputName != "" {
		op.Names.Icon = c.OutputName
	}
	if c.ForegroundName != "" {
		op.Names.Foreground = c.ForegroundName
	}
	if c.Size != 0 && !isSet("size") {
		p.Size = c.Size
	}
	if c.Background != "" && !isSet("bg") {
		p.Background = c.Background
	}
	if c.BackgroundOp != "" && !isSet("bg-op") {
		p.BackgroundOp = c.BackgroundOp
	}
	if c.Inset != 0 && !isSet("inset") {
		p.Inset = c.Inset
	}
	if len(c.Sizes) > 0 && !isSet("sizes") {
		p.Sizes = c.Sizes
	}
	if c.Monochrome && !isSet("monochrome") {
		p.Monochrome = true
	}
	if c.Favicon && !isSet("favicon") {
		p.Favicon = true
	}
	if c.FaviconSize != 0 && !isSet("favicon-size") {
		p.FaviconSize = c.FaviconSize
	}
	if c.Stretch && !isSet("stretch") {
		p.Stretch = true
	}
}
