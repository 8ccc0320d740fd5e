package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wagiedev/capture-go/internal/errors"
)

// Manifest is a YAML description of one run.
//
//	args: [python, -c, "print(input())"]
//	input: ok
//	text: true
//	capture_output: true
//	timeout: 30s
//
// Unknown keys are rejected.
type Manifest struct {
	Args          ManifestArgs      `yaml:"args"`
	Shell         bool              `yaml:"shell"`
	Executable    string            `yaml:"executable"`
	Env           map[string]string `yaml:"env"`
	Dir           string            `yaml:"dir"`
	Text          bool              `yaml:"text"`
	Encoding      string            `yaml:"encoding"`
	RawTimeout    string            `yaml:"timeout"` // e.g. "5m", "30s"
	Check         bool              `yaml:"check"`
	CaptureOutput bool              `yaml:"capture_output"`
	Input         *string           `yaml:"input"`
	Extras        map[string]any    `yaml:"extras"`
}

// ManifestArgs accepts either a YAML sequence (argv) or a scalar (a command
// line).
type ManifestArgs struct {
	Argv   []string
	Line   string
	IsLine bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *ManifestArgs) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		a.IsLine = true

		return value.Decode(&a.Line)
	case yaml.SequenceNode:
		return value.Decode(&a.Argv)
	default:
		return fmt.Errorf("line %d: args must be a string or a list of strings", value.Line)
	}
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return m, nil
}

// ParseManifest parses a YAML manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	m := &Manifest{}
	if err := dec.Decode(m); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, &errors.ConfigError{Option: "args", Reason: "manifest is empty", Err: errors.ErrEmptyCommand}
		}

		return nil, err
	}

	return m, nil
}

// Timeout returns the parsed timeout, or zero when none is set.
func (m *Manifest) Timeout() (time.Duration, error) {
	if m.RawTimeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(m.RawTimeout)
	if err != nil {
		return 0, &errors.ConfigError{Option: "timeout", Err: err}
	}

	return d, nil
}

// Command builds the CommandSpec described by m.
func (m *Manifest) Command() CommandSpec {
	var cmd CommandSpec

	switch {
	case m.Shell:
		cmd.Shell = true
		cmd.Line = m.Args.Line

		if !m.Args.IsLine {
			cmd.Line = strings.Join(m.Args.Argv, " ")
		}
	case m.Args.IsLine:
		cmd.Argv = SplitLine(m.Args.Line)
	default:
		cmd.Argv = slices.Clone(m.Args.Argv)
	}

	cmd.Executable = m.Executable
	cmd.Dir = m.Dir

	if m.Env != nil {
		keys := make([]string, 0, len(m.Env))
		for k := range m.Env {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		cmd.Env = make([]string, 0, len(keys))
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+m.Env[k])
		}
	}

	return cmd
}

// Apply copies the run settings of m into o.
func (m *Manifest) Apply(o *Options) error {
	timeout, err := m.Timeout()
	if err != nil {
		return err
	}

	o.Text = m.Text
	o.Encoding = m.Encoding
	o.Timeout = timeout
	o.Check = m.Check
	o.CaptureOutput = m.CaptureOutput

	if m.Input != nil {
		s := *m.Input
		o.InputString = &s
	}

	if len(m.Extras) > 0 {
		o.Extras = make(map[string]any, len(m.Extras))
		for k, v := range m.Extras {
			o.Extras[k] = v
		}
	}

	return nil
}

// SplitLine splits a non-shell command string into the program and a single
// argument holding the rest of the line. No quoting rules are applied.
func SplitLine(s string) []string {
	program, rest, found := strings.Cut(s, " ")
	if !found {
		return []string{program}
	}

	return []string{program, rest}
}
