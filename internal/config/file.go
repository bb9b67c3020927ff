package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file layout.
//
//	urls:
//	  - http://lab.local/cgi-bin/status
//	file: targets.txt
//	threads: 10
//	timeout: 5s
//	output: results.json
type FileConfig struct {
	URLs     []string `yaml:"urls"`
	File     string   `yaml:"file"`
	Threads  int      `yaml:"threads"`
	Timeout  Duration `yaml:"timeout"`
	Output   string   `yaml:"output"`
	Format   string   `yaml:"format"`
	Proxy    string   `yaml:"proxy"`
	Sort     string   `yaml:"sort"`
	OnResult string   `yaml:"on_result"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile parses YAML configuration data. ${VAR} and ${VAR:-default} are
// expanded in URLs, file, output and proxy values.
func ParseFile(data []byte) (*FileConfig, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	var err error
	for i, u := range fc.URLs {
		if fc.URLs[i], err = expandEnvVars(u); err != nil {
			return nil, fmt.Errorf("urls[%d]: %w", i, err)
		}
	}
	for _, field := range []*string{&fc.File, &fc.Output, &fc.Proxy} {
		if *field, err = expandEnvVars(*field); err != nil {
			return nil, err
		}
	}
	if fc.Threads < 0 {
		return nil, fmt.Errorf("threads must be at least 1, got %d", fc.Threads)
	}
	return &fc, nil
}

// Apply copies file values into opts for every option whose flag was not
// set explicitly. changed reports whether a flag was given on the command line.
func (fc *FileConfig) Apply(opts *Options, changed func(flag string) bool) {
	if len(fc.URLs) > 0 && !changed("urls") && len(opts.URLs) == 0 {
		opts.URLs = append([]string(nil), fc.URLs...)
	}
	if fc.File != "" && !changed("file") {
		opts.URLsFile = fc.File
	}
	if fc.Threads > 0 && !changed("threads") {
		opts.Threads = fc.Threads
	}
	if fc.Timeout > 0 && !changed("timeout") {
		opts.Timeout = fc.Timeout.Duration()
	}
	if fc.Output != "" && !changed("output") {
		opts.OutputFile = fc.Output
	}
	if fc.Format != "" && !changed("format") {
		opts.OutputFormat = fc.Format
	}
	if fc.Proxy != "" && !changed("proxy") {
		opts.Proxy = fc.Proxy
	}
	if fc.Sort != "" && !changed("sort") {
		opts.SortBy = fc.Sort
	}
	if fc.OnResult != "" && !changed("on-result") {
		opts.OnResultCmd = fc.OnResult
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func expandEnvVars(s string) (string, error) {
	var firstErr error
	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := envVarPattern.FindStringSubmatch(match)
		name := sub[1]
		hasDefault := sub[2] != ""

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return sub[3]
		}
		firstErr = fmt.Errorf("environment variable %q is not set", name)
		return match
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}
