package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Config provides access to a parsed configuration file.
type Config struct {
	sections map[string]*Section
	order    []string // maintains section order
}

// New creates a new empty Config.
func New() *Config {
	return &Config{
		sections: make(map[string]*Section),
	}
}

// Load reads a configuration file and returns a Config.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: unable to open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// LoadString parses configuration data from a string.
func LoadString(data string) (*Config, error) {
	return Parse(strings.NewReader(data))
}

// Parse reads configuration data from a reader.
func Parse(r io.Reader) (*Config, error) {
	c := New()

	var currentSection string
	var currentOptions map[string]string

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		// Strip comments
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}

		// Section header
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if currentSection != "" {
				c.addSection(currentSection, currentOptions)
			}
			header := strings.TrimSpace(line[1 : len(line)-1])
			if header == "" {
				return nil, fmt.Errorf("config: empty section header at line %d", lineNum)
			}
			currentSection = header
			currentOptions = make(map[string]string)
			continue
		}

		// Skip options before first section
		if currentSection == "" {
			continue
		}

		// key: value or key = value
		sep := strings.IndexAny(line, ":=")
		if sep < 0 {
			return nil, fmt.Errorf("config: expected 'option: value' at line %d: %s", lineNum, line)
		}
		key := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		if key == "" {
			return nil, fmt.Errorf("config: empty option name at line %d", lineNum)
		}
		currentOptions[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	if currentSection != "" {
		c.addSection(currentSection, currentOptions)
	}
	return c, nil
}

// addSection registers a parsed section, merging options into an
// existing section of the same name.
func (c *Config) addSection(name string, options map[string]string) {
	key := strings.ToLower(name)
	if existing, ok := c.sections[key]; ok {
		for k, v := range options {
			existing.options[strings.ToLower(k)] = v
		}
		return
	}
	c.sections[key] = newSection(name, options)
	c.order = append(c.order, key)
}

// HasSection checks if a section exists.
func (c *Config) HasSection(name string) bool {
	_, ok := c.sections[strings.ToLower(name)]
	return ok
}

// GetSection returns a section by name.
func (c *Config) GetSection(name string) (*Section, error) {
	if s, ok := c.sections[strings.ToLower(name)]; ok {
		return s, nil
	}
	return nil, ErrMissingSection(name)
}

// SectionNames returns all section names in file order.
func (c *Config) SectionNames() []string {
	names := make([]string, 0, len(c.order))
	for _, key := range c.order {
		names = append(names, c.sections[key].name)
	}
	return names
}

// SectionsWithPrefix returns all sections whose name starts with the
// given prefix (e.g. "tape "), in file order.
func (c *Config) SectionsWithPrefix(prefix string) []*Section {
	prefix = strings.ToLower(prefix)
	var result []*Section
	for _, key := range c.order {
		if strings.HasPrefix(key, prefix) {
			result = append(result, c.sections[key])
		}
	}
	return result
}
