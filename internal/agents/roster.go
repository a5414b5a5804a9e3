package agents

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"podlinks/internal/services"
)

//go:embed agents.yml
var defaultRoster []byte

// Roster keys, one per pipeline stage.
const (
	KeyDownloader      = "downloader"
	KeyTranscriber     = "transcriber"
	KeyURLDetector     = "url_detector"
	KeyWebsiteAnalyzer = "website_analyzer"
	KeyReportGenerator = "report_generator"
)

// optionalKeys may be omitted from a roster file; the built-in role fills in.
// Rosters written for the original crew have no downloader entry.
var optionalKeys = map[string]bool{KeyDownloader: true}

// Keys lists the roster keys in pipeline order.
var Keys = []string{KeyDownloader, KeyTranscriber, KeyURLDetector, KeyWebsiteAnalyzer, KeyReportGenerator}

// Role is the display text attached to a stage. It never affects behaviour.
type Role struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
	// LLM is accepted for compatibility with existing rosters and ignored.
	LLM string `yaml:"llm,omitempty"`
}

// Roster maps stage keys to their role text.
type Roster map[string]Role

// Default returns the built-in roster.
func Default() Roster {
	roster, err := decode(defaultRoster, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded agents roster: %v", err))
	}
	return roster
}

// Load reads a roster file. An empty path returns the built-in roster; a
// configured file that is missing or malformed is a configuration error.
func Load(path string) (Roster, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "agents", "load", "roster not found at "+path, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "agents", "load", path, err)
	}
	roster, err := Parse(data)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "agents", "parse", path, err)
	}
	return roster, nil
}

// Parse decodes a YAML roster. Every required stage key must be present with a
// role; optional keys left out take the built-in role.
func Parse(data []byte) (Roster, error) {
	return decode(data, Default)
}

func decode(data []byte, fallback func() Roster) (Roster, error) {
	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if roster == nil {
		roster = Roster{}
	}
	var missing []string
	for _, key := range Keys {
		role, ok := roster[key]
		if !ok || strings.TrimSpace(role.Role) == "" {
			if optionalKeys[key] && fallback != nil {
				roster[key] = fallback()[key]
				continue
			}
			missing = append(missing, key)
			continue
		}
		roster[key] = Role{
			Role:      strings.TrimSpace(role.Role),
			Goal:      strings.TrimSpace(role.Goal),
			Backstory: strings.TrimSpace(role.Backstory),
			LLM:       strings.TrimSpace(role.LLM),
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no configuration found for %s", strings.Join(missing, ", "))
	}
	return roster, nil
}

// Lookup returns the role for key. Unknown keys yield a placeholder role
// named after the key.
func (r Roster) Lookup(key string) Role {
	if role, ok := r[key]; ok {
		return role
	}
	return Role{Role: key}
}
