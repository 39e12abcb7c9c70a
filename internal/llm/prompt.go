package llm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/akontos/hackmate/internal/data"
)

// Prompt is a TOML prompt template with {{input}} and {{context}}
// placeholders in either part.
type Prompt struct {
	System string `toml:"system"`
	User   string `toml:"user"`
}

// LoadPrompt resolves a named prompt template. A file named <name>.toml in
// overrideDir takes precedence over the embedded default.
func LoadPrompt(name, overrideDir string) (*Prompt, error) {
	if overrideDir != "" {
		path := filepath.Join(overrideDir, name+".toml")
		if _, err := os.Stat(path); err == nil {
			var prompt Prompt
			if _, err := toml.DecodeFile(path, &prompt); err != nil {
				return nil, fmt.Errorf("error decoding prompt file %s: %v", path, err)
			}
			return &prompt, nil
		}
	}

	raw, err := data.Prompts.ReadFile("prompts/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("unknown prompt template: %s", name)
	}
	var prompt Prompt
	if err := toml.Unmarshal(raw, &prompt); err != nil {
		return nil, fmt.Errorf("error decoding embedded prompt %s: %v", name, err)
	}
	return &prompt, nil
}

// Format substitutes the placeholders and returns (system, user) messages.
func (p *Prompt) Format(input, context string) (string, string) {
	replace := func(s string) string {
		s = strings.ReplaceAll(s, "{{input}}", input)
		s = strings.ReplaceAll(s, "{{context}}", context)
		return strings.TrimSpace(s)
	}
	return replace(p.System), replace(p.User)
}
