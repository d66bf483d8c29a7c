// Package help serves the static help content: a numbered topic menu and
// the topic bodies. Content lives in an embedded YAML table so the engine
// carries no copy of it.
package help

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var topicsYAML []byte

// Topic is one help entry.
type Topic struct {
	Title    string   `yaml:"title"`
	Keywords []string `yaml:"keywords"`
	Text     string   `yaml:"text"`
}

type content struct {
	Disclaimer string           `yaml:"disclaimer"`
	Topics     map[string]Topic `yaml:"topics"`
}

var loaded content

func init() {
	if err := yaml.Unmarshal(topicsYAML, &loaded); err != nil {
		panic(fmt.Sprintf("help: bad embedded topics.yaml: %v", err))
	}
}

// Menu renders the numbered topic menu.
func Menu() string {
	keys := make([]string, 0, len(loaded.Topics))
	for k := range loaded.Topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("How can I help?\n\nPick a topic (reply with the number):\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s) %s\n", k, loaded.Topics[k].Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

// GetTopic returns the body for a topic key, with the disclaimer footer
// attached. ok is false for unknown keys.
func GetTopic(key string) (string, bool) {
	t, ok := loaded.Topics[key]
	if !ok {
		return "", false
	}
	return t.Text + "\n" + loaded.Disclaimer, true
}
