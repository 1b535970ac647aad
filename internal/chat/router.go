// Package chat answers site chat messages from keyword rules.
package chat

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultRules []byte

// ActionNavigateContact asks the front-end to open the contact form.
const ActionNavigateContact = "navigate_contact"

// ErrEmptyMessage is returned for blank messages.
var ErrEmptyMessage = errors.New("chat: empty message")

// Rule matches when any keyword (or, with All, every keyword) occurs in the message.
type Rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	All      bool     `yaml:"all,omitempty"`
	Reply    string   `yaml:"reply,omitempty"`
	Action   string   `yaml:"action,omitempty"`
}

// RuleSet is the on-disk rule file.
type RuleSet struct {
	Greeting    string   `yaml:"greeting"`
	Suggestions []string `yaml:"suggestions"`
	Fallback    string   `yaml:"fallback"`
	Rules       []Rule   `yaml:"rules"`
}

// Reply is the router's answer. Rule is empty for the fallback.
type Reply struct {
	Text   string `json:"reply"`
	Action string `json:"action,omitempty"`
	Rule   string `json:"-"`
}

// Router evaluates rules in order; first match wins.
type Router struct {
	set RuleSet
}

// NewRouter returns a router over the embedded default rules.
func NewRouter() *Router {
	r, err := parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("chat: embedded rules invalid: %v", err))
	}
	return r
}

// Load reads a rule file. An empty path returns the default router.
func Load(path string) (*Router, error) {
	if path == "" {
		return NewRouter(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chat rules %s: %w", path, err)
	}
	r, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse chat rules %s: %w", path, err)
	}
	return r, nil
}

func parse(data []byte) (*Router, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	if strings.TrimSpace(set.Fallback) == "" {
		return nil, errors.New("fallback reply is required")
	}
	for i, rule := range set.Rules {
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i+1, rule.Name)
		}
		if rule.Reply == "" && rule.Action == "" {
			return nil, fmt.Errorf("rule %d (%s): needs a reply or an action", i+1, rule.Name)
		}
		if rule.Action != "" && rule.Action != ActionNavigateContact {
			return nil, fmt.Errorf("rule %d (%s): unknown action %q", i+1, rule.Name, rule.Action)
		}
		for j, kw := range rule.Keywords {
			set.Rules[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	return &Router{set: set}, nil
}

// Reply answers a message.
func (r *Router) Reply(message string) (Reply, error) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return Reply{}, ErrEmptyMessage
	}
	for _, rule := range r.set.Rules {
		if rule.matches(msg) {
			return Reply{Text: rule.Reply, Action: rule.Action, Rule: rule.Name}, nil
		}
	}
	return Reply{Text: r.set.Fallback}, nil
}

// Greeting is the opening message.
func (r *Router) Greeting() string { return r.set.Greeting }

// Suggestions are the quick-reply prompts.
func (r *Router) Suggestions() []string {
	return append([]string(nil), r.set.Suggestions...)
}

func (rule Rule) matches(msg string) bool {
	for _, kw := range rule.Keywords {
		hit := strings.Contains(msg, kw)
		if rule.All && !hit {
			return false
		}
		if !rule.All && hit {
			return true
		}
	}
	return rule.All
}
