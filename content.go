package main

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

// Content is everything the portfolio pages display.
type Content struct {
	Name      string       `yaml:"name"`
	Tagline   string       `yaml:"tagline"`
	Summary   string       `yaml:"summary"`
	About     string       `yaml:"about"`
	ResumeURL string       `yaml:"resume_url"`
	Contact   ContactInfo  `yaml:"contact"`
	Skills    []SkillGroup `yaml:"skills"`
	Work      []Position   `yaml:"work"`
	Education []Schooling  `yaml:"education"`
	Projects  []Project    `yaml:"projects"`
}

type ContactInfo struct {
	Email    string `yaml:"email"`
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
}

type SkillGroup struct {
	Category string   `yaml:"category"`
	Items    []string `yaml:"items"`
}

type Position struct {
	Title   string   `yaml:"title"`
	Company string   `yaml:"company"`
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
	Logo    string   `yaml:"logo"`
	Bullets []string `yaml:"bullets"`
}

type Schooling struct {
	Degree      string   `yaml:"degree"`
	Institution string   `yaml:"institution"`
	Start       string   `yaml:"start"`
	End         string   `yaml:"end"`
	Logo        string   `yaml:"logo"`
	Bullets     []string `yaml:"bullets"`
}

type Project struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Highlights  []string          `yaml:"highlights"`
	TechStack   []string          `yaml:"tech_stack"`
	Details     string            `yaml:"details"`
	Links       map[string]string `yaml:"links"`
}

func loadContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if c.Name == "" {
		return nil, errors.New("parse content: name is required")
	}
	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.ID == "" || seen[p.ID] {
			return nil, fmt.Errorf("parse content: project %q needs a unique id", p.Title)
		}
		seen[p.ID] = true
	}
	return &c, nil
}
