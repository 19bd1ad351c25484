package main

import (
	"strings"
	"testing"
)

func TestLoadEmbeddedContent(t *testing.T) {
	c, err := loadContent(contentYAML)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Name == "" || len(c.Projects) == 0 || len(c.Work) == 0 || len(c.Education) == 0 {
		t.Fatalf("content incomplete: %+v", c)
	}
	for _, p := range c.Projects {
		if p.Title == "" || p.Description == "" {
			t.Fatalf("project %q is missing text", p.ID)
		}
	}
}

func TestLoadContentErrors(t *testing.T) {
	tests := map[string]string{
		"missing name":  "tagline: hi\n",
		"duplicate ids": "name: A\nprojects:\n  - id: x\n    title: One\n  - id: x\n    title: Two\n",
		"missing id":    "name: A\nprojects:\n  - title: One\n",
		"bad yaml":      "name: [unclosed\n",
	}
	for name, in := range tests {
		if _, err := loadContent([]byte(in)); err == nil || !strings.HasPrefix(err.Error(), "parse content") {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
}
