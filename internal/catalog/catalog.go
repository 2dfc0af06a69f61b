// Package catalog loads the skill tags offered by the wizard.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

type Catalog struct {
	TechSkills     []string `yaml:"tech_skills"`
	BizSkills      []string `yaml:"biz_skills"`
	FixedBizSkills []string `yaml:"fixed_biz_skills"`
	FixedInterests []string `yaml:"fixed_interests"`
}

var ErrEmptyCatalog = errors.New("catalog: no tech skills defined")

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes catalog YAML. Fixed lists left out of the document keep
// the built-in values.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.TechSkills) == 0 {
		return nil, ErrEmptyCatalog
	}
	if c.FixedBizSkills == nil {
		c.FixedBizSkills = []string{"KPI設計"}
	}
	if c.FixedInterests == nil {
		c.FixedInterests = []string{"Fintech"}
	}
	return &c, nil
}

// HasTech reports whether tag is one of the offered technology skills.
func (c *Catalog) HasTech(tag string) bool {
	return slices.Contains(c.TechSkills, tag)
}
