// ABOUTME: Typed loading and validation of all static clinical configuration
// ABOUTME: Schema violations are fatal at load time, never deferred to first use
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruralcare/triage-engine/internal/models"
)

// FallbackSyndromeID names the syndrome used when no match clears the
// similarity threshold. The library must always contain it.
const FallbackSyndromeID = "non_specific_mild_illness"

// GeneralTemplateID is the per-specialist fallback template. Every
// specialist in the MDT rules must define it.
const GeneralTemplateID = "general"

// Syndrome is a named clinical pattern matched by semantic similarity.
type Syndrome struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Keywords        []string `yaml:"keywords"`
	DefaultTemplate string   `yaml:"default_template"`
}

// RuleSet is the static nurse-facing content behind a PCP template.
type RuleSet struct {
	ConditionSummary   string   `yaml:"condition_summary"`
	PossibleCauses     []string `yaml:"possible_causes"`
	NurseActions       []string `yaml:"nurse_actions"`
	EscalationCriteria []string `yaml:"escalation_criteria"`
	MedicinesAdvised   []string `yaml:"medicines_advised"`
}

// SpecialistTemplate is one matchable opinion template for a specialist.
// Description, when present, is what gets embedded for matching;
// otherwise the impression is used.
type SpecialistTemplate struct {
	ID           string   `yaml:"id"`
	Description  string   `yaml:"description"`
	Impression   string   `yaml:"impression"`
	NurseActions []string `yaml:"nurse_actions"`
	Escalation   []string `yaml:"escalation"`
	Medicines    []string `yaml:"medicines"`
}

// MatchText returns the text embedded for template matching.
func (t *SpecialistTemplate) MatchText() string {
	if t.Description != "" {
		return t.Description
	}
	return t.Impression
}

// Snippet is one retrieval-augmentation passage.
type Snippet struct {
	Text   string `yaml:"text"`
	Source string `yaml:"source"`
}

// Catalog is the process-wide, read-only clinical configuration. Loaded
// once at startup and shared by all sessions without locking.
type Catalog struct {
	Clusters         []models.Cluster
	Syndromes        []Syndrome
	PCPRules         map[string]RuleSet
	MDTRules         map[string][]SpecialistTemplate
	AllowedMedicines []string
	Snippets         []Snippet
}

type clustersFile struct {
	Clusters []models.Cluster `yaml:"clusters"`
}

type syndromesFile struct {
	Syndromes []Syndrome `yaml:"syndromes"`
}

type pcpRulesFile struct {
	Rules map[string]RuleSet `yaml:"rules"`
}

type mdtRulesFile struct {
	Specialists map[string][]SpecialistTemplate `yaml:"specialists"`
}

type medicinesFile struct {
	Allowed []string `yaml:"allowed"`
}

type ragStoreFile struct {
	Snippets []Snippet `yaml:"snippets"`
}

// Load reads and validates every catalog file under dir. Any missing
// file or schema violation is an error; callers treat it as fatal.
func Load(dir string) (*Catalog, error) {
	cat := &Catalog{}

	var clusters clustersFile
	if err := readYAML(filepath.Join(dir, "clusters.yaml"), &clusters); err != nil {
		return nil, err
	}
	cat.Clusters = clusters.Clusters

	var syndromes syndromesFile
	if err := readYAML(filepath.Join(dir, "syndromes.yaml"), &syndromes); err != nil {
		return nil, err
	}
	cat.Syndromes = syndromes.Syndromes

	var pcp pcpRulesFile
	if err := readYAML(filepath.Join(dir, "pcp_rules.yaml"), &pcp); err != nil {
		return nil, err
	}
	cat.PCPRules = pcp.Rules

	var mdt mdtRulesFile
	if err := readYAML(filepath.Join(dir, "mdt_rules.yaml"), &mdt); err != nil {
		return nil, err
	}
	cat.MDTRules = mdt.Specialists

	var meds medicinesFile
	if err := readYAML(filepath.Join(dir, "medicines.yaml"), &meds); err != nil {
		return nil, err
	}
	cat.AllowedMedicines = meds.Allowed

	var rag ragStoreFile
	if err := readYAML(filepath.Join(dir, "rag_store.yaml"), &rag); err != nil {
		return nil, err
	}
	cat.Snippets = rag.Snippets

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Validate checks every cross-reference in the static data. A violation
// here indicates corrupt config that could cause clinically wrong
// output, so it is surfaced immediately rather than defaulted.
func (c *Catalog) Validate() error {
	if len(c.Clusters) == 0 {
		return fmt.Errorf("catalog has no symptom clusters")
	}
	seen := make(map[string]bool, len(c.Clusters))
	for i := range c.Clusters {
		cl := &c.Clusters[i]
		if cl.Name == "" {
			return fmt.Errorf("cluster %d has no name", i)
		}
		if seen[cl.Name] {
			return fmt.Errorf("duplicate cluster %q", cl.Name)
		}
		seen[cl.Name] = true
		if len(cl.Keywords) == 0 {
			return fmt.Errorf("cluster %q has no keywords", cl.Name)
		}
		if len(cl.Questions) == 0 {
			return fmt.Errorf("cluster %q has no questions", cl.Name)
		}
		slots := make(map[string]bool, len(cl.Questions))
		for _, q := range cl.Questions {
			if q.Slot == "" || q.Text == "" {
				return fmt.Errorf("cluster %q has an incomplete question", cl.Name)
			}
			if slots[q.Slot] {
				return fmt.Errorf("cluster %q has duplicate slot %q", cl.Name, q.Slot)
			}
			slots[q.Slot] = true
		}
	}

	if len(c.Syndromes) == 0 {
		return fmt.Errorf("syndrome library is empty")
	}
	foundFallback := false
	for _, s := range c.Syndromes {
		if s.ID == "" {
			return fmt.Errorf("syndrome %q has no id", s.Name)
		}
		if _, ok := c.PCPRules[s.DefaultTemplate]; !ok {
			return fmt.Errorf("syndrome %q references unknown template %q", s.ID, s.DefaultTemplate)
		}
		if s.ID == FallbackSyndromeID {
			foundFallback = true
		}
	}
	if !foundFallback {
		return fmt.Errorf("syndrome library is missing the %q fallback", FallbackSyndromeID)
	}

	if len(c.MDTRules) == 0 {
		return fmt.Errorf("MDT rules are empty")
	}
	for specialist, templates := range c.MDTRules {
		hasGeneral := false
		ids := make(map[string]bool, len(templates))
		for _, tpl := range templates {
			if tpl.ID == "" || tpl.Impression == "" {
				return fmt.Errorf("specialist %q has an incomplete template", specialist)
			}
			if ids[tpl.ID] {
				return fmt.Errorf("specialist %q has duplicate template %q", specialist, tpl.ID)
			}
			ids[tpl.ID] = true
			if tpl.ID == GeneralTemplateID {
				hasGeneral = true
			}
		}
		if !hasGeneral {
			return fmt.Errorf("specialist %q is missing the %q template", specialist, GeneralTemplateID)
		}
	}

	if len(c.AllowedMedicines) == 0 {
		return fmt.Errorf("medicine allow-list is empty")
	}
	for i, sn := range c.Snippets {
		if sn.Text == "" || sn.Source == "" {
			return fmt.Errorf("RAG snippet %d is missing text or source", i)
		}
	}

	return nil
}

// Cluster looks up a cluster by name, or nil.
func (c *Catalog) Cluster(name string) *models.Cluster {
	for i := range c.Clusters {
		if c.Clusters[i].Name == name {
			return &c.Clusters[i]
		}
	}
	return nil
}

// SyndromeByID looks up a syndrome by id, or nil.
func (c *Catalog) SyndromeByID(id string) *Syndrome {
	for i := range c.Syndromes {
		if c.Syndromes[i].ID == id {
			return &c.Syndromes[i]
		}
	}
	return nil
}

// FallbackSyndrome returns the non-specific mild illness syndrome.
// Validate guarantees it exists.
func (c *Catalog) FallbackSyndrome() *Syndrome {
	return c.SyndromeByID(FallbackSyndromeID)
}

// AllSymptoms returns the deduplicated, lower-cased keyword vocabulary
// across every cluster. Used by the shortlister.
func (c *Catalog) AllSymptoms() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range c.Clusters {
		for _, kw := range c.Clusters[i].Keywords {
			lower := strings.ToLower(kw)
			if !seen[lower] {
				seen[lower] = true
				out = append(out, lower)
			}
		}
	}
	return out
}
