// ABOUTME: Tests for catalog loading and validation
// ABOUTME: Every cross-reference violation must fail at load time
package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruralcare/triage-engine/internal/models"
)

func validCatalog() *Catalog {
	return &Catalog{
		Clusters: []models.Cluster{
			{
				Name:     "fever_general",
				Keywords: []string{"fever"},
				Questions: []models.Question{
					{Slot: "duration", Text: "Since how many days has the fever been present?"},
				},
				Priority: 2,
			},
		},
		Syndromes: []Syndrome{
			{ID: "viral_fever", Name: "Viral fever", Keywords: []string{"fever"}, DefaultTemplate: "viral_fever"},
			{ID: FallbackSyndromeID, Name: "Non-specific mild illness", Keywords: []string{"unwell"}, DefaultTemplate: "viral_fever"},
		},
		PCPRules: map[string]RuleSet{
			"viral_fever": {ConditionSummary: "Likely viral fever."},
		},
		MDTRules: map[string][]SpecialistTemplate{
			"GeneralPhysician": {
				{ID: GeneralTemplateID, Impression: "General review advised."},
			},
		},
		AllowedMedicines: []string{"Doctor may consider Paracetamol"},
		Snippets: []Snippet{
			{Text: "Advise fluids.", Source: "Field guide"},
		},
	}
}

func TestCatalog_Validate_OK(t *testing.T) {
	if err := validCatalog().Validate(); err != nil {
		t.Fatalf("Validate() on valid catalog: %v", err)
	}
}

func TestCatalog_Validate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Catalog)
		wantMsg string
	}{
		{
			name:    "no clusters",
			mutate:  func(c *Catalog) { c.Clusters = nil },
			wantMsg: "no symptom clusters",
		},
		{
			name: "duplicate cluster",
			mutate: func(c *Catalog) {
				c.Clusters = append(c.Clusters, c.Clusters[0])
			},
			wantMsg: "duplicate cluster",
		},
		{
			name:    "cluster without questions",
			mutate:  func(c *Catalog) { c.Clusters[0].Questions = nil },
			wantMsg: "has no questions",
		},
		{
			name: "unresolvable default template",
			mutate: func(c *Catalog) {
				c.Syndromes[0].DefaultTemplate = "missing_template"
			},
			wantMsg: "unknown template",
		},
		{
			name: "missing fallback syndrome",
			mutate: func(c *Catalog) {
				c.Syndromes = c.Syndromes[:1]
			},
			wantMsg: FallbackSyndromeID,
		},
		{
			name: "specialist without general template",
			mutate: func(c *Catalog) {
				c.MDTRules["Cardiologist"] = []SpecialistTemplate{
					{ID: "chest_pain", Impression: "Cardiac pain suspected."},
				}
			},
			wantMsg: "general",
		},
		{
			name:    "empty allow-list",
			mutate:  func(c *Catalog) { c.AllowedMedicines = nil },
			wantMsg: "allow-list is empty",
		},
		{
			name: "snippet without source",
			mutate: func(c *Catalog) {
				c.Snippets = []Snippet{{Text: "orphan"}}
			},
			wantMsg: "missing text or source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCatalog()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCatalog_AllSymptoms_Dedupes(t *testing.T) {
	c := validCatalog()
	c.Clusters = append(c.Clusters, models.Cluster{
		Name:     "vector_borne_fever",
		Keywords: []string{"Fever", "chills"},
		Questions: []models.Question{
			{Slot: "pattern", Text: "Does the fever come with shivering?"},
		},
		Priority: 3,
	})

	symptoms := c.AllSymptoms()
	count := 0
	for _, s := range symptoms {
		if s == "fever" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("fever appears %d times in symptom vocabulary, want 1", count)
	}
}

func TestLoad_FromDirectory(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"clusters.yaml": `clusters:
  - name: fever_general
    priority: 2
    keywords: [fever]
    questions:
      - slot: duration
        text: "Since how many days has the fever been present?"
`,
		"syndromes.yaml": `syndromes:
  - id: viral_fever
    name: Viral fever
    keywords: [fever]
    default_template: viral_fever
  - id: non_specific_mild_illness
    name: Non-specific mild illness
    keywords: [unwell]
    default_template: viral_fever
`,
		"pcp_rules.yaml": `rules:
  viral_fever:
    condition_summary: "Likely viral fever."
    nurse_actions: [Check temperature]
`,
		"mdt_rules.yaml": `specialists:
  GeneralPhysician:
    - id: general
      impression: "General review advised."
`,
		"medicines.yaml": `allowed:
  - Doctor may consider Paracetamol
`,
		"rag_store.yaml": `snippets:
  - text: "Advise fluids."
    source: "Field guide"
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	cat, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cat.Cluster("fever_general") == nil {
		t.Error("loaded catalog missing fever_general cluster")
	}
	if cat.FallbackSyndrome() == nil {
		t.Error("loaded catalog missing fallback syndrome")
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load() on empty dir = nil, want error")
	}
}
