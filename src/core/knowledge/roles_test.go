package knowledge_test

import (
	"strings"
	"testing"

	"skynet/src/core/knowledge"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  knowledge.Role
	}{
		{name: "canonical researcher", label: "Researcher", want: knowledge.RoleResearcher},
		{name: "frontend researcher alias", label: "Researcher/Scientist", want: knowledge.RoleResearcher},
		{name: "canonical funding manager", label: "Funding Manager", want: knowledge.RoleFundingManager},
		{name: "frontend manager alias", label: "Manager/Investor", want: knowledge.RoleFundingManager},
		{name: "investor alias", label: "Investor", want: knowledge.RoleFundingManager},
		{name: "canonical student", label: "Student", want: knowledge.RoleStudent},
		{name: "unknown label", label: "Astronaut", want: knowledge.RoleResearcher},
		{name: "empty label", label: "", want: knowledge.RoleResearcher},
		{name: "lowercase is not an alias", label: "student", want: knowledge.RoleResearcher},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := knowledge.NormalizeRole(tt.label); got != tt.want {
				t.Errorf("NormalizeRole(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestRoleWeights(t *testing.T) {
	tests := []struct {
		name    string
		role    knowledge.Role
		section string
		want    float64
	}{
		{name: "researcher methods", role: knowledge.RoleResearcher, section: "methods", want: 0.4},
		{name: "researcher results", role: knowledge.RoleResearcher, section: "results", want: 0.35},
		{name: "researcher funding", role: knowledge.RoleResearcher, section: "funding", want: 0.03},
		{name: "funding manager funding", role: knowledge.RoleFundingManager, section: "funding", want: 0.5},
		{name: "funding manager conclusion", role: knowledge.RoleFundingManager, section: "conclusion", want: 0.25},
		{name: "funding manager ignores methods", role: knowledge.RoleFundingManager, section: "methods", want: 0},
		{name: "student abstract", role: knowledge.RoleStudent, section: "abstract", want: 0.5},
		{name: "student conclusion", role: knowledge.RoleStudent, section: "conclusion", want: 0.3},
		{name: "unknown section scores zero", role: knowledge.RoleResearcher, section: "other", want: 0},
		{name: "unknown role falls back to researcher", role: knowledge.Role("Astronaut"), section: "methods", want: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.Weights()[tt.section]; got != tt.want {
				t.Errorf("%s weight for %q = %v, want %v", tt.role, tt.section, got, tt.want)
			}
		})
	}
}

func TestRoleSystemPrompt(t *testing.T) {
	tests := []struct {
		name     string
		role     knowledge.Role
		fragment string
	}{
		{name: "researcher", role: knowledge.RoleResearcher, fragment: "scientific research assistant"},
		{name: "funding manager", role: knowledge.RoleFundingManager, fragment: "funding analyst"},
		{name: "student", role: knowledge.RoleStudent, fragment: "explaining to a student"},
		{name: "unknown role", role: knowledge.Role("Astronaut"), fragment: "scientific research assistant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.role.SystemPrompt()
			if !strings.Contains(got, tt.fragment) {
				t.Errorf("SystemPrompt() = %q, want it to contain %q", got, tt.fragment)
			}
		})
	}
}
