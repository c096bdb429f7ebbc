package knowledge

// Role selects the section weighting and summary style applied to a search.
type Role string

const (
	RoleResearcher     Role = "Researcher"
	RoleFundingManager Role = "Funding Manager"
	RoleStudent        Role = "Student"
)

// roleAliases maps the labels frontends send to canonical roles.
var roleAliases = map[string]Role{
	"Researcher":           RoleResearcher,
	"Researcher/Scientist": RoleResearcher,
	"Funding Manager":      RoleFundingManager,
	"Manager/Investor":     RoleFundingManager,
	"Investor":             RoleFundingManager,
	"Student":              RoleStudent,
}

// NormalizeRole resolves a client-supplied role label to a canonical Role.
// Unknown or empty labels fall back to Researcher.
func NormalizeRole(label string) Role {
	if r, ok := roleAliases[label]; ok {
		return r
	}
	return RoleResearcher
}

var roleWeights = map[Role]map[string]float64{
	RoleResearcher: {
		"methods":    0.4,
		"results":    0.35,
		"abstract":   0.15,
		"conclusion": 0.05,
		"funding":    0.03,
	},
	RoleFundingManager: {
		"funding":          0.5,
		"conclusion":       0.25,
		"abstract":         0.15,
		"acknowledgements": 0.05,
	},
	RoleStudent: {
		"abstract":   0.5,
		"conclusion": 0.3,
		"results":    0.15,
	},
}

// Weights returns the section weight table used for document ranking.
// Sections not listed contribute nothing to a document's aggregate score.
func (r Role) Weights() map[string]float64 {
	if w, ok := roleWeights[r]; ok {
		return w
	}
	return roleWeights[RoleResearcher]
}

var roleSystemPrompts = map[Role]string{
	RoleResearcher:     "You are a scientific research assistant. Summarize focusing on methods, datasets, key numerical results, and open research gaps.",
	RoleFundingManager: "You are a funding analyst. Summarize focusing on impact, applications, scalability, collaborators, and any explicit funding needs.",
	RoleStudent:        "You are explaining to a student. Give simple takeaways, what was done, and why it matters.",
}

// SystemPrompt returns the summarization persona for the role.
func (r Role) SystemPrompt() string {
	if p, ok := roleSystemPrompts[r]; ok {
		return p
	}
	return roleSystemPrompts[RoleResearcher]
}
