package ranking

// Domain is a named subject area and the keywords that signal it.
// The first three keywords double as persona triggers.
type Domain struct {
	Name     string
	Keywords []string
}

// KeywordGroup is a job verb or noun with its synonym expansions.
type KeywordGroup struct {
	Name     string
	Synonyms []string
}

// Importance lists section-title keywords by tier. Tiers are checked high, medium, low;
// the first tier with a hit decides, and low carries no boost.
type Importance struct {
	High   []string
	Medium []string
	Low    []string
}

// Lexicon is the keyword configuration used by the heuristic factors.
// It is treated as read-only once passed to NewRanker.
type Lexicon struct {
	Domains    []Domain
	JobGroups  []KeywordGroup
	Importance Importance
}

// DefaultLexicon returns the built-in domain, job and section-type keyword tables.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Domains: []Domain{
			{Name: "travel", Keywords: []string{
				"itinerary", "accommodation", "transportation", "activities", "attractions",
				"restaurants", "hotels", "booking", "budget", "schedule", "group",
				"friends", "vacation", "trip", "tour", "guide", "recommendations",
				"planning", "logistics", "destinations", "experiences", "adventure",
			}},
			{Name: "bioinformatics", Keywords: []string{
				"sequence", "genome", "protein", "dna", "rna", "gene", "mutation",
				"alignment", "phylogeny", "annotation", "database", "algorithm",
				"blast", "fasta", "genomic", "transcriptome", "proteome",
			}},
			{Name: "machine learning", Keywords: []string{
				"model", "training", "algorithm", "neural", "network", "deep",
				"learning", "classification", "regression", "clustering", "feature",
				"dataset", "accuracy", "validation", "optimization", "gradient",
			}},
			{Name: "research", Keywords: []string{
				"study", "analysis", "methodology", "experiment", "hypothesis",
				"results", "findings", "conclusion", "literature", "review",
				"survey", "evaluation", "assessment", "investigation", "research",
			}},
			{Name: "technical", Keywords: []string{
				"implementation", "architecture", "design", "system", "framework",
				"technology", "software", "hardware", "development", "engineering",
				"programming", "coding", "algorithm", "optimization", "performance",
			}},
			{Name: "business", Keywords: []string{
				"strategy", "market", "customer", "revenue", "profit", "growth",
				"analysis", "management", "operations", "finance", "investment",
				"roi", "kpi", "metrics", "performance", "competitive", "advantage",
			}},
		},
		JobGroups: []KeywordGroup{
			{Name: "plan", Synonyms: []string{"plan", "organize", "schedule", "arrange", "coordinate", "prepare"}},
			{Name: "trip", Synonyms: []string{"trip", "travel", "journey", "vacation", "tour", "visit", "explore"}},
			{Name: "group", Synonyms: []string{"group", "friends", "party", "team", "collective", "together"}},
			{Name: "days", Synonyms: []string{"days", "itinerary", "schedule", "timeline", "duration", "time"}},
			{Name: "review", Synonyms: []string{"review", "evaluate", "assess", "analyze", "examine", "study"}},
			{Name: "research", Synonyms: []string{"research", "investigate", "explore", "discover", "find"}},
			{Name: "implement", Synonyms: []string{"implement", "build", "develop", "create", "design"}},
			{Name: "optimize", Synonyms: []string{"optimize", "improve", "enhance", "refine", "upgrade"}},
			{Name: "compare", Synonyms: []string{"compare", "contrast", "benchmark", "evaluate", "assess"}},
		},
		Importance: Importance{
			High: []string{
				"abstract", "summary", "introduction", "conclusion", "results",
				"findings", "methodology", "approach", "overview", "executive",
			},
			Medium: []string{
				"background", "related work", "literature", "discussion", "analysis",
				"evaluation", "implementation", "design", "architecture",
			},
			Low: []string{
				"acknowledgments", "references", "bibliography", "appendix",
				"footnotes", "index", "glossary",
			},
		},
	}
}
