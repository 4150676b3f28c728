package board

import (
	"strconv"

	"github.com/mcoot/rocketbingo/internal/model"
)

// ClassicPoolSize is the highest number in the classic pool
const ClassicPoolSize = 75

var businessTerms = []string{
	"Synergy", "Disruption", "Leverage", "Scalability", "Optimization",
	"Pivot", "Innovation", "Agility", "Velocity", "Framework",
	"Cloud-based", "Analytics", "Blockchain", "AI-driven", "Machine Learning",
	"SaaS", "API", "DevOps", "Scrum", "Kanban", "ROI", "KPIs", "OKRs",
	"Stakeholder", "Alignment", "Roadmap", "Milestone", "Deliverable",
	"Scalable", "Robust", "Enterprise", "Solution", "Integration",
	"Workflow", "Pipeline", "Infrastructure", "Architecture", "Protocol",
}

// ClassicPool returns the numbers 1-75 as strings
func ClassicPool() []string {
	pool := make([]string, ClassicPoolSize)
	for i := range pool {
		pool[i] = strconv.Itoa(i + 1)
	}
	return pool
}

// BusinessPool returns a copy of the business buzzword pool
func BusinessPool() []string {
	pool := make([]string, len(businessTerms))
	copy(pool, businessTerms)
	return pool
}

// PoolFor returns a fresh copy of the content pool for a game mode
func PoolFor(mode model.GameMode) ([]string, error) {
	switch mode {
	case model.GameModeClassic:
		return ClassicPool(), nil
	case model.GameModeBusiness:
		return BusinessPool(), nil
	default:
		return nil, model.ErrInvalidGameMode
	}
}
