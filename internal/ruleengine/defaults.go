package ruleengine

import "github.com/a1e5ya/smart-finance-planner/internal/models"

// defaultRuleConfidence is the confidence assigned to every seeded
// rule. Seeded keywords are good but generic signals.
const defaultRuleConfidence = 0.9

// defaultRuleSeeds is the starter keyword list for users without a
// rules file yet.
var defaultRuleSeeds = []struct {
	keyword  string
	category string
	priority int
}{
	// Food & dining
	{"starbucks", "Cafes & Coffee", 90},
	{"mcdonald", "Restaurants", 90},
	{"restaurant", "Restaurants", 70},
	{"grocery", "Groceries", 80},
	{"lidl", "Groceries", 85},
	{"aldi", "Groceries", 85},

	// Transportation
	{"uber", "Public Transport", 90},
	{"taxi", "Public Transport", 85},
	{"gas station", "Fuel", 80},
	{"parking", "Parking Fees", 85},

	// Shopping
	{"amazon", "Electronics", 80},
	{"h&m", "Clothing & Shoes", 85},
	{"zara", "Clothing & Shoes", 85},

	// Utilities
	{"electric", "Energy & Water", 85},
	{"internet", "Internet & Phone", 85},
	{"phone", "Internet & Phone", 80},

	// Entertainment
	{"netflix", "Subscriptions", 95},
	{"spotify", "Subscriptions", 95},
	{"subscription", "Subscriptions", 70},

	// Healthcare
	{"pharmacy", "Pharmacy", 90},
	{"doctor", "Medical Services", 85},
	{"hospital", "Medical Services", 90},

	// Financial
	{"atm", "Withdrawal", 95},
	{"fee", "Bank Services", 80},
	{"transfer", "Between Own Accounts", 85},
}

// DefaultRules returns the starter rule set seeded for users who have
// no rules file yet. All rules are active keyword rules.
func DefaultRules() []models.CategoryRule {
	rules := make([]models.CategoryRule, 0, len(defaultRuleSeeds))
	for _, seed := range defaultRuleSeeds {
		rules = append(rules, models.CategoryRule{
			ID:             "default-" + sanitizeID(seed.keyword),
			PatternType:    models.PatternKeyword,
			PatternValue:   seed.keyword,
			TargetCategory: seed.category,
			Priority:       seed.priority,
			Confidence:     defaultRuleConfidence,
			Active:         true,
			Description:    "Starter rule for " + seed.category,
		})
	}
	return rules
}

func sanitizeID(keyword string) string {
	id := make([]rune, 0, len(keyword))
	for _, r := range keyword {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			id = append(id, r)
		case r == ' ':
			id = append(id, '-')
		}
	}
	return string(id)
}
