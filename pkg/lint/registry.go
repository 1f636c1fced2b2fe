package lint

import (
	"slices"
	"strings"
	"sync"
)

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = &Registry{
	rules: make(map[string]Rule),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule // keyed by ID
}

// Register adds a rule definition to the global registry.
// Call this from init() functions in rule packages.
func Register(def RuleDef) {
	RegisterRule(WrapRuleDef(def))
}

// RegisterRule adds a rule to the global registry, replacing any rule with
// the same ID.
func RegisterRule(rule Rule) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[strings.ToUpper(rule.ID())] = rule
}

// GetAll returns all registered rules ordered by ID.
func GetAll() []Rule {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]Rule, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

// GetByID returns a rule by its ID. Lookup is case-insensitive.
func GetByID(id string) (Rule, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[strings.ToUpper(id)]
	return rule, ok
}

// GetByGroup returns all rules in a specific group.
func GetByGroup(group string) []Rule {
	var rules []Rule
	for _, rule := range GetAll() {
		if rule.Group() == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// GetByDialect returns rules applicable to a specific dialect.
// Rules with empty/nil Dialects are included (they apply to all dialects).
func GetByDialect(dialectName string) []Rule {
	var rules []Rule
	for _, rule := range GetAll() {
		if dialects := rule.Dialects(); len(dialects) == 0 || slices.Contains(dialects, dialectName) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// AllRules returns metadata for all registered rules.
func AllRules() []RuleInfo {
	rules := GetAll()
	infos := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, GetRuleInfo(rule))
	}
	return infos
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]Rule)
}

func sortRules(rules []Rule) {
	slices.SortFunc(rules, func(a, b Rule) int { return strings.Compare(a.ID(), b.ID()) })
}
