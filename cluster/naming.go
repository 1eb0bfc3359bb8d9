// CLAUDE:SUMMARY Naming engine: token/bigram frequency over normalized titles with stop-word filtering.
package cluster

import (
	"math"
	"strconv"
	"strings"
)

// stopWords excludes articles, prepositions, generic web terms, and major
// brand names from name candidates.
var stopWords = map[string]bool{
	// articles, pronouns, prepositions, auxiliaries
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"this": true, "that": true, "your": true, "you": true, "are": true,
	"was": true, "not": true, "how": true, "what": true, "why": true,
	"when": true, "where": true, "can": true, "all": true, "into": true,
	"about": true, "after": true, "before": true,
	// generic web terms
	"home": true, "page": true, "tab": true, "new": true, "web": true,
	"site": true, "website": true, "online": true, "free": true,
	"best": true, "official": true, "login": true, "signin": true,
	"www": true, "com": true, "org": true, "net": true,
	// major brands
	"google": true, "youtube": true, "facebook": true, "amazon": true,
	"twitter": true, "reddit": true, "wikipedia": true, "github": true,
	"stackoverflow": true, "chrome": true, "firefox": true,
}

// normalizeTitle lowercases a title, strips characters outside [a-z0-9 ],
// and returns the surviving tokens: no stop words, length > 2.
func normalizeTitle(title string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			sb.WriteRune(r)
		default:
			sb.WriteByte(' ')
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(sb.String()) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// orderedCount tallies keys while remembering first-seen order, so the
// most-frequent pick is deterministic under ties.
type orderedCount struct {
	counts map[string]int
	order  []string
}

func newOrderedCount() *orderedCount {
	return &orderedCount{counts: make(map[string]int)}
}

func (c *orderedCount) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns the first-seen key with the highest count.
func (c *orderedCount) top() (string, int) {
	best, bestN := "", 0
	for _, k := range c.order {
		if c.counts[k] > bestN {
			best, bestN = k, c.counts[k]
		}
	}
	return best, bestN
}

// nameGroup derives a display name for a group of tab indexes.
// Precedence: dominant adjacent bigram, then most frequent word, then the
// first member's URL label, then the literal "Group".
func nameGroup(tabs []Tab, members []int) string {
	words := newOrderedCount()
	bigrams := newOrderedCount()
	memberTokens := make([][]string, len(members))

	for i, m := range members {
		tokens := normalizeTitle(tabs[m].Title)
		memberTokens[i] = tokens
		for _, t := range tokens {
			words.add(t)
		}
		for j := 0; j+1 < len(tokens); j++ {
			bigrams.add(tokens[j] + " " + tokens[j+1])
		}
	}

	// A bigram wins only if it appears in at least half the member titles.
	if bigram, n := bigrams.top(); n > 0 {
		need := int(math.Ceil(float64(len(members)) * 0.5))
		inTitles := 0
		for _, tokens := range memberTokens {
			if containsBigram(tokens, bigram) {
				inTitles++
			}
		}
		if inTitles >= need {
			return titleCase(bigram)
		}
	}

	if word, n := words.top(); n > 0 {
		return titleCase(word)
	}

	if label := siteLabel(tabs[members[0]].URL); label != "" {
		return capitalize(label)
	}
	return "Group"
}

func containsBigram(tokens []string, bigram string) bool {
	for j := 0; j+1 < len(tokens); j++ {
		if tokens[j]+" "+tokens[j+1] == bigram {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = capitalize(f)
	}
	return strings.Join(fields, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// disambiguate resolves name collisions within one invocation. The first
// collision appends the strategy suffix (" (Ext)", " (Web)"); further
// collisions, or strategies without a suffix, get a numeric suffix.
func disambiguate(used map[string]bool, name, suffix string) string {
	if !used[name] {
		used[name] = true
		return name
	}
	if suffix != "" && !used[name+suffix] {
		used[name+suffix] = true
		return name + suffix
	}
	for n := 2; ; n++ {
		candidate := name + " " + strconv.Itoa(n)
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}
