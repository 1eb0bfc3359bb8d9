// CLAUDE:SUMMARY Domain strategy: bucket tabs by hostname, unparsable URLs fall into "Other".
package cluster

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// hostOf returns the lowercase hostname of rawURL with a leading "www."
// stripped, or "" if the URL cannot be parsed or has no host.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// siteLabel returns the registrable-domain label of the URL's hostname
// ("wikipedia" for en.wikipedia.org, "github" for github.com), or "" if the
// URL is unparsable. Hosts outside the public suffix list fall back to their
// first label.
func siteLabel(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return ""
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		host = etld1
	}
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

// domainBuckets groups tab indexes by hostname. Every index lands in exactly
// one bucket, including singletons; unparsable URLs share the "Other" bucket.
// Bucket order is first-appearance order for reproducibility.
type domainBucket struct {
	name    string
	members []int
}

func groupByDomain(tabs []Tab, indexes []int) []domainBucket {
	byName := make(map[string]int)
	var buckets []domainBucket

	for _, i := range indexes {
		name := "Other"
		if label := siteLabel(tabs[i].URL); label != "" {
			name = capitalize(label)
		}
		pos, ok := byName[name]
		if !ok {
			pos = len(buckets)
			byName[name] = pos
			buckets = append(buckets, domainBucket{name: name})
		}
		buckets[pos].members = append(buckets[pos].members, tabs[i].ID)
	}
	return buckets
}

// runDomain is the domain strategy: no sessions, no similarity, no gating.
func runDomain(tabs []Tab) *Result {
	indexes := make([]int, len(tabs))
	for i := range indexes {
		indexes[i] = i
	}

	res := &Result{Strategy: StrategyDomain, Ungrouped: []int{}}
	used := make(map[string]bool)
	for _, b := range groupByDomain(tabs, indexes) {
		res.Groups = append(res.Groups, Group{
			ID:      groupID(len(res.Groups)),
			Title:   disambiguate(used, b.name, ""),
			Members: b.members,
			Type:    GroupDomain,
		})
	}
	return res
}
