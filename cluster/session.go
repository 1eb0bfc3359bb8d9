// CLAUDE:SUMMARY Time-based session segmentation: stable sort by open time, split on gaps over SessionGap.
package cluster

import "sort"

// session is an ordered, contiguous run of tab indexes (into the request's
// Tabs slice) with no internal open-time gap exceeding SessionGap. Sessions
// partition the input exactly.
type session struct {
	// idx holds tab indexes in post-sort order.
	idx []int
}

// segmentSessions stable-sorts tab indexes ascending by open time (missing
// times sort as 0, original relative order preserved among ties) and splits
// the sorted run wherever the gap to the previous tab exceeds gap.
func segmentSessions(tabs []Tab, gap int64) []session {
	if len(tabs) == 0 {
		return nil
	}

	order := make([]int, len(tabs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tabs[order[a]].OpenTime < tabs[order[b]].OpenTime
	})

	var sessions []session
	cur := session{idx: []int{order[0]}}
	for _, i := range order[1:] {
		prev := cur.idx[len(cur.idx)-1]
		if tabs[i].OpenTime-tabs[prev].OpenTime > gap {
			sessions = append(sessions, cur)
			cur = session{}
		}
		cur.idx = append(cur.idx, i)
	}
	return append(sessions, cur)
}
