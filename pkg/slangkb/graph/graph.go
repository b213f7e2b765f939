package graph

import (
	"math"
	"sort"
)

// RawNode is a co-occurrence graph node as supplied by the data files.
type RawNode struct {
	ID       string  `json:"id"`
	Value    float64 `json:"value"`
	Category string  `json:"category"`
}

// RawLink is a weighted, undirected edge.
type RawLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Config holds the filter parameters of one rendering request.
type Config struct {
	WeightThreshold    float64 `yaml:"weight_threshold" json:"weightThreshold"`
	TopKPerNode        int     `yaml:"top_k_per_node" json:"topKPerNode"`
	ShowTopKOnly       bool    `yaml:"show_top_k_only" json:"showTopKOnly"`
	NodeValueThreshold float64 `yaml:"node_value_threshold" json:"nodeValueThreshold"`
	MaxNodes           int     `yaml:"max_nodes" json:"maxNodes"`
	MaxEdges           int     `yaml:"max_edges" json:"maxEdges"`
	PerfMode           bool    `yaml:"perf_mode" json:"perfMode"`
}

// DefaultConfig is the budget used for normal interactive rendering.
func DefaultConfig() Config {
	return Config{
		WeightThreshold:    2,
		TopKPerNode:        8,
		ShowTopKOnly:       true,
		NodeValueThreshold: 0,
		MaxNodes:           400,
		MaxEdges:           1600,
	}
}

// PerfConfig is the stricter budget used for large graphs.
func PerfConfig() Config {
	return Config{
		WeightThreshold:    5,
		TopKPerNode:        4,
		ShowTopKOnly:       true,
		NodeValueThreshold: 0,
		MaxNodes:           220,
		MaxEdges:           600,
		PerfMode:           true,
	}
}

const (
	minRadius = 3
	maxRadius = 35

	labelLimit     = 20
	perfLabelLimit = 10

	// animationNodeLimit disables layout animation for graphs at least this large.
	animationNodeLimit = 260
)

// Node is a rendered node.
type Node struct {
	ID         string  `json:"id"`
	Value      float64 `json:"value"`
	Category   string  `json:"category"`
	SymbolSize float64 `json:"symbolSize"`
	ShowLabel  bool    `json:"showLabel"`
}

// Link is a rendered edge; both endpoints are present in Result.Nodes.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// ForceParams configures the force-directed layout.
type ForceParams struct {
	Repulsion       float64    `json:"repulsion"`
	Gravity         float64    `json:"gravity"`
	EdgeLength      [2]float64 `json:"edgeLength"`
	Friction        float64    `json:"friction"`
	LayoutAnimation bool       `json:"layoutAnimation"`
}

// Result is a bounded, renderable graph.
type Result struct {
	Nodes []Node      `json:"nodes"`
	Links []Link      `json:"links"`
	Force ForceParams `json:"force"`
}

// Sparsify prunes a raw graph to at most cfg.MaxNodes nodes and
// cfg.MaxEdges links:
//
//  1. drop links below WeightThreshold
//  2. with ShowTopKOnly, keep a link if it is among the TopKPerNode heaviest
//     links of either endpoint
//  3. nodes touched by a surviving link are active
//  4. keep active nodes with Value >= NodeValueThreshold
//  5. truncate to MaxNodes by value
//  6. restrict links to kept nodes and truncate to MaxEdges by value
//
// Ties keep input order. Missing or malformed input yields an empty result.
func Sparsify(nodes []RawNode, links []RawLink, cfg Config) Result {
	edges := make([]RawLink, 0, len(links))
	for _, l := range links {
		if l.Source == "" || l.Target == "" || !finite(l.Value) {
			continue
		}
		if l.Value < cfg.WeightThreshold {
			continue
		}
		edges = append(edges, l)
	}

	if cfg.ShowTopKOnly && cfg.TopKPerNode > 0 {
		edges = topKPerNode(edges, cfg.TopKPerNode)
	}

	active := make(map[string]struct{}, len(edges)*2)
	for _, e := range edges {
		active[e.Source] = struct{}{}
		active[e.Target] = struct{}{}
	}

	seen := make(map[string]struct{}, len(nodes))
	var kept []RawNode
	for _, n := range nodes {
		if n.ID == "" || !finite(n.Value) {
			continue
		}
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		if _, ok := active[n.ID]; !ok {
			continue
		}
		if n.Value < cfg.NodeValueThreshold {
			continue
		}
		kept = append(kept, n)
	}

	maxNodes := nonNegative(cfg.MaxNodes)
	if len(kept) > maxNodes {
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].Value > kept[j].Value })
		kept = kept[:maxNodes]
	}

	keptSet := make(map[string]struct{}, len(kept))
	for _, n := range kept {
		keptSet[n.ID] = struct{}{}
	}
	var final []RawLink
	for _, e := range edges {
		_, okS := keptSet[e.Source]
		_, okT := keptSet[e.Target]
		if okS && okT {
			final = append(final, e)
		}
	}
	maxEdges := nonNegative(cfg.MaxEdges)
	if len(final) > maxEdges {
		sort.SliceStable(final, func(i, j int) bool { return final[i].Value > final[j].Value })
		final = final[:maxEdges]
	}

	res := Result{
		Nodes: make([]Node, len(kept)),
		Links: make([]Link, len(final)),
		Force: ForceLayout(len(kept), cfg.PerfMode),
	}
	for i, n := range kept {
		res.Nodes[i] = Node{
			ID:         n.ID,
			Value:      n.Value,
			Category:   n.Category,
			SymbolSize: Radius(n.Value),
		}
	}
	for i, e := range final {
		res.Links[i] = Link{Source: e.Source, Target: e.Target, Value: e.Value}
	}
	markLabels(res.Nodes, cfg.PerfMode)
	return res
}

// topKPerNode keeps a link when it ranks in the k heaviest links of its
// source or of its target.
func topKPerNode(edges []RawLink, k int) []RawLink {
	incident := make(map[string][]int)
	for i, e := range edges {
		incident[e.Source] = append(incident[e.Source], i)
		if e.Target != e.Source {
			incident[e.Target] = append(incident[e.Target], i)
		}
	}

	keep := make([]bool, len(edges))
	for _, idx := range incident {
		sort.SliceStable(idx, func(a, b int) bool { return edges[idx[a]].Value > edges[idx[b]].Value })
		if len(idx) > k {
			idx = idx[:k]
		}
		for _, i := range idx {
			keep[i] = true
		}
	}

	out := make([]RawLink, 0, len(edges))
	for i, e := range edges {
		if keep[i] {
			out = append(out, e)
		}
	}
	return out
}

// Radius is the display radius of a node: clamp(3, 35, ln(max(1, v)) * 5).
func Radius(value float64) float64 {
	r := math.Log(math.Max(1, value)) * 5
	return math.Min(maxRadius, math.Max(minRadius, r))
}

func markLabels(nodes []Node, perf bool) {
	limit := labelLimit
	if perf {
		limit = perfLabelLimit
	}
	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return nodes[order[a]].Value > nodes[order[b]].Value })
	if len(order) > limit {
		order = order[:limit]
	}
	for _, i := range order {
		nodes[i].ShowLabel = true
	}
}

// ForceLayout derives layout parameters from the final node count.
func ForceLayout(n int, perf bool) ForceParams {
	if perf {
		return ForceParams{
			Repulsion:  520,
			Gravity:    0.16,
			EdgeLength: [2]float64{18, 110},
			Friction:   0.75,
		}
	}
	return ForceParams{
		Repulsion:       1100,
		Gravity:         0.08,
		EdgeLength:      [2]float64{35, 220},
		Friction:        0.62,
		LayoutAnimation: n < animationNodeLimit,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
