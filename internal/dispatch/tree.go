// Package dispatch routes one update through a tree of filters and branches
// to exactly one endpoint.
//
// Trees are built once at startup with the combinators below and evaluated
// depth first in declaration order, so sibling order is handler priority.
// D is the per-update request type shared by every predicate and handler.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"qnabot/internal/domain"
)

// Predicate decides whether evaluation descends into a filter's subtree.
// Predicates may perform read-only lookups but must not mutate persisted state.
type Predicate[D any] func(ctx context.Context, upd *domain.Update, deps D) (bool, error)

// Handler is the terminal action of an endpoint
type Handler[D any] func(ctx context.Context, upd *domain.Update, deps D) error

// Kind is the variant tag of a Node
type Kind int

const (
	KindEntry Kind = iota
	KindFilter
	KindBranch
	KindEndpoint
)

func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindFilter:
		return "filter"
	case KindBranch:
		return "branch"
	case KindEndpoint:
		return "endpoint"
	}
	return "unknown"
}

// Node is an element of the routing tree
type Node[D any] struct {
	kind     Kind
	name     string
	pred     Predicate[D]
	handler  Handler[D]
	children []*Node[D]
}

// Entry returns a node that always matches and evaluates its children
func Entry[D any]() *Node[D] {
	return &Node[D]{kind: KindEntry}
}

// Filter returns a node that evaluates its children only if pred holds
func Filter[D any](pred Predicate[D]) *Node[D] {
	return &Node[D]{kind: KindFilter, pred: pred}
}

// Branch returns a node that tries children in order
func Branch[D any](children ...*Node[D]) *Node[D] {
	return &Node[D]{kind: KindBranch, children: children}
}

// Endpoint returns a terminal node running h
func Endpoint[D any](name string, h Handler[D]) *Node[D] {
	return &Node[D]{kind: KindEndpoint, name: name, handler: h}
}

// Named sets the label used by Describe
func (n *Node[D]) Named(name string) *Node[D] {
	n.name = name
	return n
}

// Kind returns the node variant
func (n *Node[D]) Kind() Kind {
	return n.kind
}

// Branch appends children to n and returns n
func (n *Node[D]) Branch(children ...*Node[D]) *Node[D] {
	n.mustAcceptChildren()
	n.children = append(n.children, children...)
	return n
}

// Filter appends a filter child to n and returns the child, so that
// Entry().Filter(a).Filter(b).Endpoint(...) nests b under a.
func (n *Node[D]) Filter(pred Predicate[D]) *Node[D] {
	child := Filter(pred)
	n.Branch(child)
	return child
}

// Endpoint appends an endpoint child to n and returns n
func (n *Node[D]) Endpoint(name string, h Handler[D]) *Node[D] {
	return n.Branch(Endpoint(name, h))
}

func (n *Node[D]) mustAcceptChildren() {
	if n.kind == KindEndpoint {
		panic(fmt.Sprintf("dispatch: endpoint %q cannot have children", n.name))
	}
}

// eval reports whether the subtree reached an endpoint and which one
func (n *Node[D]) eval(ctx context.Context, upd *domain.Update, deps D) (string, bool, error) {
	switch n.kind {
	case KindEndpoint:
		return n.name, true, n.handler(ctx, upd, deps)
	case KindFilter:
		ok, err := n.pred(ctx, upd, deps)
		if err != nil {
			return "", false, err
		}
		if !ok {
			return "", false, nil
		}
	}

	for _, child := range n.children {
		name, matched, err := child.eval(ctx, upd, deps)
		if matched || err != nil {
			return name, matched, err
		}
	}
	return "", false, nil
}

// Tree is a routing tree plus the handler for unmatched updates
type Tree[D any] struct {
	root     *Node[D]
	fallback Handler[D]
}

// NewTree creates a tree. A nil fallback drops unmatched updates silently.
func NewTree[D any](root *Node[D], fallback Handler[D]) *Tree[D] {
	return &Tree[D]{root: root, fallback: fallback}
}

// Dispatch routes upd to exactly one endpoint and returns the endpoint name.
// An empty name means no endpoint matched and the fallback handled the update.
func (t *Tree[D]) Dispatch(ctx context.Context, upd *domain.Update, deps D) (string, error) {
	name, matched, err := t.root.eval(ctx, upd, deps)
	if matched || err != nil {
		return name, err
	}
	if t.fallback == nil {
		return "", nil
	}
	return "", t.fallback(ctx, upd, deps)
}

// Describe renders the tree, one node per line
func (t *Tree[D]) Describe() string {
	var sb strings.Builder
	describe(&sb, t.root, 0)
	return sb.String()
}

func describe[D any](sb *strings.Builder, n *Node[D], depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.kind.String())
	if n.name != "" {
		sb.WriteString(" ")
		sb.WriteString(n.name)
	}
	sb.WriteString("\n")
	for _, child := range n.children {
		describe(sb, child, depth+1)
	}
}
