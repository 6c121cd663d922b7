package depot

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op       Operation
	children []QueryNode
	kinds    []Kind
}

type leafNode struct {
	kinds []Kind
}

// Query builds composable filter trees over presence masks. The zero-value
// root is the first node built with And, Or, or Not.
type Query struct {
	root QueryNode
}

func newQuery() *Query {
	return &Query{}
}

func newCompositeNode(op Operation, kinds []Kind) *compositeNode {
	return &compositeNode{
		op:       op,
		children: make([]QueryNode, 0),
		kinds:    kinds,
	}
}

func newLeafNode(kinds []Kind) *leafNode {
	return &leafNode{kinds: kinds}
}

func (n *compositeNode) Matches(s Schema, m mask.Mask) bool {
	nodeMask, err := s.requestMask(n.kinds...)
	if err != nil {
		return false
	}

	switch n.op {
	case OpAnd:
		if !m.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Matches(s, m) {
				return false
			}
		}
		return true

	case OpOr:
		if m.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Matches(s, m) {
				return true
			}
		}
		return false

	case OpNot:
		if len(n.children) == 0 {
			return m.ContainsNone(nodeMask)
		}
		for _, child := range n.children {
			if child.Matches(s, m) {
				return false
			}
		}
		return !m.ContainsAny(nodeMask)
	}
	return false
}

func (n *compositeNode) validate(s Schema) error {
	if _, err := s.requestMask(n.kinds...); err != nil {
		return err
	}
	for _, child := range n.children {
		if err := child.validate(s); err != nil {
			return err
		}
	}
	return nil
}

func (n *leafNode) Matches(s Schema, m mask.Mask) bool {
	nodeMask, err := s.requestMask(n.kinds...)
	if err != nil {
		return false
	}
	return m.ContainsAll(nodeMask)
}

func (n *leafNode) validate(s Schema) error {
	_, err := s.requestMask(n.kinds...)
	return err
}

func (q *Query) And(items ...interface{}) QueryNode {
	kinds, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, kinds)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *Query) Or(items ...interface{}) QueryNode {
	kinds, children := q.processItems(items...)
	node := newCompositeNode(OpOr, kinds)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *Query) Not(items ...interface{}) QueryNode {
	kinds, children := q.processItems(items...)
	node := newCompositeNode(OpNot, kinds)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *Query) processItems(items ...interface{}) ([]Kind, []QueryNode) {
	kinds := make([]Kind, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case Kind:
			kinds = append(kinds, v)
		case []Kind:
			kinds = append(kinds, v...)
		case QueryNode:
			children = append(children, v)
		}
	}

	return kinds, children
}

func (q *Query) Matches(s Schema, m mask.Mask) bool {
	if q.root == nil {
		return false
	}
	return q.root.Matches(s, m)
}

func (q *Query) validate(s Schema) error {
	if q.root == nil {
		return nil
	}
	return q.root.validate(s)
}
