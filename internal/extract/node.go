package extract

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node is the tree interface every per-language extractor consumes, kept
// independent of any one parser library: any incremental parser that can
// produce this shape is acceptable. sitterNode (below) is the only
// implementation shipped here, wrapping go-tree-sitter; extractors never
// import go-tree-sitter themselves.
type Node interface {
	Kind() string
	Text() []byte
	Children() []Node
	NamedChildren() []Node
	FieldByName(name string) Node
	Parent() Node
	StartPoint() (row, col int)
	EndPoint() (row, col int)
	IsError() bool
	IsMissing() bool
	IsNamed() bool
	PrevSibling() Node
}

// sitterNode adapts a *sitter.Node + its source bytes to the Node interface.
type sitterNode struct {
	n      *sitter.Node
	source []byte
	parent *sitterNode
}

func wrap(n *sitter.Node, source []byte, parent *sitterNode) *sitterNode {
	if n == nil {
		return nil
	}
	return &sitterNode{n: n, source: source, parent: parent}
}

func (s *sitterNode) Kind() string { return s.n.Type() }

func (s *sitterNode) Text() []byte {
	return s.source[s.n.StartByte():s.n.EndByte()]
}

func (s *sitterNode) Children() []Node {
	count := int(s.n.ChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if c := s.n.Child(i); c != nil {
			out = append(out, wrap(c, s.source, s))
		}
	}
	return out
}

func (s *sitterNode) NamedChildren() []Node {
	count := int(s.n.NamedChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if c := s.n.NamedChild(i); c != nil {
			out = append(out, wrap(c, s.source, s))
		}
	}
	return out
}

func (s *sitterNode) FieldByName(name string) Node {
	c := s.n.ChildByFieldName(name)
	return wrap(c, s.source, s)
}

func (s *sitterNode) Parent() Node {
	if s.parent != nil {
		return s.parent
	}
	if p := s.n.Parent(); p != nil {
		return wrap(p, s.source, nil)
	}
	return nil
}

func (s *sitterNode) StartPoint() (int, int) {
	p := s.n.StartPoint()
	return int(p.Row), int(p.Column)
}

func (s *sitterNode) EndPoint() (int, int) {
	p := s.n.EndPoint()
	return int(p.Row), int(p.Column)
}

func (s *sitterNode) IsError() bool   { return s.n.IsError() }
func (s *sitterNode) IsMissing() bool { return s.n.IsMissing() }
func (s *sitterNode) IsNamed() bool   { return s.n.IsNamed() }

func (s *sitterNode) PrevSibling() Node {
	if s.n.PrevSibling() != nil {
		return wrap(s.n.PrevSibling(), s.source, s.parent)
	}
	return nil
}
