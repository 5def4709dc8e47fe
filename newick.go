// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Newick serialization of perfect phylogenies, the inverse parser, and
// the extraction of SDP bitsets from parsed trees.

package bioinfdata

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Newick renders the tree in Newick format with a trailing semicolon. A
// node's child subtrees come first, then the node's own strains as bare
// leaf names; a childless node holding a single strain collapses to that
// strain's name. When edgeLengths is true every child link carries ":1.0".
func (node *PhylogenyTreeNode) Newick(edgeLengths bool) string {
	var sb strings.Builder
	node.writeNewick(&sb, edgeLengths)
	sb.WriteByte(';')
	return sb.String()
}

func (node *PhylogenyTreeNode) writeNewick(sb *strings.Builder, edgeLengths bool) {
	if len(node.Edges) == 0 && len(node.Strains) == 1 {
		sb.WriteString(node.Strains[0])
		return
	}
	sb.WriteByte('(')
	first := true
	for _, edge := range node.Edges {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		edge.Node.writeNewick(sb, edgeLengths)
		if edgeLengths {
			fmt.Fprintf(sb, ":%.1f", edge.Length)
		}
	}
	for _, strain := range node.Strains {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(strain)
	}
	sb.WriteByte(')')
}

// ParseNewick reconstructs a tree from Newick text. Labels may appear on
// leaves and after the closing parenthesis of an internal node; ":length"
// suffixes are accepted and ignored, as is a trailing semicolon.
func ParseNewick(text string) (*PhylogenyTreeNode, error) {
	p := &newickParser{text: text}
	node, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.text) && p.text[p.pos] == ';' {
		p.pos++
		p.skipSpace()
	}
	if p.pos != len(p.text) {
		return nil, fmt.Errorf("newick: trailing garbage at offset %d: %w", p.pos, ErrBadInputFormat)
	}
	return node, nil
}

type newickParser struct {
	text string
	pos  int
}

func (p *newickParser) skipSpace() {
	for p.pos < len(p.text) && (p.text[p.pos] == ' ' || p.text[p.pos] == '\t' ||
		p.text[p.pos] == '\n' || p.text[p.pos] == '\r') {
		p.pos++
	}
}

func (p *newickParser) parseNode() (*PhylogenyTreeNode, error) {
	p.skipSpace()
	node := &PhylogenyTreeNode{}
	if p.pos < len(p.text) && p.text[p.pos] == '(' {
		p.pos++
		for {
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			node.Edges = append(node.Edges, PhylogenyTreeEdge{Node: child, Length: 1.0})
			p.skipSpace()
			if p.pos >= len(p.text) {
				return nil, fmt.Errorf("newick: unbalanced parentheses: %w", ErrBadInputFormat)
			}
			if p.text[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.text[p.pos] == ')' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("newick: unexpected %q at offset %d: %w",
				p.text[p.pos], p.pos, ErrBadInputFormat)
		}
		if label := p.parseLabel(); label != "" {
			node.Strains = append(node.Strains, label)
		}
	} else {
		label := p.parseLabel()
		if label == "" {
			return nil, fmt.Errorf("newick: expected a label at offset %d: %w", p.pos, ErrBadInputFormat)
		}
		node.Strains = []string{label}
	}
	p.skipLength()
	return node, nil
}

func (p *newickParser) parseLabel() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.text) && !strings.ContainsRune("(),:;", rune(p.text[p.pos])) {
		p.pos++
	}
	return strings.TrimSpace(p.text[start:p.pos])
}

func (p *newickParser) skipLength() {
	p.skipSpace()
	if p.pos < len(p.text) && p.text[p.pos] == ':' {
		p.pos++
		for p.pos < len(p.text) && !strings.ContainsRune("(),;", rune(p.text[p.pos])) {
			p.pos++
		}
	}
}

// Sdps maps every proper subtree of the phylogeny to a bitset over the
// given strain names, keeping only bitsets whose minor cardinality (the
// smaller of set and clear counts) reaches minMinorCount. The root's own
// set, which always covers every strain, is excluded. The strain name
// vector must cover every name in the tree.
func (node *PhylogenyTreeNode) Sdps(strainNames []string, minMinorCount int) ([]*bitset.BitSet, error) {
	indexOf := make(map[string]uint, len(strainNames))
	for i, name := range strainNames {
		indexOf[name] = uint(i)
	}
	var sdps []*bitset.BitSet
	var walk func(n *PhylogenyTreeNode, isRoot bool) error
	walk = func(n *PhylogenyTreeNode, isRoot bool) error {
		if !isRoot {
			bits := bitset.New(uint(len(strainNames)))
			for _, strain := range n.AllStrains() {
				i, ok := indexOf[strain]
				if !ok {
					return fmt.Errorf("strain %q is not in the strain name list: %w",
						strain, ErrBadInputFormat)
				}
				bits.Set(i)
			}
			count := int(bits.Count())
			if minor := len(strainNames) - count; minor < count {
				count = minor
			}
			if count >= minMinorCount {
				sdps = append(sdps, bits)
			}
		}
		for _, edge := range n.Edges {
			if err := walk(edge.Node, false); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(node, true); err != nil {
		return nil, err
	}
	return sdps, nil
}
