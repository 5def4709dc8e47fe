// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// sdpHierarchy is one node of the inclusion hierarchy grown while
// inserting SDPs. Siblings are pairwise disjoint and every child is a
// proper subset of its parent.
type sdpHierarchy struct {
	sdpBits  *bitset.BitSet
	children []*sdpHierarchy
}

// insertSdp places sdpBits into the sibling list. An SDP equal to an
// existing node is ignored; a subset recurses into that node; a superset
// replaces the node in place and then pulls every later intersecting
// sibling underneath it (such a sibling must itself be a subset). Any
// other non-trivial overlap means no perfect phylogeny exists.
func insertSdp(siblings []*sdpHierarchy, sdpBits *bitset.BitSet) ([]*sdpHierarchy, error) {
	for i, curr := range siblings {
		if curr.sdpBits.IntersectionCardinality(sdpBits) == 0 {
			continue
		}
		if curr.sdpBits.Equal(sdpBits) {
			return siblings, nil
		}
		if curr.sdpBits.IsSuperSet(sdpBits) {
			children, err := insertSdp(curr.children, sdpBits)
			if err != nil {
				return nil, err
			}
			curr.children = children
			return siblings, nil
		}
		if sdpBits.IsSuperSet(curr.sdpBits) {
			node := &sdpHierarchy{sdpBits: sdpBits, children: []*sdpHierarchy{curr}}
			siblings[i] = node
			// counting down makes the removes safe
			for j := len(siblings) - 1; j > i; j-- {
				other := siblings[j]
				if other.sdpBits.IntersectionCardinality(sdpBits) == 0 {
					continue
				}
				if !sdpBits.IsSuperSet(other.sdpBits) {
					return nil, ErrIncompatibleSdp
				}
				node.children = append(node.children, other)
				siblings = append(siblings[:j], siblings[j+1:]...)
			}
			return siblings, nil
		}
		return nil, ErrIncompatibleSdp
	}
	return append(siblings, &sdpHierarchy{sdpBits: sdpBits}), nil
}

// PhylogenyTreeEdge connects a node to one child subtree. The engine
// always emits unit edge lengths.
type PhylogenyTreeEdge struct {
	Node   *PhylogenyTreeNode
	Length float64
}

// PhylogenyTreeNode is a rooted perfect-phylogeny (sub)tree. Strains
// lists the samples that belong to this node's SDP but to none of its
// children's SDPs.
type PhylogenyTreeNode struct {
	Edges   []PhylogenyTreeEdge
	Strains []string
}

// hierarchyToPhylogeny materializes an inclusion hierarchy as a tree:
// each node keeps the samples in its SDP that no child claims, and each
// child hangs off an edge of length 1.
func hierarchyToPhylogeny(h *sdpHierarchy, sampleIDs []string) *PhylogenyTreeNode {
	combinedChildSdps := bitset.New(h.sdpBits.Len())
	edges := make([]PhylogenyTreeEdge, 0, len(h.children))
	for _, child := range h.children {
		combinedChildSdps.InPlaceUnion(child.sdpBits)
		edges = append(edges, PhylogenyTreeEdge{
			Node:   hierarchyToPhylogeny(child, sampleIDs),
			Length: 1.0,
		})
	}
	var strains []string
	for i, id := range sampleIDs {
		if h.sdpBits.Test(uint(i)) && !combinedChildSdps.Test(uint(i)) {
			strains = append(strains, id)
		}
	}
	return &PhylogenyTreeNode{Edges: edges, Strains: strains}
}

// inferPerfectPhylogeny builds the phylogeny for one compatible window.
// Every SNP in the window must be an A/B-only row; empty SDPs (all zero
// after normalization) are skipped.
func inferPerfectPhylogeny(m GenoMatrix, interval IndexedSnpInterval) (*PhylogenyTreeNode, error) {
	var siblings []*sdpHierarchy
	for i := interval.Start; i <= interval.End(); i++ {
		snpBits, err := snpSdpBits(m.SNPCalls(i))
		if err != nil {
			return nil, fmt.Errorf("snp %d: %w", i, err)
		}
		if snpBits.None() {
			continue
		}
		siblings, err = insertSdp(siblings, snpBits)
		if err != nil {
			return nil, err
		}
	}
	allBits := bitset.New(uint(m.SampleCount())).Complement()
	root := &sdpHierarchy{sdpBits: allBits, children: siblings}
	phylogeny := hierarchyToPhylogeny(root, m.SampleIDs())
	if len(phylogeny.Edges) == 0 {
		return nil, fmt.Errorf("window [%d,%d]: %w", interval.Start, interval.End(), ErrEmptyPhylogeny)
	}
	return phylogeny, nil
}

// InferPerfectPhylogenies builds one phylogeny per interval, with indices
// corresponding to the given intervals.
func InferPerfectPhylogenies(m GenoMatrix, intervals []IndexedSnpInterval) ([]*PhylogenyTreeNode, error) {
	phylogenies := make([]*PhylogenyTreeNode, 0, len(intervals))
	for _, interval := range intervals {
		phylogeny, err := inferPerfectPhylogeny(m, interval)
		if err != nil {
			return nil, err
		}
		phylogenies = append(phylogenies, phylogeny)
	}
	return phylogenies, nil
}

// AllStrains returns every strain name in the subtree, parents before
// children.
func (node *PhylogenyTreeNode) AllStrains() []string {
	strains := append([]string(nil), node.Strains...)
	for _, edge := range node.Edges {
		strains = append(strains, edge.Node.AllStrains()...)
	}
	return strains
}
