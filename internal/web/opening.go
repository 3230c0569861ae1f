package web

import (
	"sort"

	"github.com/notnil/chess"

	"tethysbook/internal/engine"
)

// OpeningNode is one book move in the opening tree.
type OpeningNode struct {
	Move     string         `json:"move"`
	Weight   int            `json:"weight"`
	Children []*OpeningNode `json:"children,omitempty"`
}

type OpeningTree struct {
	MaxPlies  int          `json:"max_plies"`
	MinWeight int          `json:"min_weight"`
	Nodes     int          `json:"nodes"`
	Root      *OpeningNode `json:"root"`
}

// maxTreeNodes keeps a deep request against a large book bounded.
const maxTreeNodes = 5000

// buildOpeningTree expands the book from start, skipping moves lighter
// than minWeight.
func buildOpeningTree(p *engine.Player, start *chess.Position, maxPlies, minWeight int) (OpeningTree, error) {
	tree := OpeningTree{MaxPlies: maxPlies, MinWeight: minWeight, Root: &OpeningNode{}}
	err := tree.expand(p, tree.Root, start, maxPlies)
	return tree, err
}

func (t *OpeningTree) expand(p *engine.Player, n *OpeningNode, pos *chess.Position, plies int) error {
	if plies <= 0 || t.Nodes >= maxTreeNodes {
		return nil
	}
	moves, err := p.Moves(pos)
	if err != nil {
		return err
	}
	notation := chess.UCINotation{}
	for _, mv := range moves {
		if mv.Weight < t.MinWeight {
			continue
		}
		decoded, err := notation.Decode(pos, mv.UCI)
		if err != nil {
			continue
		}
		child, created := n.child(mv.UCI)
		child.Weight += mv.Weight
		if created {
			t.Nodes++
			if err := t.expand(p, child, pos.Update(decoded), plies-1); err != nil {
				return err
			}
		}
	}
	n.finalize()
	return nil
}

func (n *OpeningNode) child(move string) (*OpeningNode, bool) {
	for _, c := range n.Children {
		if c.Move == move {
			return c, false
		}
	}
	child := &OpeningNode{Move: move}
	n.Children = append(n.Children, child)
	return child, true
}

func (n *OpeningNode) finalize() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Weight > n.Children[j].Weight
	})
}
