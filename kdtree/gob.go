package kdtree

import (
	"bytes"
	"encoding/gob"
	"errors"
)

// flatNode is the serialized form of one tree node. The node list is laid
// out in preorder; HasLeft/HasRight say which children follow.
type flatNode struct {
	Leaf      bool
	CutDim    int32
	CutVal    float32
	LowBound  float32
	HighBound float32
	HasLeft   bool
	HasRight  bool
	Bucket    []uint32
}

type flatTree struct {
	Dim        int
	Size       int
	BucketSize int
	BoxLo      []float32
	BoxHi      []float32
	Nodes      []flatNode
}

// GobEncode serializes the tree structure. The point set is owned
// externally and is not included; reattach it after decoding with
// AttachPoints.
func (t *Tree) GobEncode() ([]byte, error) {
	ft := flatTree{
		Dim:        t.dim,
		Size:       t.size,
		BucketSize: t.bucketSize,
		BoxLo:      t.boxLo,
		BoxHi:      t.boxHi,
	}
	flatten(t.root, &ft.Nodes)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ft); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode reconstructs the tree structure. The decoded tree has no point
// set attached; call AttachPoints before searching.
func (t *Tree) GobDecode(data []byte) error {
	var ft flatTree
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ft); err != nil {
		return err
	}

	pos := 0
	root, err := unflatten(ft.Nodes, &pos)
	if err != nil {
		return err
	}
	if pos != len(ft.Nodes) {
		return errors.New("kdtree: trailing nodes in encoded tree")
	}

	t.points = nil
	t.root = root
	t.dim = ft.Dim
	t.size = ft.Size
	t.bucketSize = ft.BucketSize
	t.boxLo = ft.BoxLo
	t.boxHi = ft.BoxHi
	return nil
}

func flatten(nd node, out *[]flatNode) {
	switch n := nd.(type) {
	case *leafNode:
		*out = append(*out, flatNode{Leaf: true, Bucket: n.bucket})
	case *splitNode:
		*out = append(*out, flatNode{
			CutDim:    int32(n.cutDim),
			CutVal:    n.cutVal,
			LowBound:  n.lowBound,
			HighBound: n.highBound,
			HasLeft:   n.left != nil,
			HasRight:  n.right != nil,
		})
		if n.left != nil {
			flatten(n.left, out)
		}
		if n.right != nil {
			flatten(n.right, out)
		}
	}
}

func unflatten(nodes []flatNode, pos *int) (node, error) {
	if *pos >= len(nodes) {
		return nil, errors.New("kdtree: truncated encoded tree")
	}

	fn := nodes[*pos]
	*pos++

	if fn.Leaf {
		return &leafNode{bucket: fn.Bucket}, nil
	}

	nd := &splitNode{
		cutDim:    int(fn.CutDim),
		cutVal:    fn.CutVal,
		lowBound:  fn.LowBound,
		highBound: fn.HighBound,
	}
	var err error
	if fn.HasLeft {
		if nd.left, err = unflatten(nodes, pos); err != nil {
			return nil, err
		}
	}
	if fn.HasRight {
		if nd.right, err = unflatten(nodes, pos); err != nil {
			return nil, err
		}
	}
	return nd, nil
}
