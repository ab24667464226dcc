package b

import "github.com/alexhholmes/dataview"

type Node struct {
	Next *Node
	Key  uint64
}

func (Node) PlainData() {}

func reads(v dataview.View) {
	_ = dataview.Read[*Node](v, 0)
	_ = dataview.Read[Node](v, 0)
	_ = dataview.Read[bool](v, 0) // want `type bool is not plain data`
}
