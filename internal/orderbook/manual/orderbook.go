package manualbook

import (
	"github.com/shivam-909/pagealloc/alloc"
	"github.com/shivam-909/pagealloc/internal/orderbook"
)

// manualNodes places nodes in memory from the process-wide allocator. Nodes
// only point at other manual nodes, so the garbage collector never needs to
// see them.
type manualNodes struct{}

func (manualNodes) New(o orderbook.Order) *orderbook.OrderBookNode {
	node := alloc.Allocate[orderbook.OrderBookNode]()
	if node == nil {
		return nil
	}
	node.Order = o
	return node
}

func (manualNodes) Release(n *orderbook.OrderBookNode) {
	alloc.Free(n)
}

// New returns an order book whose nodes are manually allocated. Close must be
// called to hand them back.
func New() *orderbook.Tree {
	return orderbook.NewTree(manualNodes{})
}
