package standardbook

import "github.com/shivam-909/pagealloc/internal/orderbook"

// heapNodes keeps nodes on the Go heap.
type heapNodes struct{}

func (heapNodes) New(o orderbook.Order) *orderbook.OrderBookNode {
	return &orderbook.OrderBookNode{Order: o}
}

func (heapNodes) Release(*orderbook.OrderBookNode) {}

// New returns an order book whose nodes are garbage collected.
func New() *orderbook.Tree {
	return orderbook.NewTree(heapNodes{})
}
