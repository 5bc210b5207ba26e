package orderbook

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrNoMemory = errors.New("order node allocation failed")
)

type OrderBookNode struct {
	Order Order
	Left  *OrderBookNode
	Right *OrderBookNode
}

// Nodes decides where tree nodes live.
type Nodes interface {
	// New returns a node holding o with no children, or nil.
	New(o Order) *OrderBookNode
	Release(n *OrderBookNode)
}

// Tree is an unbalanced BST of orders keyed by Id. Equal ids go right.
type Tree struct {
	root  *OrderBookNode
	size  int
	nodes Nodes
}

func NewTree(nodes Nodes) *Tree {
	return &Tree{nodes: nodes}
}

func (t *Tree) Insert(o Order) error {
	nn := t.nodes.New(o)
	if nn == nil {
		return fmt.Errorf("insert order %d: %w", o.Id, ErrNoMemory)
	}
	t.size++

	link := &t.root
	for *link != nil {
		if o.Id < (*link).Order.Id {
			link = &(*link).Left
		} else {
			link = &(*link).Right
		}
	}
	*link = nn
	return nil
}

// Remove unlinks the order with the given id. A node with two children is
// replaced by its in-order successor.
func (t *Tree) Remove(id int) error {
	link := &t.root
	for *link != nil && (*link).Order.Id != id {
		if id < (*link).Order.Id {
			link = &(*link).Left
		} else {
			link = &(*link).Right
		}
	}
	node := *link
	if node == nil {
		return fmt.Errorf("remove order %d: %w", id, ErrNotFound)
	}

	switch {
	case node.Left == nil:
		*link = node.Right
	case node.Right == nil:
		*link = node.Left
	default:
		succLink := &node.Right
		for (*succLink).Left != nil {
			succLink = &(*succLink).Left
		}
		succ := *succLink
		if succLink != &node.Right {
			*succLink = succ.Right
			succ.Right = node.Right
		}
		succ.Left = node.Left
		*link = succ
	}

	t.size--
	t.nodes.Release(node)
	return nil
}

func (t *Tree) Len() int { return t.size }

// Close releases every node, children before parents.
func (t *Tree) Close() error {
	var release func(n *OrderBookNode)
	release = func(n *OrderBookNode) {
		if n == nil {
			return
		}
		release(n.Left)
		release(n.Right)
		t.nodes.Release(n)
	}
	release(t.root)
	t.root, t.size = nil, 0
	return nil
}

// Walk visits orders in id order.
func (t *Tree) Walk(fn func(Order)) {
	var walk func(n *OrderBookNode)
	walk = func(n *OrderBookNode) {
		if n == nil {
			return
		}
		walk(n.Left)
		fn(n.Order)
		walk(n.Right)
	}
	walk(t.root)
}

// Fprint writes the resting orders grouped by side, most recent first.
func (t *Tree) Fprint(w io.Writer) {
	var buys, sells []Order
	t.Walk(func(o Order) {
		if o.Side == OrderSideBuy {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	})

	rule := strings.Repeat("-", 40)
	fmt.Fprintln(w, "\nOrder Book")
	fmt.Fprintln(w, rule)
	for _, side := range []struct {
		name   string
		orders []Order
	}{{"Sells:", sells}, {"Buys:", buys}} {
		fmt.Fprintln(w, side.name)
		for i := len(side.orders) - 1; i >= 0; i-- {
			o := side.orders[i]
			fmt.Fprintf(w, "Price: %d, Quantity: %d, ID: %d\n", o.Price, o.Qty, o.Id)
		}
		fmt.Fprintln(w, rule)
	}
}
