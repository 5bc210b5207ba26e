package orderbook

import "math/rand/v2"

type OrderSide int

const (
	OrderSideBuy  OrderSide = 1
	OrderSideSell OrderSide = 2
	MaxPrice                = 10000
	MinPrice                = 9000
)

type Order struct {
	Id    int
	Side  OrderSide
	Price int
	Qty   int
}

type OrderBook interface {
	Insert(order Order) error
	Remove(id int) error
	Len() int
	// Close releases every resting order.
	Close() error
}

// Generator produces orders with increasing ids and removes them in the same
// order. It is not safe for concurrent use; give each worker its own.
type Generator struct {
	rng      *rand.Rand
	counter  int
	removals int
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		counter:  1,
		removals: 1,
	}
}

func (g *Generator) randomBoolDistribution(truePercentage int) bool {
	return g.rng.IntN(100) < truePercentage
}

func (g *Generator) randomSide() OrderSide {
	if g.rng.IntN(2) == 0 {
		return OrderSideBuy
	}
	return OrderSideSell
}

func (g *Generator) GenerateOrder() Order {
	side := g.randomSide()
	price := g.rng.IntN(MaxPrice-MinPrice) + MinPrice
	qty := g.rng.IntN(10) + 1
	id := g.counter
	g.counter++
	return Order{id, side, price, qty}
}

// Act performs one random operation: an insert or the removal of the oldest
// resting order, with equal probability.
func (g *Generator) Act(ob OrderBook) error {
	if g.randomBoolDistribution(50) {
		return ob.Insert(g.GenerateOrder())
	}
	if g.removals >= g.counter {
		return nil
	}
	err := ob.Remove(g.removals)
	g.removals++
	return err
}
