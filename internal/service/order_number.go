package service

import (
	"context"
	"fmt"
	"math/rand/v2"
)

const (
	MinOrderNumber = 100000
	MaxOrderNumber = 999999

	maxOrderNumberAttempts = 5
)

// OrderNumberGenerator draws human-facing order numbers uniformly from
// [MinOrderNumber, MaxOrderNumber].
type OrderNumberGenerator struct {
	intN func(n int) int
}

func NewOrderNumberGenerator() *OrderNumberGenerator {
	return &OrderNumberGenerator{intN: rand.IntN}
}

// NewOrderNumberGeneratorWithSource uses intN (which must behave like
// rand.IntN) as the random source.
func NewOrderNumberGeneratorWithSource(intN func(n int) int) *OrderNumberGenerator {
	return &OrderNumberGenerator{intN: intN}
}

func (g *OrderNumberGenerator) Draw() int {
	return MinOrderNumber + g.intN(MaxOrderNumber-MinOrderNumber+1)
}

// Next draws numbers until exists reports one as unused, giving up after a
// fixed number of attempts.
func (g *OrderNumberGenerator) Next(ctx context.Context, exists func(ctx context.Context, number int) (bool, error)) (int, error) {
	for i := 0; i < maxOrderNumberAttempts; i++ {
		n := g.Draw()
		taken, err := exists(ctx, n)
		if err != nil {
			return 0, err
		}
		if !taken {
			return n, nil
		}
	}
	return 0, fmt.Errorf("no free order number after %d attempts", maxOrderNumberAttempts)
}
