package problem

import (
	"strings"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
	"github.com/wildfunctions/genetic_solver/pkg/genotype"
)

// Item is something that can go in the knapsack.
type Item struct {
	Name   string
	Value  float64
	Weight float64
}

// KnapsackCapacity is the weight limit of the classic instance.
const KnapsackCapacity = 15

// KnapsackItems is the classic eight item instance.
var KnapsackItems = []Item{
	{"book", 100, 8},
	{"sunglasses", 80, 1},
	{"tablet", 35, 6},
	{"camera", 100, 12},
	{"moleskine", 80, 3},
	{"pen", 100, 1},
	{"duct tape", 10, 1},
	{"swiss army knife", 25, 5},
}

func init() {
	Register("knapsack", func(length int) (Problem, error) {
		if length != 0 && length != len(KnapsackItems) {
			return Problem{}, errs.Invalid("knapsack has %d items, got length %d", len(KnapsackItems), length)
		}
		return NewKnapsack(KnapsackItems, KnapsackCapacity), nil
	})
}

// NewKnapsack builds a 0/1 knapsack problem. Bit i picks items[i]; an
// overweight pick list scores 0.
func NewKnapsack(items []Item, capacity float64) Problem {
	items = append([]Item(nil), items...)
	totals := func(g genotype.Genotype) (value, weight float64) {
		for i, pick := range g {
			value += pick * items[i].Value
			weight += pick * items[i].Weight
		}
		return value, weight
	}
	return Problem{
		Name: "knapsack",
		Genotype: genotype.Config{
			Kind:          genotype.Bitstring,
			Length:        len(items),
			Recombination: genotype.Crossover,
		},
		Fitness: func(g genotype.Genotype) (float64, error) {
			value, weight := totals(g)
			if weight > capacity {
				return 0, nil
			}
			return value, nil
		},
		Describe: func(g genotype.Genotype) string {
			var picked []string
			for i, pick := range g {
				if pick == 1 {
					picked = append(picked, items[i].Name)
				}
			}
			_, weight := totals(g)
			if weight > capacity {
				return "overweight: " + strings.Join(picked, ", ")
			}
			return strings.Join(picked, ", ")
		},
	}
}
