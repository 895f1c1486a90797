// Package scores produces the mock practice scores shown on the dashboard.
// Values are cosmetic: they are resampled on every call and never stored.
package scores

import (
	"fmt"
	"math/rand/v2"
)

const (
	WindowDays = 14
	StreakDay  = 14
)

type Category struct {
	Key        string
	Label      string
	Min        int
	Max        int // exclusive
	Color      string
	Background string
}

var (
	Speech = Category{
		Key: "speech", Label: "Speech Test", Min: 50, Max: 100,
		Color: "#C4B5FD", Background: "rgba(196,181,253,0.3)",
	}
	Recognition = Category{
		Key: "recognition", Label: "Recognition Test", Min: 60, Max: 100,
		Color: "#CBA6F7", Background: "rgba(203,166,247,0.35)",
	}
	Memory = Category{
		Key: "memory", Label: "Memory Game", Min: 70, Max: 100,
		Color: "#6D94C5", Background: "rgba(109,148,197,0.3)",
	}
)

func Categories() []Category {
	return []Category{Speech, Recognition, Memory}
}

type Series struct {
	Category Category
	Values   []int
}

type TodayScores struct {
	Label       string
	Speech      int
	Recognition int
	Memory      int
}

type Dashboard struct {
	Days      []string
	Series    []Series
	Today     TodayScores
	StreakDay int
}

type Generator struct {
	intN func(n int) int
}

func NewGenerator() *Generator {
	return &Generator{intN: rand.IntN}
}

// NewGeneratorWithSource is used where a reproducible sequence is wanted.
func NewGeneratorWithSource(src rand.Source) *Generator {
	r := rand.New(src)
	return &Generator{intN: r.IntN}
}

func (g *Generator) Generate() Dashboard {
	days := DayLabels()
	series := make([]Series, 0, 3)
	for _, c := range Categories() {
		series = append(series, Series{Category: c, Values: g.sample(c)})
	}
	return Dashboard{
		Days:   days,
		Series: series,
		Today: TodayScores{
			Label:       days[len(days)-1],
			Speech:      last(series[0].Values),
			Recognition: last(series[1].Values),
			Memory:      last(series[2].Values),
		},
		StreakDay: StreakDay,
	}
}

func (g *Generator) sample(c Category) []int {
	values := make([]int, WindowDays)
	for i := range values {
		values[i] = c.Min + g.intN(c.Max-c.Min)
	}
	return values
}

// Generate samples a fresh dashboard from the process-wide random source.
func Generate() Dashboard {
	return NewGenerator().Generate()
}

func DayLabels() []string {
	days := make([]string, WindowDays)
	for i := range days {
		days[i] = fmt.Sprintf("Day %d", i+1)
	}
	return days
}

func last(values []int) int {
	return values[len(values)-1]
}
