// Package stats turns table rows into the category counts shown by the pie charts.
package stats

import (
	"math"
	"sort"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
)

// Age band labels of the staff chart.
const (
	BandUnder30 = "<30"
	Band30To50  = "30-50"
	BandOver50  = ">50"
)

// NoPerformer is reported as best counterparty when a table is empty.
const NoPerformer = "-"

// Category is one slice of a chart.
type Category struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Breakdown is the data of one chart. Total always equals the sum of category counts.
type Breakdown struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

// Count is a named tally fed to NewBreakdown.
type Count struct {
	Name  string
	Count int
}

// NewBreakdown keeps the non-zero counts in the given order and computes percentages.
func NewBreakdown(counts ...Count) Breakdown {
	b := Breakdown{Categories: []Category{}}
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		b.Categories = append(b.Categories, Category{Name: c.Name, Count: c.Count})
		b.Total += c.Count
	}
	for i := range b.Categories {
		b.Categories[i].Percent = Percent(b.Categories[i].Count, b.Total)
	}
	return b
}

// Count returns the count of the named category, zero when absent.
func (b Breakdown) Count(name string) int {
	for _, c := range b.Categories {
		if c.Name == name {
			return c.Count
		}
	}
	return 0
}

// IsEmpty reports whether the chart has nothing to draw.
func (b Breakdown) IsEmpty() bool { return b.Total == 0 }

// Percent is part*100/total rounded to one decimal, zero when total is zero.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// Tally counts occurrences of each name and returns them sorted by name.
func Tally(names []string) []Count {
	counts := make(map[string]int, len(names))
	for _, name := range names {
		counts[name]++
	}
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AgeInYears divides the days lived by 365, ignoring leap years.
func AgeInYears(birth, today models.Date) int {
	return birth.DaysUntil(today) / 365
}

// AgeBand maps an age to its chart label.
func AgeBand(age int) string {
	switch {
	case age < 30:
		return BandUnder30
	case age <= 50:
		return Band30To50
	default:
		return BandOver50
	}
}

// AgeBreakdown buckets birth dates into the three age bands.
func AgeBreakdown(births []models.Date, today models.Date) Breakdown {
	var young, adult, senior int
	for _, birth := range births {
		switch AgeBand(AgeInYears(birth, today)) {
		case BandUnder30:
			young++
		case Band30To50:
			adult++
		default:
			senior++
		}
	}
	return NewBreakdown(
		Count{Name: BandUnder30, Count: young},
		Count{Name: Band30To50, Count: adult},
		Count{Name: BandOver50, Count: senior},
	)
}

// Performance is one line of the counterparty performance table.
type Performance struct {
	Counterparty string  `json:"counterparty"`
	Total        int     `json:"total"`
	Delivered    int     `json:"delivered"`
	Rate         float64 `json:"rate"`
}

// Delivery is the part of an order the performance table looks at.
type Delivery struct {
	Counterparty string
	Delivered    bool
}

// RankCounterparties builds the performance table, sorted by counterparty name, and
// picks the counterparty with the most orders. Ties go to the first one in table order.
func RankCounterparties(deliveries []Delivery) ([]Performance, Performance) {
	index := make(map[string]*Performance)
	for _, d := range deliveries {
		p, ok := index[d.Counterparty]
		if !ok {
			p = &Performance{Counterparty: d.Counterparty}
			index[d.Counterparty] = p
		}
		p.Total++
		if d.Delivered {
			p.Delivered++
		}
	}

	table := make([]Performance, 0, len(index))
	for _, p := range index {
		p.Rate = Percent(p.Delivered, p.Total)
		table = append(table, *p)
	}
	sort.Slice(table, func(i, j int) bool { return table[i].Counterparty < table[j].Counterparty })

	best := Performance{Counterparty: NoPerformer}
	for _, p := range table {
		if p.Total > best.Total {
			best = p
		}
	}
	return table, best
}
