package exif2tree

import (
	"cmp"
	"slices"
	"time"
)

// Picture is a raw file and the time it was taken.
type Picture struct {
	// Name is the base name of the file.
	Name string
	// RelPath is the location of the file relative to the scan root.
	RelPath string
	Taken   time.Time
}

// Day holds pictures in the order they were found.
type Day struct {
	Key      string
	Pictures []*Picture
}

type Month struct {
	Key  string
	Days []*Day
}

type Year struct {
	Key    int
	Months []*Month
}

// Tree groups pictures by year, then zero-padded month, then zero-padded day.
// Keys are kept in ascending order at every level.
type Tree struct {
	Years []*Year
	n     int
}

// Add files p under the date it was taken.
func (t *Tree) Add(p *Picture) {
	y := t.year(p.Taken.Year())
	m := y.month(p.Taken.Format("01"))
	d := m.day(p.Taken.Format("02"))
	d.Pictures = append(d.Pictures, p)
	t.n++
}

// Len returns the number of pictures in the tree.
func (t *Tree) Len() int {
	return t.n
}

// Walk calls fn for every picture: years, months and days ascending, pictures in discovery order.
func (t *Tree) Walk(fn func(y *Year, m *Month, d *Day, p *Picture) error) error {
	for _, y := range t.Years {
		for _, m := range y.Months {
			for _, d := range m.Days {
				for _, p := range d.Pictures {
					if err := fn(y, m, d, p); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (t *Tree) year(k int) *Year {
	i, ok := slices.BinarySearchFunc(t.Years, k, func(y *Year, k int) int { return cmp.Compare(y.Key, k) })
	if !ok {
		t.Years = slices.Insert(t.Years, i, &Year{Key: k})
	}
	return t.Years[i]
}

func (y *Year) month(k string) *Month {
	i, ok := slices.BinarySearchFunc(y.Months, k, func(m *Month, k string) int { return cmp.Compare(m.Key, k) })
	if !ok {
		y.Months = slices.Insert(y.Months, i, &Month{Key: k})
	}
	return y.Months[i]
}

func (m *Month) day(k string) *Day {
	i, ok := slices.BinarySearchFunc(m.Days, k, func(d *Day, k string) int { return cmp.Compare(d.Key, k) })
	if !ok {
		m.Days = slices.Insert(m.Days, i, &Day{Key: k})
	}
	return m.Days[i]
}
