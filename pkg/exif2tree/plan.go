package exif2tree

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var newNameFormat = "15_04_05"

// Move renames Old to New. Both are relative to the base directory.
type Move struct {
	Old string
	New string
}

// Plan is an ordered list of moves.
type Plan []Move

// NewPlan returns a move for every picture in t, in tree order.
func NewPlan(t *Tree) Plan {
	p := Plan{}
	t.Walk(func(y *Year, m *Month, d *Day, pic *Picture) error {
		name := pic.Taken.Format(newNameFormat) + RawExt
		p = append(p, Move{
			Old: pic.RelPath,
			New: filepath.Join(strconv.Itoa(y.Key), m.Key, d.Key, name),
		})
		return nil
	})
	return p
}

// Collision is a destination claimed by more than one file.
type Collision struct {
	New string
	// Sources are the original relative paths of every claimant, in plan order.
	// A file already sitting at New is listed first.
	Sources   []string
	Identical bool
}

// CollisionError is returned by Check when a plan would overwrite files.
type CollisionError struct {
	Collisions []*Collision
}

func (e *CollisionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d rename collisions:", len(e.Collisions))
	for _, c := range e.Collisions {
		content := "different content"
		if c.Identical {
			content = "identical content"
		}
		fmt.Fprintf(&sb, "\n  %s <- %s (%s)", c.New, strings.Join(c.Sources, ", "), content)
	}
	return sb.String()
}

// Check replays the plan against base without touching it, and returns a *CollisionError
// if any move would land on a file that is present at that point.
func (p Plan) Check(base string) error {
	// occupant maps a relative path to the original path of the file that will be there.
	// An empty value means the path has been vacated.
	occupant := map[string]string{}
	for _, m := range p {
		occupant[m.Old] = m.Old
	}

	taken := func(rel string) (string, bool, error) {
		if o, ok := occupant[rel]; ok {
			return o, o != "", nil
		}
		_, err := os.Lstat(filepath.Join(base, rel))
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("stat: %w", err)
		}
		occupant[rel] = rel
		return rel, true, nil
	}

	byNew := map[string]*Collision{}
	cs := []*Collision{}
	for _, m := range p {
		if m.Old == m.New {
			continue
		}

		o, busy, err := taken(m.New)
		if err != nil {
			return err
		}

		if busy {
			c := byNew[m.New]
			if c == nil {
				c = &Collision{New: m.New, Sources: []string{o}}
				byNew[m.New] = c
				cs = append(cs, c)
			}
			c.Sources = append(c.Sources, m.Old)
			continue
		}

		occupant[m.Old] = ""
		occupant[m.New] = m.Old
	}

	if len(cs) == 0 {
		return nil
	}

	for _, c := range cs {
		same, err := sameContent(base, c.Sources)
		if err != nil {
			return err
		}
		c.Identical = same
	}
	return &CollisionError{Collisions: cs}
}

func sameContent(base string, rels []string) (bool, error) {
	var first uint64
	for i, rel := range rels {
		sum, err := hashFile(filepath.Join(base, rel))
		if err != nil {
			return false, err
		}
		if i == 0 {
			first = sum
			continue
		}
		if sum != first {
			return false, nil
		}
	}
	return true, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return h.Sum64(), nil
}
