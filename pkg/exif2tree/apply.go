package exif2tree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"k8s.io/klog/v2"
)

var dryLabel = color.New(color.FgYellow, color.Bold)

// Apply executes p relative to c.Root. Collisions are reported before anything is moved.
// There is no rollback: an error partway through leaves earlier moves in place.
func Apply(c *Config, p Plan) error {
	base := c.Root
	if err := p.Check(base); err != nil {
		return err
	}

	out := c.out()
	moved := 0
	skipped := 0

	for _, m := range p {
		oldPath := filepath.Join(base, m.Old)
		newPath := filepath.Join(base, m.New)

		if m.Old == m.New {
			klog.V(1).Infof("%s is already in place", oldPath)
			skipped++
			continue
		}

		if c.DryRun {
			fmt.Fprintf(out, "%s Moving %s to %s\n", dryLabel.Sprint("DRY RUN:"), oldPath, newPath)
			continue
		}

		fmt.Fprintf(out, "Moving %s to %s\n", oldPath, newPath)
		if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}

		if err := move(oldPath, newPath); err != nil {
			return fmt.Errorf("move %s: %w", oldPath, err)
		}
		moved++
	}

	if c.DryRun {
		klog.Infof("dry run: %d moves planned, %d already in place", len(p)-skipped, skipped)
		return nil
	}

	klog.Infof("moved %d pictures, %d already in place", moved, skipped)
	return nil
}
