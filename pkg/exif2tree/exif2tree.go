// Package exif2tree organizes camera raw files into a year/month/day tree named by capture time.
package exif2tree

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RawExt is the case-sensitive suffix of files that are organized.
var RawExt = ".CR2"

// DefaultSettle is how long the watcher waits for a burst of events to finish.
var DefaultSettle = 2 * time.Second

// Config holds configuration for exif2tree.
type Config struct {
	// Root is scanned for raw files, and is also the base of the year/month/day tree.
	Root    string
	Decoder Decoder
	DryRun  bool

	Progress bool
	Out      io.Writer
	Settle   time.Duration
}

func (c *Config) decoder() Decoder {
	if c.Decoder == nil {
		return GoexifDecoder{}
	}
	return c.Decoder
}

func (c *Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Config) settle() time.Duration {
	if c.Settle <= 0 {
		return DefaultSettle
	}
	return c.Settle
}

// Organize finds raw files under c.Root and moves them into place.
func Organize(c *Config) error {
	t, err := Find(c)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}

	if err := Apply(c, NewPlan(t)); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	return nil
}
