package exif2tree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

func read(root string, path string, d Decoder) (*Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	ds, err := d.DateTime(path, f)
	if err != nil {
		return nil, err
	}

	taken, err := ParseTaken(ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, err
	}

	return &Picture{Name: filepath.Base(path), RelPath: rel, Taken: taken}, nil
}

// discover returns raw files under root in lexical walk order.
func discover(root string) ([]string, error) {
	found := []string{}

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !strings.HasSuffix(de.Name(), RawExt) {
				return nil
			}
			if de.IsSymlink() {
				fi, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat: %w", err)
				}
				if !fi.Mode().IsRegular() {
					return nil
				}
			} else if !de.IsRegular() {
				return nil
			}
			klog.V(1).Infof("found %s", path)
			found = append(found, path)
			return nil
		},
	})

	return found, err
}

// resolveRoot follows a symlinked root, since godirwalk will only walk a real directory.
func resolveRoot(root string) (string, error) {
	r, err := filepath.EvalSymlinks(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}
	return r, nil
}

// Find reads the capture time of every raw file under c.Root and builds a tree of them.
// The first file that cannot be read aborts the whole walk.
func Find(c *Config) (*Tree, error) {
	root, err := resolveRoot(c.Root)
	if err != nil {
		return nil, err
	}

	paths, err := discover(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var bar *progressbar.ProgressBar
	if c.Progress {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Reading"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	t := &Tree{}
	d := c.decoder()
	for _, path := range paths {
		p, err := read(root, path, d)
		if err != nil {
			return nil, err
		}
		t.Add(p)

		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		bar.Finish()
	}

	klog.Infof("found %d pictures in %s", t.Len(), root)
	return t, nil
}
