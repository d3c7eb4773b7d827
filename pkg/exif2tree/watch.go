package exif2tree

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Watcher organizes raw files as they appear under a root.
type Watcher struct {
	c *Config
	w *fsnotify.Watcher

	// passed is called with the result of every pass.
	passed func(error)
}

// NewWatcher watches c.Root and every directory below it.
func NewWatcher(c *Config) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}

	root, err := resolveRoot(c.Root)
	if err != nil {
		w.Close()
		return nil, err
	}

	wa := &Watcher{c: c, w: w}
	if err := wa.addTree(root); err != nil {
		w.Close()
		return nil, err
	}
	return wa, nil
}

func (wa *Watcher) addTree(dir string) error {
	n := 0
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			n++
			return wa.w.Add(path)
		},
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	klog.Infof("watching %d dirs under %s ...", n, dir)
	return nil
}

// Run organizes the root once things have been quiet for the settle period after a raw file
// is created or written. Errors from a pass are logged and watching continues.
func (wa *Watcher) Run(ctx context.Context) error {
	settle := wa.c.settle()
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-wa.w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)

			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := wa.addTree(event.Name); err != nil {
						klog.Errorf("add: %v", err)
					}
					timer.Reset(settle)
					continue
				}
			}

			if !strings.HasSuffix(event.Name, RawExt) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				timer.Reset(settle)
			}
		case err, ok := <-wa.w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		case <-timer.C:
			err := Organize(wa.c)
			if err != nil {
				klog.Errorf("organize failed: %v", err)
			}
			if wa.passed != nil {
				wa.passed(err)
			}
		}
	}
}

func (wa *Watcher) Close() error {
	return wa.w.Close()
}
