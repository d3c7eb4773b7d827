package exif2tree

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

var rename = os.Rename

// move renames src to dst, copying across filesystems when a rename is not possible.
func move(src string, dst string) error {
	err := rename(src, dst)
	if err == nil {
		return nil
	}

	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	klog.V(1).Infof("%s and %s are on different devices, copying", src, dst)
	if err := copy.Copy(src, dst, copy.Options{Sync: true, PreserveTimes: true}); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return os.Remove(src)
}
