// exif2tree moves camera raw files into a YYYY/MM/DD tree, named after the time they were taken.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/tstromberg/exif2tree/pkg/exif2tree"
)

var (
	renameFlag = flag.Bool("rename", false, "move files into the YYYY/MM/DD tree")
	dryRun     = flag.Bool("dry", false, "with --rename, print the moves without making them")
	decoder    = flag.String("decoder", "goexif", "metadata decoder: goexif or exiftool")
	progress   = flag.Bool("progress", false, "show a progress bar while reading metadata")
	watchFlag  = flag.Bool("watch", false, "with --rename, keep organizing files as they arrive")
)

func main() {
	klog.InitFlags(nil)
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	if err := run(); err != nil {
		klog.Exitf("%v", err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [PATH] [--rename] [--dry] [--decoder=goexif|exiftool] [--progress] [--watch]\n\n", os.Args[0])
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

func run() error {
	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	c := &exif2tree.Config{
		Root:     root,
		DryRun:   *dryRun,
		Progress: *progress,
		Out:      os.Stdout,
	}

	switch *decoder {
	case "goexif":
		c.Decoder = exif2tree.GoexifDecoder{}
	case "exiftool":
		d, err := exif2tree.NewExiftoolDecoder()
		if err != nil {
			return err
		}
		defer func() {
			if err := d.Close(); err != nil {
				klog.Errorf("Failed to close exiftool: %v", err)
			}
		}()
		c.Decoder = d
	default:
		return fmt.Errorf("unknown decoder %q", *decoder)
	}

	if !*renameFlag {
		if *dryRun || *watchFlag {
			klog.Warningf("--dry and --watch have no effect without --rename")
		}
		t, err := exif2tree.Find(c)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		for _, y := range t.Years {
			for _, m := range y.Months {
				for _, d := range m.Days {
					klog.Infof("%d/%s/%s: %d pictures", y.Key, m.Key, d.Key, len(d.Pictures))
				}
			}
		}
		return nil
	}

	if err := exif2tree.Organize(c); err != nil {
		return err
	}

	if !*watchFlag {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := exif2tree.NewWatcher(c)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx)
}
