package exif2tree

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"k8s.io/klog/v2"
)

var exifDate = "2006:01:02 15:04:05"

// ErrNoDateTime is returned when a file has no Image DateTime tag.
var ErrNoDateTime = errors.New("no DateTime tag")

// Decoder returns the raw Image DateTime value of a file.
type Decoder interface {
	DateTime(path string, r io.Reader) (string, error)
}

// ParseTaken parses an EXIF timestamp, rejecting anything not in YYYY:MM:DD HH:MM:SS form.
func ParseTaken(s string) (time.Time, error) {
	t, err := time.Parse(exifDate, s)
	if err != nil {
		return t, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// GoexifDecoder decodes the standard IFDs in-process. Maker notes are not parsed.
type GoexifDecoder struct{}

func (GoexifDecoder) DateTime(path string, r io.Reader) (string, error) {
	x, err := exif.Decode(r)
	if err != nil {
		if exif.IsCriticalError(err) {
			return "", fmt.Errorf("decode %s: %w", path, err)
		}
		klog.V(1).Infof("partial exif in %s: %v", path, err)
	}

	tag, err := x.Get(exif.DateTime)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, ErrNoDateTime)
	}

	s, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("%s: DateTime: %w", path, err)
	}
	return s, nil
}

// ExiftoolDecoder reads metadata through a long-running exiftool process.
type ExiftoolDecoder struct {
	et *exiftool.Exiftool
}

// NewExiftoolDecoder starts exiftool. Callers must Close it.
func NewExiftoolDecoder() (*ExiftoolDecoder, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExiftoolDecoder{et: et}, nil
}

// DateTime returns the ModifyDate field, which is how exiftool names IFD0 DateTime.
func (d *ExiftoolDecoder) DateTime(path string, _ io.Reader) (string, error) {
	fis := d.et.ExtractMetadata(path)
	fi := fis[0]
	if fi.Err != nil {
		return "", fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(3).Infof("%q=%v", k, v)
	}

	s, err := fi.GetString("ModifyDate")
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, ErrNoDateTime)
	}
	return s, nil
}

func (d *ExiftoolDecoder) Close() error {
	return d.et.Close()
}
