package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/ivlev/mapmovie/internal/sunmap"
	"github.com/ivlev/mapmovie/internal/system"
)

var imageExts = []string{".jpg", ".jpeg", ".png"}

// ImageSource reads a directory of png/jpeg frames in name order, or a
// single image file. The observation time is the file's mtime.
type ImageSource struct {
	Instrument  string
	Measurement string
	Scale       float64

	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && system.HasExt(entry.Name(), imageExts...) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images in %s", path)
	}

	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

func (s *ImageSource) Paths() []string {
	return s.paths
}

func (s *ImageSource) Load(index int) (*sunmap.Map, error) {
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("frame %d out of range 0..%d", index, len(s.paths)-1)
	}
	path := s.paths[index]
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	grid := sunmap.GridFromImage(img)
	proj := sunmap.PixelProjection()
	if s.Scale > 0 {
		proj = sunmap.Helioprojective(grid.Width, grid.Height, s.Scale)
	}
	return sunmap.New(grid, sunmap.Meta{
		Observed:    fi.ModTime().UTC(),
		Instrument:  s.Instrument,
		Measurement: s.Measurement,
		Header:      map[string]string{"FILENAME": filepath.Base(path)},
	}, proj), nil
}

func (s *ImageSource) Close() error {
	return nil
}
