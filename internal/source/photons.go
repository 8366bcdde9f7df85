package source

import (
	"fmt"
	"os"

	"github.com/ivlev/mapmovie/internal/photon"
	"github.com/ivlev/mapmovie/internal/sunmap"
	"github.com/ivlev/mapmovie/internal/timeslice"
)

type PhotonOptions struct {
	Binner  photon.Binner
	Windows []timeslice.Window
}

// PhotonSource serves one count map per time window of a photon list.
type PhotonSource struct {
	maps []*sunmap.Map
}

func NewPhotonSource(path string, opts PhotonOptions) (*PhotonSource, error) {
	if len(opts.Windows) == 0 {
		return nil, fmt.Errorf("photon source %s: no time windows", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events, err := photon.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	maps, err := opts.Binner.Bin(events, opts.Windows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &PhotonSource{maps: maps}, nil
}

func (s *PhotonSource) Count() int {
	return len(s.maps)
}

func (s *PhotonSource) Load(index int) (*sunmap.Map, error) {
	if index < 0 || index >= len(s.maps) {
		return nil, fmt.Errorf("window %d out of range 0..%d", index, len(s.maps)-1)
	}
	return s.maps[index], nil
}

func (s *PhotonSource) Close() error {
	return nil
}
