package source

import (
	"fmt"
	"strconv"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/mapmovie/internal/sunmap"
)

const DefaultPDFDPI = 72

// FitzPDFSource renders each page of a PDF as one frame.
type FitzPDFSource struct {
	Instrument string

	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = DefaultPDFDPI
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) Count() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Load(index int) (*sunmap.Map, error) {
	if n := f.Count(); index < 0 || index >= n {
		return nil, fmt.Errorf("page %d out of range 1..%d", index+1, n)
	}
	// fitz documents are not safe for concurrent use, each load opens its own
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index, float64(f.dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index+1, err)
	}
	return sunmap.New(sunmap.GridFromImage(img), sunmap.Meta{
		Instrument:  f.Instrument,
		Measurement: "page " + strconv.Itoa(index+1),
		Header:      map[string]string{"FILENAME": f.path},
	}, sunmap.PixelProjection()), nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
