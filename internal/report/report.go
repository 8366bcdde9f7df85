package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/mapmovie/internal/timeslice"
)

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

const SheetName = "Windows"

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Row is one window as exported.
type Row struct {
	Index    int       `yaml:"index"`
	Start    time.Time `yaml:"start"`
	End      time.Time `yaml:"end"`
	Duration float64   `yaml:"duration"` // seconds
}

func Rows(windows []timeslice.Window) []Row {
	rows := make([]Row, len(windows))
	for i, w := range windows {
		rows[i] = Row{Index: i, Start: w.Start.UTC(), End: w.End.UTC(), Duration: w.Duration().Seconds()}
	}
	return rows
}

// Write exports windows to w in the given format.
func Write(w io.Writer, format Format, windows []timeslice.Window) error {
	switch format {
	case FormatText:
		return WriteText(w, windows)
	case FormatYAML:
		return WriteYAML(w, windows)
	case FormatXLSX:
		return WriteXLSX(w, windows)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func WriteText(w io.Writer, windows []timeslice.Window) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTART\tEND\tDURATION")
	for _, r := range Rows(windows) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%gs\n", r.Index, r.Start.Format(time.RFC3339Nano), r.End.Format(time.RFC3339Nano), r.Duration)
	}
	return tw.Flush()
}

func WriteYAML(w io.Writer, windows []timeslice.Window) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Windows []Row `yaml:"windows"`
	}{Rows(windows)}); err != nil {
		return err
	}
	return enc.Close()
}

func WriteXLSX(w io.Writer, windows []timeslice.Window) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	header := []interface{}{"index", "start", "end", "duration_s"}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range Rows(windows) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Index, r.Start.Format(time.RFC3339Nano), r.End.Format(time.RFC3339Nano), r.Duration}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
