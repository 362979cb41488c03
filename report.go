package zstdbench

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Header returns the column labels of the text report.
func Header() string {
	return fmt.Sprintf("%-6s | %-12s | %-12s | %-10s | %-15s", "Level", "Time (s)", "Speed (MB/s)", "Ratio", "Size (MB)")
}

// Separator returns the line printed below Header.
func Separator() string {
	return "-------|--------------|--------------|------------|----------------"
}

// FormatRecord formats rec as a single text report row.
func FormatRecord(rec Record) string {
	if rec.Failed() {
		return fmt.Sprintf("Lvl %d Error: %s", rec.Level, rec.ErrorName())
	}
	return fmt.Sprintf("Lvl %-2d | %12.4f | %12s | %10.2f | %15.2f",
		rec.Level, rec.Seconds(), formatSpeed(rec.Speed()), rec.Ratio(), rec.CompressedMB())
}

func formatSpeed(speed float64) string {
	if math.IsInf(speed, 1) {
		return "inf"
	}
	return strconv.FormatFloat(speed, 'f', 2, 64)
}

// Format selects how a Reporter renders records.
type Format int

const (
	// FormatText prints one row per record as soon as it is measured.
	FormatText Format = iota

	// FormatTable prints a table once the sweep is over.
	FormatTable

	// FormatJSON prints a JSON document once the sweep is over.
	FormatJSON
)

// String returns the string representation of Format
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatTable:
		return "table"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// ParseFormat parses a string into Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("invalid format: %q (must be 'text', 'table' or 'json')", s)
	}
}

// MarshalText implements encoding.TextMarshaler for Format
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for Format
func (f *Format) UnmarshalText(data []byte) error {
	parsed, err := ParseFormat(string(data))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Reporter writes sweep records to w.
type Reporter struct {
	w       io.Writer
	format  Format
	records []Record
}

// NewReporter returns a reporter writing to w in the given format.
func NewReporter(w io.Writer, format Format) *Reporter {
	return &Reporter{
		w:      w,
		format: format,
	}
}

// Begin writes the text header. It is a no-op for other formats.
func (r *Reporter) Begin() error {
	if r.format != FormatText {
		return nil
	}
	_, err := fmt.Fprintf(r.w, "%s\n%s\n", Header(), Separator())
	return err
}

// Add reports rec. Text rows are written immediately.
func (r *Reporter) Add(rec Record) error {
	if r.format != FormatText {
		r.records = append(r.records, rec)
		return nil
	}
	_, err := fmt.Fprintln(r.w, FormatRecord(rec))
	return err
}

// End writes the buffered records for the table and JSON formats.
func (r *Reporter) End(s Summary) error {
	switch r.format {
	case FormatTable:
		r.renderTable(s)
		return nil
	case FormatJSON:
		return r.renderJSON(s)
	default:
		return nil
	}
}

// Summary describes the sweep in table and JSON reports.
type Summary struct {
	RunID      string `json:"runId"`
	Compressor string `json:"compressor"`
	Profile    string `json:"profile"`
	Size       int    `json:"size"`
	Seed       int64  `json:"seed"`
	Source     string `json:"source,omitempty"`
}

func (r *Reporter) renderTable(s Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.SetTitle(fmt.Sprintf("%s / %s / %d bytes", s.Compressor, s.Profile, s.Size))
	tw.AppendHeader(table.Row{"Level", "Time (s)", "Speed (MB/s)", "Ratio", "Size (MB)", "Error"})
	for _, rec := range r.records {
		if rec.Failed() {
			tw.AppendRow(table.Row{rec.Level, "", "", "", "", rec.ErrorName()})
			continue
		}
		tw.AppendRow(table.Row{
			rec.Level,
			fmt.Sprintf("%.4f", rec.Seconds()),
			formatSpeed(rec.Speed()),
			fmt.Sprintf("%.2f", rec.Ratio()),
			fmt.Sprintf("%.2f", rec.CompressedMB()),
			"",
		})
	}
	tw.Render()
}

type jsonRecord struct {
	Level          int      `json:"level"`
	Seconds        float64  `json:"seconds"`
	SpeedMBps      *float64 `json:"speedMBps,omitempty"`
	Ratio          float64  `json:"ratio,omitempty"`
	CompressedSize int      `json:"compressedSize,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type jsonReport struct {
	Summary
	Records []jsonRecord `json:"records"`
}

func (r *Reporter) renderJSON(s Summary) error {
	rep := jsonReport{
		Summary: s,
		Records: make([]jsonRecord, 0, len(r.records)),
	}
	for _, rec := range r.records {
		jr := jsonRecord{
			Level:   rec.Level,
			Seconds: rec.Seconds(),
		}
		if rec.Failed() {
			jr.Error = rec.ErrorName()
		} else {
			// JSON has no infinity; unbounded speed is left out.
			if speed := rec.Speed(); !math.IsInf(speed, 0) {
				jr.SpeedMBps = &speed
			}
			jr.Ratio = rec.Ratio()
			jr.CompressedSize = rec.CompressedSize
		}
		rep.Records = append(rep.Records, jr)
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
