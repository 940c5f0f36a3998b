package result

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Report is the persisted outcome of a verification run.
type Report struct {
	Checked    int64      `json:"checked"`
	Mismatches []Mismatch `json:"mismatches"`
}

// NewReport snapshots t.
func NewReport(checked int64, t *Table) *Report {
	return &Report{Checked: checked, Mismatches: t.Mismatches()}
}

// WriteJSON encodes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReadJSON decodes a report written by WriteJSON.
func ReadJSON(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// SaveReport writes r to path on fs.
func SaveReport(fs afero.Fs, path string, r *Report) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.WriteJSON(f)
}

// LoadReport reads a report from path on fs.
func LoadReport(fs afero.Fs, path string) (*Report, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}
