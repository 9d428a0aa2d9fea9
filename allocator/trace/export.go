package trace

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// TraceHeader captures metadata for an exported placement trace.
type TraceHeader struct {
	Version         int    `yaml:"trace_version"`
	Instance        string `yaml:"instance"`
	Allocator       string `yaml:"allocator"`
	ZeroSizePolicy  string `yaml:"zero_size_policy"`
	ZeroValuePolicy string `yaml:"zero_value_policy"`
	CreatedAt       string `yaml:"created_at,omitempty"`
}

// TraceFile combines header and records for a complete exported trace.
type TraceFile struct {
	Header  TraceHeader
	Records []PlacementRecord
}

// CSV column headers for the placement trace.
var traceColumns = []string{"sequence", "value", "endpoint", "video", "cache", "outcome"}

// Export writes the trace header (YAML) and records (CSV) to separate files.
// Values use the shortest float formatting that round-trips exactly.
// Both files are staged first; on failure neither path is left half-written.
func Export(header *TraceHeader, records []PlacementRecord, headerPath, dataPath string) error {
	headerData, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling trace header: %w", err)
	}

	data, err := renameio.NewPendingFile(dataPath, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("creating trace data file: %w", err)
	}
	defer func() { _ = data.Cleanup() }()
	if err := writeRecords(data, records); err != nil {
		return err
	}

	hdr, err := renameio.NewPendingFile(headerPath, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("creating trace header file: %w", err)
	}
	defer func() { _ = hdr.Cleanup() }()
	if _, err := hdr.Write(headerData); err != nil {
		return fmt.Errorf("writing trace header: %w", err)
	}

	if err := data.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("writing trace data: %w", err)
	}
	if err := hdr.CloseAtomicallyReplace(); err != nil {
		_ = os.Remove(dataPath)
		return fmt.Errorf("writing trace header: %w", err)
	}
	return nil
}

func writeRecords(w io.Writer, records []PlacementRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(traceColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Sequence),
			strconv.FormatFloat(r.Value, 'g', -1, 64),
			strconv.Itoa(r.Endpoint),
			strconv.Itoa(r.Video),
			strconv.Itoa(r.Cache),
			string(r.Outcome),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", r.Sequence, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing trace data: %w", err)
	}
	return nil
}

// Load reads a trace previously written by Export.
// The header is parsed strictly: unrecognized keys are rejected.
func Load(headerPath, dataPath string) (*TraceFile, error) {
	headerData, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, fmt.Errorf("reading trace header: %w", err)
	}
	var tf TraceFile
	decoder := yaml.NewDecoder(bytes.NewReader(headerData))
	decoder.KnownFields(true)
	if err := decoder.Decode(&tf.Header); err != nil {
		return nil, fmt.Errorf("parsing trace header: %w", err)
	}

	file, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("opening trace data: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(traceColumns)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for rowIdx := 0; ; rowIdx++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("trace row %d: %w", rowIdx, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("trace row %d: %w", rowIdx, err)
		}
		tf.Records = append(tf.Records, rec)
	}
	return &tf, nil
}

func parseRow(row []string) (PlacementRecord, error) {
	var rec PlacementRecord
	var err error
	if rec.Sequence, err = strconv.Atoi(row[0]); err != nil {
		return rec, fmt.Errorf("invalid sequence %q: %w", row[0], err)
	}
	if rec.Value, err = strconv.ParseFloat(row[1], 64); err != nil {
		return rec, fmt.Errorf("invalid value %q: %w", row[1], err)
	}
	if rec.Endpoint, err = strconv.Atoi(row[2]); err != nil {
		return rec, fmt.Errorf("invalid endpoint %q: %w", row[2], err)
	}
	if rec.Video, err = strconv.Atoi(row[3]); err != nil {
		return rec, fmt.Errorf("invalid video %q: %w", row[3], err)
	}
	if rec.Cache, err = strconv.Atoi(row[4]); err != nil {
		return rec, fmt.Errorf("invalid cache %q: %w", row[4], err)
	}
	rec.Outcome = Outcome(row[5])
	if !validOutcomes[rec.Outcome] {
		return rec, fmt.Errorf("unknown outcome %q", row[5])
	}
	return rec, nil
}
