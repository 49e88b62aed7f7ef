// Package export writes audit bundles: the full analysis result, its policy
// snapshot and the rendered verdict, as zstd-compressed JSON. A bundle plus
// EvaluatorFromSnapshot is enough to replay a historical verdict exactly.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"dbimpact/internal/impact"
	"dbimpact/internal/verdict"
)

// Bundle is the serialized audit record for one analysis run.
type Bundle struct {
	RunId       string                 `json:"runId"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Result      *impact.ImpactResult   `json:"result"`
	Verdict     *verdict.ImpactVerdict `json:"verdict,omitempty"`
}

// Exporter writes audit bundles into a directory.
type Exporter struct {
	dir   string
	level zstd.EncoderLevel
}

// NewExporter creates an exporter writing into dir. level is the zstd
// encoder level, 1 (fastest) to 4 (best); out-of-range values fall back to
// the default level.
func NewExporter(dir string, level int) *Exporter {
	encLevel := zstd.SpeedDefault
	if level >= 1 && level <= 4 {
		encLevel = zstd.EncoderLevel(level)
	}
	return &Exporter{dir: dir, level: encLevel}
}

// Export writes the bundle and returns its run id and file path. Run ids
// are random UUIDs: they identify the run, never feed into scoring.
func (e *Exporter) Export(result *impact.ImpactResult, v *verdict.ImpactVerdict) (runId, path string, err error) {
	if result == nil {
		return "", "", fmt.Errorf("export: nil result")
	}
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", "", fmt.Errorf("export: creating %s: %w", e.dir, err)
	}

	bundle := Bundle{
		RunId:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Result:      result,
		Verdict:     v,
	}

	path = filepath.Join(e.dir, bundle.RunId+".json.zst")
	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("export: creating bundle file: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(e.level))
	if err != nil {
		return "", "", fmt.Errorf("export: initializing compressor: %w", err)
	}

	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		zw.Close()
		return "", "", fmt.Errorf("export: encoding bundle: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", "", fmt.Errorf("export: flushing compressor: %w", err)
	}
	return bundle.RunId, path, nil
}

// Read loads a previously exported bundle.
func Read(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: opening bundle: %w", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("export: initializing decompressor: %w", err)
	}
	defer zr.Close()

	var bundle Bundle
	if err := json.NewDecoder(zr).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("export: decoding bundle: %w", err)
	}
	return &bundle, nil
}
