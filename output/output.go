package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// CodeWriter renders one result mapping in every supported format.
type CodeWriter interface {
	WriteCS(f *Formatter) error
	WriteHpp(f *Formatter) error
	WriteRust(f *Formatter) error
	WriteJSON(f *Formatter) error
}

// Formats lists the supported output formats.
var Formats = []string{"cs", "hpp", "json", "rs"}

const indentWidth = 4

// WriteFiles renders both mappings into dir, one file per format:
// offsets.<ext> and patterns.<ext>.
func WriteFiles(dir string, formats []string, offsets Offsets, patterns Patterns) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeArtifact(dir, "offsets", formats, offsets); err != nil {
		return err
	}
	return writeArtifact(dir, "patterns", formats, patterns)
}

func writeArtifact(dir, stem string, formats []string, w CodeWriter) error {
	for _, format := range formats {
		path := filepath.Join(dir, stem+"."+format)
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}

		f := NewFormatter(file, indentWidth)
		switch format {
		case "cs":
			err = w.WriteCS(f)
		case "hpp":
			err = w.WriteHpp(f)
		case "json":
			err = w.WriteJSON(f)
		case "rs":
			err = w.WriteRust(f)
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}

		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
