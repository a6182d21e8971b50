package taint

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
)

// Read parses a taint output stream. The header must declare expectedVersion, otherwise
// a *errors.VersionMismatchError is returned before any record is parsed.
// Records of unknown kinds are skipped.
func Read(r io.Reader, expectedVersion int) (*Output, error) {
	reader := bufio.NewReader(r)
	out := &Output{}

	headerSeen := false
	lineNumber := 0
	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("failed to read taint output: %w", readErr)
		}
		lineNumber++

		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			if !headerSeen {
				if err := checkHeader(line, expectedVersion); err != nil {
					return nil, err
				}
				headerSeen = true
			} else if err := out.add(line); err != nil {
				return nil, fmt.Errorf("malformed record at line %d: %w", lineNumber, err)
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	if !headerSeen {
		return nil, fmt.Errorf("taint output is empty: missing file header")
	}
	return out, nil
}

func checkHeader(line []byte, expectedVersion int) error {
	var header Header
	if err := json.Unmarshal(line, &header); err != nil {
		return fmt.Errorf("malformed file header: %w", err)
	}
	if header.FileVersion == nil {
		return fmt.Errorf("malformed file header: missing file_version")
	}
	if *header.FileVersion != expectedVersion {
		return &errors.VersionMismatchError{Got: *header.FileVersion, Expected: expectedVersion}
	}
	return nil
}

func (o *Output) add(line []byte) error {
	var record Record
	if err := json.Unmarshal(line, &record); err != nil {
		return err
	}
	switch {
	case record.Model != nil:
		o.Models = append(o.Models, *record.Model)
	case record.Issue != nil:
		o.Issues = append(o.Issues, *record.Issue)
	}
	return nil
}

// ReadResultsDir reads OutputFileName from an analyzer results folder.
func ReadResultsDir(dir string, expectedVersion int) (*Output, error) {
	path := filepath.Join(dir, OutputFileName)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open taint output %q: %w", path, err)
	}
	defer file.Close()

	out, err := Read(file, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to parse taint output %q: %w", path, err)
	}
	return out, nil
}
