package pos

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// Minimum plausible size of an encoded table: msgpack map header plus
	// the three keys.
	minTableFileSize = 8
	// More noun-prefix ids than the whole id space is corrupt data.
	maxNounPrefixIDs = 1 << 16
)

// ValidateTableFile checks that a path looks like an encoded POS table
// before it is decoded.
func ValidateTableFile(filename string) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.Size() < minTableFileSize {
		return fmt.Errorf("file %s is too small (%d bytes) for a POS table (minimum: %d bytes)",
			filename, fileInfo.Size(), minTableFileSize)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".bin" {
		return fmt.Errorf("file %s has invalid extension %s for a POS table (expected: .bin)",
			filename, ext)
	}
	return nil
}

// LoadTable reads and decodes a msgpack POS table file.
func LoadTable(filename string) (*Table, error) {
	if err := ValidateTableFile(filename); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read POS table %s: %w", filename, err)
	}

	var table Table
	if err := msgpack.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to decode POS table %s: %w", filename, err)
	}
	if len(table.NounPrefix) > maxNounPrefixIDs {
		return nil, fmt.Errorf("suspicious noun prefix count in %s: %d (too large)",
			filename, len(table.NounPrefix))
	}
	table.index()

	log.Debugf("POS table %s loaded: %d noun prefix ids, last_name=%d, first_name=%d",
		filename, len(table.NounPrefix), table.LastName, table.FirstName)
	return &table, nil
}

// SaveTable encodes a table to a msgpack file.
func SaveTable(table *Table, filename string) error {
	data, err := msgpack.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode POS table: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write POS table %s: %w", filename, err)
	}
	return nil
}
