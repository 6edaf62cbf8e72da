package dictionary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/charmbracelet/log"
)

var ErrUnknownFormat = errors.New("unknown dictionary format")

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // whitespace separated tokens
	FormatChunk              // binary chunk: counted, length-prefixed entries
)

// maxChunkEntries is a sanity bound on the entry count in a chunk header.
const maxChunkEntries = 1_000_000

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Binary Chunk Word List",
		Extensions:  []string{".bin"},
		MinSize:     4, // entry count header
	},
}

func (f FileFormat) String() string {
	if info, ok := GetFormatInfo(f); ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFileFormat picks the chunk format for valid .bin files and treats
// everything else as a plain word list, which is what LOAD always accepted.
func DetectFileFormat(filename string) (FileFormat, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".bin" {
		return FormatText, nil
	}
	if err := ValidateFileFormat(filename, FormatChunk); err != nil {
		return FormatUnknown, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	return FormatChunk, nil
}

// ValidateFileFormat checks size and header of filename against format.
func ValidateFileFormat(filename string, format FileFormat) error {
	info, exists := GetFormatInfo(format)
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), info.Description, info.MinSize)
	}
	if format != FormatChunk {
		return nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()
	count, err := readChunkHeader(file)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	log.Debugf("Binary file %s validated: %d entries", filename, count)
	return nil
}

// readChunkHeader reads the little-endian int32 entry count.
func readChunkHeader(r io.Reader) (int, error) {
	var raw int32
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return 0, fmt.Errorf("failed to read chunk header: %w", err)
	}
	count, err := safecast.Convert[uint32](raw)
	if err != nil {
		return 0, fmt.Errorf("invalid entry count %d: %w", raw, err)
	}
	if count > maxChunkEntries {
		return 0, fmt.Errorf("suspicious entry count %d (too large)", count)
	}
	return int(count), nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
