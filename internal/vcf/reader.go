package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultMaxSkipped is the number of malformed data lines tolerated per read
// before the reader gives up.
const DefaultMaxSkipped = 1000

// Options configures reader behavior.
type Options struct {
	// MaxSkipped is the number of malformed records to count-and-skip before
	// aborting the read. Zero means DefaultMaxSkipped. Negative means abort
	// on the first malformed record.
	MaxSkipped int
}

// Reader streams variants from a VCF byte stream.
// Supports both plain and gzip-compressed input; compression is detected
// from the gzip magic bytes, not the file name.
//
// Header and meta lines (prefix "#") are skipped unconditionally. The
// eight-column positional layout (CHROM, POS, ID, REF, ALT, QUAL, FILTER,
// INFO) is fixed by contract and never inferred from a header line.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	skipped    int
	maxSkipped int
}

// NewReader creates a reader over an arbitrary byte stream.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	maxSkipped := opts.MaxSkipped
	if maxSkipped == 0 {
		maxSkipped = DefaultMaxSkipped
	}

	br := bufio.NewReader(r)

	// Sniff for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniff vcf stream: %w", err)
	}

	rd := &Reader{maxSkipped: maxSkipped}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		rd.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		rd.reader = bufio.NewReader(rd.gzipReader)
	} else {
		rd.reader = br
	}

	return rd, nil
}

// Open creates a reader for the given file path. "-" reads from stdin.
func Open(path string, opts Options) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin, opts)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	rd, err := NewReader(file, opts)
	if err != nil {
		file.Close()
		return nil, err
	}
	rd.file = file
	return rd, nil
}

// Next reads the next variant from the stream.
// Returns nil, nil when there are no more variants.
//
// Malformed data lines are counted and skipped; once the count exceeds the
// configured maximum, Next returns the offending *MalformedRecordError.
func (r *Reader) Next() (*Variant, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		atEOF := err == io.EOF

		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			r.lineNumber++
		}

		if line == "" || strings.HasPrefix(line, "#") {
			if atEOF {
				return nil, nil
			}
			continue
		}

		v, perr := r.parseLine(line)
		if perr != nil {
			r.skipped++
			if r.skipped > r.maxSkipped || r.maxSkipped < 0 {
				return nil, fmt.Errorf("too many malformed records (%d skipped): %w", r.skipped, perr)
			}
			if atEOF {
				return nil, nil
			}
			continue
		}
		return v, nil
	}
}

// parseLine parses a single VCF data line into a Variant.
func (r *Reader) parseLine(line string) (*Variant, *MalformedRecordError) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &MalformedRecordError{
			Line:    r.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 0 {
		return nil, &MalformedRecordError{
			Line:    r.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	if fields[3] == "" || fields[4] == "" {
		return nil, &MalformedRecordError{
			Line:    r.lineNumber,
			Message: "empty REF or ALT allele",
		}
	}

	v := &Variant{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    fields[4],
		Filter: fields[6],
		Info:   fields[7],
	}

	if fields[5] != "." {
		if qual, err := strconv.ParseFloat(fields[5], 64); err == nil {
			v.Qual = qual
			v.HasQual = true
		}
	}

	return v, nil
}

// Skipped returns the number of malformed data lines skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and any underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// MalformedRecordError reports a data line that failed positional-column
// parsing, with line context.
type MalformedRecordError struct {
	Line    int
	Message string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed vcf record at line %d: %s", e.Line, e.Message)
}
