package goodreads

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when the input holds no header row.
var ErrNoHeader = errors.New("goodreads: input has no header row")

// utf8BOM prefixes files saved by some spreadsheet tools.
const utf8BOM = "\uFEFF"

// escapeField quotes v when it contains a separator, quote or line break,
// doubling embedded quotes. Anything else is written verbatim.
func escapeField(v string) string {
	if !strings.ContainsAny(v, ",\"\r\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// Writer emits rows under the fixed header.
type Writer struct {
	w      *bufio.Writer
	header bool
}

// NewWriter returns a Writer on w. The header is written before the first
// row or on Flush, whichever comes first.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (cw *Writer) writeLine(values []string) error {
	for i, v := range values {
		if i > 0 {
			if err := cw.w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := cw.w.WriteString(escapeField(v)); err != nil {
			return err
		}
	}
	return cw.w.WriteByte('\n')
}

func (cw *Writer) ensureHeader() error {
	if cw.header {
		return nil
	}
	cw.header = true
	return cw.writeLine(Columns[:])
}

// Write emits one row.
func (cw *Writer) Write(row Row) error {
	if err := cw.ensureHeader(); err != nil {
		return err
	}
	return cw.writeLine(row[:])
}

// Flush writes any buffered data, including the header of an empty table.
func (cw *Writer) Flush() error {
	if err := cw.ensureHeader(); err != nil {
		return err
	}
	return cw.w.Flush()
}

// errUnterminatedQuote reports a quoted field still open at end of input.
var errUnterminatedQuote = errors.New("unterminated quoted field")

// recordScanner splits input into records. A quoted field keeps every
// byte up to its closing quote, CR and LF included, with doubled quotes
// collapsed. A quote anywhere else is literal text. Records end at LF or
// CRLF outside quotes.
type recordScanner struct {
	r *bufio.Reader
}

func newRecordScanner(r io.Reader) (*recordScanner, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && string(lead) == utf8BOM {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}
	return &recordScanner{r: br}, nil
}

// next returns the fields of the next record, or io.EOF once the input
// is exhausted.
func (sc *recordScanner) next() ([]string, error) {
	var (
		fields     []string
		field      strings.Builder
		fieldStart = true
		quoted     bool
		consumed   bool
	)
	for {
		b, err := sc.r.ReadByte()
		if errors.Is(err, io.EOF) {
			if quoted {
				return nil, errUnterminatedQuote
			}
			if !consumed {
				return nil, io.EOF
			}
			return append(fields, field.String()), nil
		}
		if err != nil {
			return nil, err
		}
		consumed = true

		if quoted {
			if b != '"' {
				field.WriteByte(b)
				continue
			}
			if next, err := sc.r.Peek(1); err == nil && next[0] == '"' {
				_, _ = sc.r.ReadByte()
				field.WriteByte('"')
				continue
			}
			quoted = false
			continue
		}

		switch b {
		case '"':
			if fieldStart {
				quoted = true
				fieldStart = false
				continue
			}
			field.WriteByte(b)
		case ',':
			fields = append(fields, field.String())
			field.Reset()
			fieldStart = true
		case '\n':
			return append(fields, field.String()), nil
		case '\r':
			if next, err := sc.r.Peek(1); err == nil && next[0] == '\n' {
				_, _ = sc.r.ReadByte()
				return append(fields, field.String()), nil
			}
			field.WriteByte(b)
			fieldStart = false
		default:
			field.WriteByte(b)
			fieldStart = false
		}
	}
}

// Reader yields Records keyed by the first row of the input.
type Reader struct {
	sc     *recordScanner
	header []string
	row    int
}

// NewReader reads the header row from r. It returns ErrNoHeader for
// input that is empty or blank.
func NewReader(r io.Reader) (*Reader, error) {
	sc, err := newRecordScanner(r)
	if err != nil {
		return nil, fmt.Errorf("goodreads: read header: %w", err)
	}

	for {
		header, err := sc.next()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		if err != nil {
			return nil, fmt.Errorf("goodreads: read header: %w", err)
		}
		if blank(header) {
			continue
		}
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
		return &Reader{sc: sc, header: header}, nil
	}
}

// Header returns the column names in input order.
func (rd *Reader) Header() []string {
	return rd.header
}

// HasColumn reports whether the header names column.
func (rd *Reader) HasColumn(column string) bool {
	for _, h := range rd.header {
		if h == column {
			return true
		}
	}
	return false
}

// Read returns the next record and its 1-based data row number.
// Blank lines are skipped. A quoted field left open at the end of the
// input is reported with its row number. io.EOF marks the end.
func (rd *Reader) Read() (Record, int, error) {
	for {
		fields, err := rd.sc.next()
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		if err == nil && blank(fields) {
			continue
		}
		rd.row++
		if err != nil {
			return nil, rd.row, err
		}

		rec := make(Record, len(rd.header))
		for i, name := range rd.header {
			if i < len(fields) {
				rec[name] = fields[i]
			} else {
				rec[name] = ""
			}
		}
		return rec, rd.row, nil
	}
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
