package csv

import (
	"bytes"
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/csvtable/pkg/columnar"
	"github.com/ajitpratap0/csvtable/pkg/errors"
	"github.com/ajitpratap0/csvtable/pkg/logger"
	"github.com/ajitpratap0/csvtable/pkg/source"
)

// Reader parses CSV inputs into typed columnar tables with a fixed option
// set. Options are validated once at construction; a Reader is safe for
// concurrent use because every read owns its own parse state.
type Reader struct {
	opts ParseOptions
	log  *zap.Logger
}

// NewReader validates the options eagerly and returns a Reader.
func NewReader(opts ParseOptions) (*Reader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Reader{opts: opts, log: logger.Get()}, nil
}

// WithLogger replaces the reader's logger. Tests use this to route parse
// logging through the test output.
func (r *Reader) WithLogger(l *zap.Logger) *Reader {
	r.log = l
	return r
}

// ReadPath parses the file at path. Gzip and bzip2 content is decompressed
// transparently before parsing.
func (r *Reader) ReadPath(path string) (*columnar.Table, error) {
	data, err := source.FromPath(path)
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(data)
}

// Read drains and parses a pre-decoded stream.
func (r *Reader) Read(rd io.Reader) (*columnar.Table, error) {
	data, err := source.FromReader(rd)
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(data)
}

// ReadBytes parses an in-memory buffer.
func (r *Reader) ReadBytes(data []byte) (*columnar.Table, error) {
	eff := r.resolveDialect(data)
	return parseWindow(data, &eff, r.log)
}

// resolveDialect fills in an autodetected delimiter. Sniffing runs over the
// whole buffer so every byte-range window of one input agrees on the
// dialect.
func (r *Reader) resolveDialect(data []byte) ParseOptions {
	eff := r.opts
	if eff.Delimiter == 0 && !eff.DelimWhitespace {
		d, ws := sniffDelimiter(data, eff.CommentChar)
		eff.Delimiter = d
		eff.DelimWhitespace = ws
		r.log.Debug("autodetected dialect",
			zap.String("delimiter", string(rune(d))),
			zap.Bool("whitespace", ws))
	}
	return eff
}

// Read parses an in-memory buffer with the given options. It is the
// package-level convenience form of Reader.ReadBytes.
func Read(data []byte, opts ParseOptions) (*columnar.Table, error) {
	r, err := NewReader(opts)
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(data)
}

// SplitRanges partitions an input of the given size into consecutive
// windows of at most segment bytes. The last window may be shorter.
func SplitRanges(size, segment int64) []ByteRange {
	if size <= 0 || segment <= 0 {
		return nil
	}
	ranges := make([]ByteRange, 0, (size+segment-1)/segment)
	for off := int64(0); off < size; off += segment {
		length := segment
		if off+length > size {
			length = size - off
		}
		ranges = append(ranges, ByteRange{Offset: off, Length: length})
	}
	return ranges
}

// ReadRanges parses each window concurrently and concatenates the results
// in ascending offset order, reproducing a single full read. Ranges must be
// non-overlapping and given in ascending offset order; for windows past the
// first, supply explicit names and dtypes so the per-window schemas agree.
func ReadRanges(ctx context.Context, data []byte, opts ParseOptions, ranges []ByteRange) (*columnar.Table, error) {
	if len(ranges) == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "no byte ranges given")
	}

	r, err := NewReader(opts)
	if err != nil {
		return nil, err
	}
	eff := r.resolveDialect(data)

	tables := make([]*columnar.Table, len(ranges))
	errs := make([]error, len(ranges))
	var wg sync.WaitGroup
	for i := range ranges {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = errors.Wrap(err, errors.ErrorTypeInternal, "read cancelled")
				return
			}
			o := eff
			rng := ranges[i]
			o.Range = &rng
			tables[i], errs[i] = parseWindow(data, &o, r.log)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	r.log.Debug("concatenating range results", zap.Int("ranges", len(ranges)))
	return columnar.Concat(tables...)
}

// parseWindow runs the full pipeline over one window: boundary recovery,
// tokenization, row selection, schema resolution, value conversion.
func parseWindow(data []byte, opts *ParseOptions, log *zap.Logger) (*columnar.Table, error) {
	window, boundary, first := recoverWindow(data, opts.Range)

	tok := newTokenizer(window, opts)
	vp := newValueParser(opts)

	rs, err := selectRows(tok, opts, vp, boundary, first)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveSchema(rs, opts, vp)
	if err != nil {
		return nil, err
	}
	log.Debug("schema resolved",
		zap.Int("columns", resolved.schema.Len()),
		zap.Int("rows", len(rs.rows)))

	tbl := columnar.NewTable(resolved.schema)
	tbl.IndexCol = resolved.indexCol

	convs := make([]convFn, len(tbl.Columns))
	for i, col := range tbl.Columns {
		convs[i] = vp.converter(col)
	}

	for ri, row := range rs.rows {
		for j, src := range resolved.source {
			var b []byte
			present := src < len(row)
			if present {
				b = row[src]
			}
			if err := convs[j](b, present); err != nil {
				if e, ok := err.(*errors.Error); ok {
					return nil, e.WithDetail("row", ri).
						WithDetail("column", resolved.schema.Fields[j].Name)
				}
				return nil, err
			}
		}
	}
	return tbl, nil
}

// recoverWindow maps a byte range onto the underlying buffer using
// two-phase row-boundary recovery: the window starts at the first row start
// at or after the offset (a row belongs to the window containing its first
// byte), and row pulling stops at the first row start at or past
// offset+length. Oversized ranges clamp to the buffer. The returned slice
// extends past the boundary so a row starting inside the window can finish.
func recoverWindow(data []byte, rng *ByteRange) (window []byte, boundary int, first bool) {
	if rng == nil {
		return data, len(data), true
	}

	size := int64(len(data))
	offset := rng.Offset
	if offset > size {
		offset = size
	}
	end := rng.Offset + rng.Length
	if end > size {
		end = size
	}

	start := offset
	if offset > 0 && data[offset-1] != '\n' {
		i := bytes.IndexByte(data[offset:], '\n')
		if i < 0 {
			return nil, 0, false
		}
		start = offset + int64(i) + 1
	}

	boundary = int(end - start)
	if boundary < 0 {
		boundary = 0
	}
	return data[start:], boundary, rng.Offset == 0
}
