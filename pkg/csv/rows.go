package csv

import (
	"github.com/ajitpratap0/csvtable/pkg/errors"
)

// rowSet is the outcome of row selection: the header row's field texts
// when one was consumed, and the accepted data rows.
type rowSet struct {
	header [][]byte // nil when no header row was consumed
	rows   [][][]byte
}

// selectRows classifies the tokenizer's row stream into header, data and
// skipped rows. boundary is the exclusive byte offset at which pulling
// stops: a row starting at or past it belongs to the next window. first
// marks the window that owns skiprows and the header row; follow-up
// windows treat every recovered row as data.
func selectRows(tok *tokenizer, opts *ParseOptions, vp *valueParser, boundary int, first bool) (*rowSet, error) {
	pull := func() (row, bool, error) {
		r, ok, err := tok.next()
		if err != nil || !ok {
			return row{}, false, err
		}
		if r.start >= boundary {
			return row{}, false, nil
		}
		return r, true, nil
	}

	rs := &rowSet{}

	if first {
		for i := 0; i < opts.Skiprows; i++ {
			if _, ok, err := pull(); err != nil {
				return nil, err
			} else if !ok {
				return rs, nil
			}
		}

		consumed, err := rs.resolveHeader(pull, opts, vp)
		if err != nil {
			return nil, err
		}
		if consumed != nil {
			rs.rows = append(rs.rows, consumed)
		}
	}

	for {
		if opts.Nrows >= 0 && len(rs.rows) >= opts.Nrows {
			break
		}
		r, ok, err := pull()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rs.rows = append(rs.rows, rowTexts(r, opts.QuoteChar))
	}

	if opts.Skipfooter > 0 {
		drop := opts.Skipfooter
		if drop > len(rs.rows) {
			drop = len(rs.rows)
		}
		rs.rows = rs.rows[:len(rs.rows)-drop]
	}
	if opts.Nrows >= 0 && len(rs.rows) > opts.Nrows {
		rs.rows = rs.rows[:opts.Nrows]
	}
	return rs, nil
}

// resolveHeader consumes the header row according to the header mode. It
// returns a non-nil row when a candidate was pulled but classified as
// data, so the caller can keep it.
func (rs *rowSet) resolveHeader(pull func() (row, bool, error), opts *ParseOptions, vp *valueParser) ([][]byte, error) {
	switch opts.Header.Mode {
	case HeaderNone:
		return nil, nil

	case HeaderRow:
		for i := 0; i < opts.Header.Row; i++ {
			if _, ok, err := pull(); err != nil {
				return nil, err
			} else if !ok {
				return nil, errors.Newf(errors.ErrorTypeSchema,
					"header row %d past end of input", opts.Header.Row)
			}
		}
		r, ok, err := pull()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeSchema,
				"header row %d past end of input", opts.Header.Row)
		}
		rs.header = rowTexts(r, opts.QuoteChar)
		return nil, nil

	default: // HeaderInfer
		if len(opts.Names) > 0 {
			return nil, nil
		}
		r, ok, err := pull()
		if err != nil || !ok {
			return nil, err
		}
		texts := rowTexts(r, opts.QuoteChar)
		for _, t := range texts {
			if vp.isTyped(string(t)) {
				// typed content in the first row marks it as data
				return texts, nil
			}
		}
		rs.header = texts
		return nil, nil
	}
}

func rowTexts(r row, quote byte) [][]byte {
	out := make([][]byte, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.text(quote)
	}
	return out
}
