package csv

import (
	"bytes"

	"github.com/ajitpratap0/csvtable/pkg/errors"
)

// field is one raw field span. The bytes are a window into the input
// buffer; trimming, quote stripping and escape collapsing happen in text.
type field struct {
	raw      []byte
	sawQuote bool
	escaped  bool
}

// text returns the field content: surrounding spaces/tabs trimmed, outer
// quotes stripped and doubled quotes collapsed. Content inside quotes is
// never trimmed.
func (f field) text(quote byte) []byte {
	b := trimWS(f.raw)
	if f.sawQuote && len(b) >= 2 && b[0] == quote && b[len(b)-1] == quote {
		b = b[1 : len(b)-1]
	}
	if !f.escaped {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == quote && i+1 < len(b) && b[i+1] == quote {
			i++
		}
	}
	return out
}

func trimWS(b []byte) []byte {
	start := 0
	for start < len(b) && (b[start] == ' ' || b[start] == '\t') {
		start++
	}
	end := len(b)
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return b[start:end]
}

// row is an ordered sequence of raw field spans. start is the byte offset
// of the row's first byte within the tokenizer's input; byte-range reads
// use it to attribute rows to windows.
type row struct {
	fields []field
	start  int
	blank  bool
}

// tokenizer splits a byte slice into rows and fields. It is a pull-based,
// restartable scanner: delimiters and row terminators are only significant
// outside quotes, and a quote character toggles the in-quote state wherever
// it appears. This permissive model accepts unbalanced-looking quoted
// tokens that stricter dialects reject.
type tokenizer struct {
	data       []byte
	pos        int
	delim      byte
	whitespace bool
	quote      byte
	quoting    bool
	comment    byte
	skipBlank  bool
}

func newTokenizer(data []byte, opts *ParseOptions) *tokenizer {
	return &tokenizer{
		data:       data,
		delim:      opts.Delimiter,
		whitespace: opts.DelimWhitespace,
		quote:      opts.QuoteChar,
		quoting:    opts.Quoting,
		comment:    opts.CommentChar,
		skipBlank:  opts.SkipBlankLines,
	}
}

// reset restarts the tokenizer at the beginning of its input.
func (t *tokenizer) reset() { t.pos = 0 }

// next produces the next row. Comment lines are dropped entirely; blank
// lines are dropped when skipBlank is set, otherwise surfaced as a
// single-empty-field row. ok is false at end of input.
func (t *tokenizer) next() (row, bool, error) {
	data := t.data
	n := len(data)

	for t.pos < n {
		lineStart := t.pos

		if t.comment != 0 {
			i := lineStart
			for i < n && (data[i] == ' ' || data[i] == '\t') {
				i++
			}
			if i < n && data[i] == t.comment {
				for t.pos < n && data[t.pos] != '\n' {
					t.pos++
				}
				if t.pos < n {
					t.pos++
				}
				continue
			}
		}

		if data[t.pos] == '\n' || (data[t.pos] == '\r' && t.pos+1 < n && data[t.pos+1] == '\n') {
			if data[t.pos] == '\r' {
				t.pos += 2
			} else {
				t.pos++
			}
			if t.skipBlank {
				continue
			}
			return row{start: lineStart, blank: true, fields: []field{{}}}, true, nil
		}

		r, err := t.scanRow(lineStart)
		if err != nil {
			return row{}, false, err
		}
		if len(r.fields) == 0 {
			// whitespace-delimited line containing only separators
			if t.skipBlank {
				continue
			}
			r.blank = true
			r.fields = []field{{}}
		}
		return r, true, nil
	}
	return row{}, false, nil
}

// scanRow consumes one row starting at t.pos, including its terminator.
func (t *tokenizer) scanRow(start int) (row, error) {
	r := row{start: start}
	data := t.data
	n := len(data)
	pos := t.pos
	fieldStart := pos
	inQuote := false
	sawQuote := false
	escaped := false

	flush := func(end int) {
		r.fields = append(r.fields, field{
			raw:      data[fieldStart:end],
			sawQuote: sawQuote,
			escaped:  escaped,
		})
		sawQuote, escaped = false, false
	}

	if t.whitespace {
		for pos < n && (data[pos] == ' ' || data[pos] == '\t') {
			pos++
		}
		fieldStart = pos
	}

	for pos < n {
		c := data[pos]

		if inQuote {
			if c == t.quote {
				if pos+1 < n && data[pos+1] == t.quote {
					escaped = true
					pos += 2
					continue
				}
				inQuote = false
			}
			pos++
			continue
		}

		switch {
		case t.quoting && c == t.quote:
			inQuote = true
			sawQuote = true
			pos++

		case c == '\n' || (c == '\r' && pos+1 < n && data[pos+1] == '\n'):
			if !t.whitespace || pos > fieldStart {
				flush(pos)
			}
			if c == '\r' {
				pos += 2
			} else {
				pos++
			}
			t.pos = pos
			return r, nil

		case t.whitespace && (c == ' ' || c == '\t'):
			flush(pos)
			for pos < n && (data[pos] == ' ' || data[pos] == '\t') {
				pos++
			}
			fieldStart = pos

		case !t.whitespace && c == t.delim:
			flush(pos)
			pos++
			fieldStart = pos

		default:
			pos++
		}
	}

	t.pos = pos
	if inQuote {
		return row{}, errors.New(errors.ErrorTypeQuoting,
			"unterminated quoted field at end of input").
			WithDetail("offset", start)
	}
	if !t.whitespace || pos > fieldStart {
		flush(pos)
	}
	return r, nil
}

// delimiter candidates tried during autodetection, in preference order.
var sniffCandidates = []byte{',', ';', '\t', '|'}

const sniffSampleLines = 10

// sniffDelimiter infers the dialect from the first non-comment, non-blank
// lines: the first candidate producing a consistent multi-field count
// across the sample wins, with whitespace-run splitting as the final
// candidate. Falls back to comma.
func sniffDelimiter(data []byte, comment byte) (delim byte, whitespace bool) {
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		trimmed := trimWS(line)
		if len(trimmed) == 0 {
			continue
		}
		if comment != 0 && trimmed[0] == comment {
			continue
		}
		lines = append(lines, line)
		if len(lines) == sniffSampleLines {
			break
		}
	}
	if len(lines) == 0 {
		return ',', false
	}

	for _, cand := range sniffCandidates {
		count := bytes.Count(lines[0], []byte{cand}) + 1
		if count < 2 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if bytes.Count(line, []byte{cand})+1 != count {
				consistent = false
				break
			}
		}
		if consistent {
			return cand, false
		}
	}

	count := len(bytes.Fields(lines[0]))
	if count >= 2 {
		consistent := true
		for _, line := range lines[1:] {
			if len(bytes.Fields(line)) != count {
				consistent = false
				break
			}
		}
		if consistent {
			return 0, true
		}
	}

	return ',', false
}
