// Package source resolves parser inputs into fully-decoded byte buffers.
// It handles path validation, stream draining and transparent gzip/bzip2
// decompression so the parsing engine only ever sees plain CSV bytes.
package source

import (
	"bytes"
	"compress/bzip2"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/ajitpratap0/csvtable/pkg/errors"
	"github.com/ajitpratap0/csvtable/pkg/pool"
)

const drainChunkSize = 64 * 1024

// FromPath reads the file at path, decompressing if the content is gzip or
// bzip2 compressed. A missing path or a directory yields a not_found error
// before any parsing begins.
func FromPath(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeNotFound,
			"input file not found: "+path)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New(errors.ErrorTypeNotFound,
			"input is not a regular file: "+path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeNotFound,
			"failed to open input: "+path)
	}
	defer f.Close()

	data, err := FromReader(f)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

// FromBytes returns the decoded form of an in-memory buffer, decompressing
// when a known compression magic number is present.
func FromBytes(data []byte) ([]byte, error) {
	switch {
	case isGzip(data):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "invalid gzip input")
		}
		defer zr.Close()
		return FromReader(zr)
	case isBzip2(data):
		return FromReader(bzip2.NewReader(bytes.NewReader(data)))
	default:
		return data, nil
	}
}

// FromReader drains a pre-decoded stream into memory using pooled chunks.
func FromReader(r io.Reader) ([]byte, error) {
	chunk := pool.GlobalBufferPool.Get(drainChunkSize)
	defer pool.GlobalBufferPool.Put(chunk)

	var out []byte
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			out = append(out, chunk[:n]...)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to read input stream")
		}
	}
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func isBzip2(data []byte) bool {
	return len(data) >= 3 && data[0] == 'B' && data[1] == 'Z' && data[2] == 'h'
}
