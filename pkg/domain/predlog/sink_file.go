package predlog

import (
	"context"
	"encoding/json"
	"io"
	"os"

	xe "github.com/inferlab/predictd/pkg/errors"
)

// FileSink appends records to a file, one JSON document per line.
type FileSink struct {
	w   io.WriteCloser
	enc *json.Encoder
}

var _ Sink = &FileSink{}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewFileSink opens path for appending. Path "-" means stdout, which
// Close leaves open.
func NewFileSink(path string) (*FileSink, error) {
	var w io.WriteCloser
	if path == "-" {
		w = nopWriteCloser{os.Stdout}
	} else {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(0o644))
		if err != nil {
			return nil, xe.Wrap(err)
		}
		w = f
	}

	return &FileSink{w: w, enc: json.NewEncoder(w)}, nil
}

func (s *FileSink) Write(ctx context.Context, r Record) error {
	if err := s.enc.Encode(r); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (s *FileSink) Close() error {
	return s.w.Close()
}
