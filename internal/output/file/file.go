package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/healthrisk/internal/output"
)

const defaultBufSize = 64 * 1024

// Option configures a file Output.
type Option func(*Output)

// WithBufSize sets the write buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithTruncate replaces an existing file instead of appending to it.
func WithTruncate() Option {
	return func(o *Output) { o.flag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC }
}

// WithFlushEvery flushes the buffer after every n records so a long batch
// can be followed while it runs. 0 (default) flushes only when the buffer
// fills or on Close.
func WithFlushEvery(n int) Option {
	return func(o *Output) { o.flushEvery = n }
}

// Output writes rendered prediction records to a file.
type Output struct {
	mu         sync.Mutex
	path       string
	f          *os.File
	buf        *bufio.Writer
	format     output.Format
	bufSize    int
	flag       int
	flushEvery int
	records    int
}

// New opens path for records rendered in format. Existing content is kept
// unless WithTruncate is given.
func New(path string, format output.Format, opts ...Option) (*Output, error) {
	o := &Output{
		path:    path,
		format:  format,
		bufSize: defaultBufSize,
		flag:    os.O_CREATE | os.O_WRONLY | os.O_APPEND,
	}
	for _, opt := range opts {
		opt(o)
	}
	f, err := os.OpenFile(path, o.flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file output: open %s: %w", path, err)
	}
	o.f = f
	o.buf = bufio.NewWriterSize(f, o.bufSize)
	return o, nil
}

// Write renders rec and buffers it.
func (o *Output) Write(_ context.Context, rec output.Record) error {
	data, err := output.Render(rec, o.format)
	if err != nil {
		return fmt.Errorf("file output: line %d: %w", rec.Line, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.buf.Write(data); err != nil {
		return fmt.Errorf("file output: write %s: %w", o.path, err)
	}
	o.records++
	if o.flushEvery > 0 && o.records%o.flushEvery == 0 {
		if err := o.buf.Flush(); err != nil {
			return fmt.Errorf("file output: flush %s: %w", o.path, err)
		}
	}
	return nil
}

// Records reports how many records have been written.
func (o *Output) Records() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.records
}

// Close flushes pending records and closes the file. Both failures are
// reported.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var flushErr error
	if err := o.buf.Flush(); err != nil {
		flushErr = fmt.Errorf("file output: flush %s: %w", o.path, err)
	}
	return errors.Join(flushErr, o.f.Close())
}
