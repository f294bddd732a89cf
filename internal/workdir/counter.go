package workdir

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Counter is the durable acceptance counter: a plain integer file,
// read-modify-written once per acceptance by the single control
// thread. A missing file reads as zero.
type Counter struct {
	path string
}

// NewCounter returns the counter stored at path.
func NewCounter(path string) *Counter {
	return &Counter{path: path}
}

// Read returns the current value, zero when the file does not exist.
func (c *Counter) Read() (int, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse counter %s: %w", c.path, err)
	}
	return v, nil
}

// Increment bumps the counter by one and returns the new value. The
// write is atomic; values are never reused across restarts.
func (c *Counter) Increment() (int, error) {
	v, err := c.Read()
	if err != nil {
		return 0, err
	}
	next := v + 1
	if err := AtomicWriteFile(c.path, []byte(strconv.Itoa(next)+"\n")); err != nil {
		return 0, fmt.Errorf("write counter: %w", err)
	}
	return next, nil
}
