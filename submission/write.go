// Package submission reads and writes the cache assignment output format
// and scores an assignment against its topology.
//
// The format is a header line with the number of cache descriptions,
// followed by one line per cache: the cache id then the ids of the videos
// it holds, all space-separated.
package submission

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/google/renameio/v2"

	"github.com/inference-sim/cache-sim/allocator"
)

// Write emits every cache of a, including empty ones, in ascending id order.
func Write(w io.Writer, a *allocator.Assignment) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", a.NumCaches()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	line := make([]byte, 0, 256)
	for c := 0; c < a.NumCaches(); c++ {
		line = strconv.AppendInt(line[:0], int64(c), 10)
		for _, v := range a.Videos(c) {
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(v), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("writing cache %d: %w", c, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

// WriteFile writes a to path through a pending file that atomically
// replaces path on success, so path never holds partial output.
func WriteFile(path string, a *allocator.Assignment) error {
	f, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	defer func() { _ = f.Cleanup() }()

	if err := Write(f, a); err != nil {
		return err
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
