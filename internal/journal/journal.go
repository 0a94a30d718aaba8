// Package journal persists the match as an append-only, line-delimited
// log of accepted commands. The entire gameplay history is replayable
// from this one file.
package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/buzzwire/trivia-backend/internal/game"
)

// Journal owns the underlying file handle. While the process lives, only
// the single-writer actor may append.
type Journal struct {
	file *os.File
	enc  *json.Encoder
}

// Open replays the journal at path into a fresh game and positions the
// file for appending, creating it when missing. Replay is fail-fast: a
// record that cannot be decoded or applied aborts startup, except when it
// is the final record of the file — a crash mid-append is expected to
// tear exactly one line — in which case the tail is truncated away with
// a warning. After replay every contestant is marked disconnected.
func Open(path string, logger *zap.Logger) (*Journal, game.Game, error) {
	g := game.New()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, g, fmt.Errorf("journal: read %s: %w", path, err)
	}

	lines := bytes.Split(data, []byte("\n"))
	last := -1
	for i, line := range lines {
		if len(bytes.TrimSpace(line)) > 0 {
			last = i
		}
	}

	var offset int64
	truncateAt := int64(-1)
	for i, line := range lines {
		start := offset
		offset += int64(len(line)) + 1
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		record := i + 1
		var cmd game.Command
		if err := json.Unmarshal(line, &cmd); err != nil {
			if i == last {
				logger.Warn("truncating torn journal tail",
					zap.Int("record", record), zap.Error(err))
				truncateAt = start
				break
			}
			return nil, g, fmt.Errorf("journal: record %d: decode: %w", record, err)
		}

		next, err := g.Apply(cmd)
		if err != nil {
			if i == last {
				logger.Warn("truncating inapplicable journal tail",
					zap.Int("record", record), zap.Error(err))
				truncateAt = start
				break
			}
			return nil, g, fmt.Errorf("journal: record %d: apply %q: %w", record, cmd.Type, err)
		}
		g = next
	}

	if truncateAt >= 0 {
		if err := os.Truncate(path, truncateAt); err != nil {
			return nil, g, fmt.Errorf("journal: truncate %s: %w", path, err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, g, fmt.Errorf("journal: open %s: %w", path, err)
	}

	return &Journal{file: file, enc: json.NewEncoder(file)}, g.ResetConnections(), nil
}

// Append durably records one already-accepted command. Callers must not
// publish the command's effect before Append returns.
func (j *Journal) Append(cmd game.Command) error {
	if err := j.enc.Encode(cmd); err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("journal: sync: %w", err)
	}
	return nil
}

func (j *Journal) Close() error {
	return j.file.Close()
}
