// Package dump writes the final standings of a game to a plain text file.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
)

const (
	DefaultDir = "config/scoreit/dumps"

	width   = 75
	nameMax = 39
)

var (
	log = logrus.StandardLogger().WithFields(logrus.Fields{
		"component": "dump",
	})

	divider = strings.Repeat("*", width)
)

type Writer struct {
	Dir string
	Now func() time.Time
}

func New(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{Dir: dir, Now: time.Now}
}

// Filename is the dump file name for the given day.
func Filename(t time.Time) string {
	return fmt.Sprintf("scoreit-scores-%s.txt", t.Format("20060102"))
}

// Write renders board into the dump directory and returns the file path.
// A second game ending on the same day replaces the earlier dump.
func (w *Writer) Write(board scoreit.Board) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create dump directory: %w", err)
	}

	path := filepath.Join(w.Dir, Filename(w.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := Render(f, board); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	log.WithFields(logrus.Fields{
		"path":    path,
		"entries": len(board),
	}).Info("wrote score dump")

	return path, nil
}

// Render writes the bordered score table.
func Render(w io.Writer, board scoreit.Board) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, divider)
	fmt.Fprintf(bw, "**  %-67s  **\n", "SCORES")
	fmt.Fprintln(bw, divider)
	if len(board) == 0 {
		fmt.Fprintf(bw, "**  %-67s  **\n", "no players")
	}
	for _, r := range board {
		fmt.Fprintf(bw, "**  %-3s) %-39s %15d Points  **\n", fmt.Sprint(r.Rank), truncate(r.Name, nameMax), r.Points)
	}
	fmt.Fprintln(bw, divider)

	return bw.Flush()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
