// Package report renders a roster's three views.
package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/okian/roster/internal/domain/types"
)

// Sentinel kinds for report errors.
var (
	ErrWrite         = errors.New("write report")
	ErrUnknownFormat = errors.New("unknown report format")
)

// Section headings of the text report.
const (
	HeadingParticipants = "All participants (in order of registration):"
	HeadingUnique       = "Unique participants:"
	HeadingScores       = "Final scores:"
)

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, r types.Report) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, r types.Report) error

// Render implements Renderer.
func (f RendererFunc) Render(w io.Writer, r types.Report) error { return f(w, r) }

// ForFormat returns the renderer for "text" or "json".
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return RendererFunc(Text), nil
	case "json":
		return RendererFunc(JSON), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Text writes the three labeled sections. Names in the first two sections
// are each followed by a single space; each of those lines is followed by a
// blank line. Score rows are "<name> : <score>".
func Text(w io.Writer, r types.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, HeadingParticipants)
	for _, name := range r.Participants {
		fmt.Fprint(bw, name, " ")
	}
	fmt.Fprint(bw, "\n\n")

	fmt.Fprintln(bw, HeadingUnique)
	for _, name := range r.Unique {
		fmt.Fprint(bw, name, " ")
	}
	fmt.Fprint(bw, "\n\n")

	fmt.Fprintln(bw, HeadingScores)
	for _, e := range r.Scores {
		fmt.Fprintf(bw, "%s : %d\n", e.Name, e.Score)
	}

	// bufio keeps the first write error and returns it from Flush.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// JSON writes the report as a single indented JSON object.
func JSON(w io.Writer, r types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Normalize()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
