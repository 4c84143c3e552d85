// Package render turns reporter samples and run statistics into terminal
// output.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/utkarsh5026/bootfactory/factory"
)

// LineSink prints one line per sample:
//
//	seconds: 3.00 boots: 2
type LineSink struct {
	w     io.Writer
	label string
	key   *color.Color
	count *color.Color
}

// NewLineSink returns a sink writing to w, naming the counter label.
// When colored is false no escape codes are written; when true, color still
// follows fatih/color's terminal detection.
func NewLineSink(w io.Writer, label string, colored bool) *LineSink {
	key := color.New(color.FgCyan)
	count := color.New(color.FgGreen, color.Bold)
	if !colored {
		key.DisableColor()
		count.DisableColor()
	}

	return &LineSink{
		w:     w,
		label: label,
		key:   key,
		count: count,
	}
}

// Emit writes the sample line. Write errors are ignored: the sample stream is
// best effort and the run carries on.
func (s *LineSink) Emit(sample factory.Sample) {
	_, _ = fmt.Fprintf(s.w, "%s %0.2f %s %s\n",
		s.key.Sprint("seconds:"),
		sample.Seconds(),
		s.key.Sprint(s.label+":"),
		s.count.Sprint(sample.Count),
	)
}
