package render

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/utkarsh5026/bootfactory/factory"
)

// ProgressSink draws a progress bar toward a known unit target instead of
// printing lines.
type ProgressSink struct {
	bar *progressbar.ProgressBar
}

// NewProgressSink returns a sink whose bar fills as the counter approaches target.
func NewProgressSink(w io.Writer, label string, target int64, colored bool) *ProgressSink {
	bar := progressbar.NewOptions64(target,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(colored),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressSink{bar: bar}
}

// Emit moves the bar to the sampled count and shows the elapsed seconds.
func (s *ProgressSink) Emit(sample factory.Sample) {
	s.bar.Describe(fmt.Sprintf("%0.2fs", sample.Seconds()))
	_ = s.bar.Set64(sample.Count)
}

// Finish completes the bar and moves the cursor past it.
func (s *ProgressSink) Finish() error {
	return s.bar.Finish()
}
