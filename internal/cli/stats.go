package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/phanxgames/display"
)

// writeStats renders the frame statistics as a table.
func writeStats(w io.Writer, backend string, s display.Stats, elapsed time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Backend", backend},
		{"Frames", fmt.Sprintf("%d", s.Frames)},
		{"Overruns", fmt.Sprintf("%d", s.Overruns)},
		{"Sprites", fmt.Sprintf("%d", s.Sprites)},
		{"Measured FPS", fmt.Sprintf("%.1f", s.FPS)},
		{"Last repaint", s.RepaintTime.String()},
		{"Last swap", s.SwapTime.String()},
		{"Last frame", s.FrameTime.String()},
	})
	table.SetFooter([]string{"Elapsed", elapsed.Round(time.Millisecond).String()})
	table.Render()
	return nil
}
