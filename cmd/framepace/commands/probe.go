package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/junsooki/framepace/internal/source"
)

var probeCmd = &cobra.Command{
	Use:   "probe <video>",
	Short: "Print stream metadata without opening a window",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	src, err := source.Open(args[0])
	if err != nil {
		return err
	}
	defer src.Close()
	return writeStream(cmd, src.Stream())
}

func writeStream(cmd *cobra.Command, s source.Stream) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "path\t%s\n", s.Path)
	fmt.Fprintf(w, "size\t%dx%d\n", s.Width, s.Height)
	fmt.Fprintf(w, "duration\t%v\n", s.Duration)
	fmt.Fprintf(w, "frames\t%d\n", s.FrameCount)
	fmt.Fprintf(w, "interval\t%v\n", s.FrameInterval())
	return w.Flush()
}
