package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/wippyai/snpe-runtime/runtime"
)

type deviceRow struct {
	Device    runtime.Device
	Available bool
}

type recordRow struct {
	Name string
	Size uint64
}

func printVersion(w io.Writer, v runtime.Version) {
	fmt.Fprintf(w, "SNPE %s", v)
	if v.Build != "" {
		fmt.Fprintf(w, " (build %s)", v.Build)
	}
	fmt.Fprintln(w)
}

func printDevices(w io.Writer, rows []deviceRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "DEVICE\tRUNTIME\tAVAILABLE")
	for _, r := range rows {
		avail := "no"
		if r.Available {
			avail = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Device.Name, r.Device.RuntimeID, avail)
	}

	return tw.Flush()
}

func printCatalog(w io.Writer, rows []recordRow) error {
	if len(rows) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "RECORD\tSIZE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.Name, formatSize(r.Size))
	}

	return tw.Flush()
}

// formatSize renders n in binary units.
func formatSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
