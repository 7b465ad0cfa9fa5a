package controller

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// renderSummary writes a per-measurement outcome table for a sampled
// record matrix: how often each slot read 0, 1 or a leaked label.
func renderSummary(w io.Writer, records [][]uint8) error {
	shots := len(records)

	width := 0
	if shots > 0 {
		width = len(records[0])
	}

	zeros := make([]int, width)
	ones := make([]int, width)
	leaked := make([]int, width)

	for _, row := range records {
		for i, v := range row {
			switch v {
			case 0:
				zeros[i]++
			case 1:
				ones[i]++
			default:
				leaked[i]++
			}
		}
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Measurement", "Zeros", "Ones", "Leaked"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for i := 0; i < width; i++ {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", zeros[i]),
			fmt.Sprintf("%d", ones[i]),
			fmt.Sprintf("%d", leaked[i]),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Shots %d", shots),
		"", "", "",
	})

	table.Render()

	_, err := fmt.Fprintf(w, "\n%s", tableBuffer.String())

	return err
}
