// Package report renders the collector's aggregate statistics as both a
// human-readable table (text/tabwriter, matching the aligned-column style
// of the teacher's explorer/accounts lessons) and the JSON schema the CLI
// writes to --output.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dando385/chainload/internal/collector"
)

// BlockJSON is one block row in the output JSON schema.
type BlockJSON struct {
	BlockNum       uint64  `json:"blockNum"`
	CreatedAt      uint64  `json:"createdAt"`
	NumTxs         int     `json:"numTxs"`
	GasUsed        string  `json:"gasUsed"`
	GasLimit       string  `json:"gasLimit"`
	GasUtilization float64 `json:"gasUtilization"`
}

// Document is the top-level output JSON schema from spec.md §6.
type Document struct {
	AverageTPS float64     `json:"averageTPS"`
	MinTPS     float64     `json:"minTPS"`
	MaxTPS     float64     `json:"maxTPS"`
	Blocks     []BlockJSON `json:"blocks"`
}

// FromReport converts a collector.Report into the wire schema.
func FromReport(r *collector.Report) Document {
	doc := Document{AverageTPS: r.AverageTPS, MinTPS: r.MinTPS, MaxTPS: r.MaxTPS}
	for _, b := range r.Blocks {
		doc.Blocks = append(doc.Blocks, BlockJSON{
			BlockNum:       b.Number,
			CreatedAt:      b.CreatedAt,
			NumTxs:         b.NumTxs,
			GasUsed:        fmt.Sprintf("0x%x", b.GasUsed),
			GasLimit:       fmt.Sprintf("0x%x", b.GasLimit),
			GasUtilization: b.GasUtilization,
		})
	}
	return doc
}

// PrintTables writes the per-block utilization table and the summary row
// to os.Stdout, listing blocks in the order of r.Blocks (Aggregate sorts
// them by block number ascending).
func PrintTables(r *collector.Report) {
	if len(r.Blocks) == 0 {
		fmt.Println("no stat data")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BLOCK\tTXS\tGAS USED\tGAS LIMIT\tUTILIZATION%")
	for _, b := range r.Blocks {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.2f\n", b.Number, b.NumTxs, b.GasUsed, b.GasLimit, b.GasUtilization)
	}
	tw.Flush()

	tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nAVG TPS\tMIN TPS\tMAX TPS\tBLOCKS\tAVG UTILIZATION%")
	fmt.Fprintf(tw, "%.2f\t%.2f\t%.2f\t%d\t%.2f\n", r.AverageTPS, r.MinTPS, r.MaxTPS, len(r.Blocks), r.AvgUtilization())
	tw.Flush()

	if len(r.Errors) > 0 {
		fmt.Printf("\n%d transaction error(s) recorded:\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

// WriteJSON persists doc to path. Per spec.md §7, partial output is only
// ever written if at least one block was observed — callers should check
// len(doc.Blocks) before calling, not this function.
func WriteJSON(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("report: encode %s: %w", path, err)
	}
	return nil
}
