package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/edward-official/week07-jungle/heap"
	"github.com/edward-official/week07-jungle/heap/alloc"
	"github.com/edward-official/week07-jungle/internal/trace"
)

var (
	runCapacity int
	runPolicy   string
	runChunk    int
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVar(&runCapacity, "capacity", 0, "Heap region capacity in bytes (0 = default)")
	cmd.Flags().StringVar(&runPolicy, "policy", "best-fit", "Search policy: best-fit or first-fit")
	cmd.Flags().IntVar(&runChunk, "chunk", 0, "Heap extension granularity in bytes (0 = default)")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trace>...",
		Short: "Replay allocation traces",
		Long: `The run command replays one or more allocation trace files against a
fresh allocator each, verifying payload integrity with per-block digests and
reporting peak-live utilization (peak payload bytes / final heap size).

Example:
  heapctl run traces/binary.rep
  heapctl run --policy first-fit --json traces/*.rep`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraces(args)
		},
	}
}

type runReport struct {
	Trace       string  `json:"trace"`
	Policy      string  `json:"policy"`
	Ops         int     `json:"ops"`
	Verified    int     `json:"verified"`
	PeakLive    int64   `json:"peak_live_bytes"`
	HeapBytes   int     `json:"heap_bytes"`
	Utilization float64 `json:"utilization"`
}

func runTraces(paths []string) error {
	cfg, err := runConfig()
	if err != nil {
		return err
	}

	reports := make([]runReport, 0, len(paths))
	for _, path := range paths {
		tr, err := trace.ParseFile(path)
		if err != nil {
			return err
		}
		slog.Debug("parsed trace", "path", path, "ops", len(tr.Ops), "ids", tr.NumIDs)

		region, err := heap.New(runCapacity)
		if err != nil {
			return err
		}
		a, err := alloc.New(region, cfg)
		if err != nil {
			region.Close()
			return err
		}

		res, err := trace.NewRunner(region, a).Run(tr)
		closeErr := region.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}

		reports = append(reports, runReport{
			Trace:       path,
			Policy:      cfg.Policy.String(),
			Ops:         res.Ops,
			Verified:    res.Verified,
			PeakLive:    res.PeakLive,
			HeapBytes:   res.HeapBytes,
			Utilization: res.Utilization,
		})
	}

	if jsonOut {
		return printJSON(reports)
	}
	for _, r := range reports {
		printInfo("%s: %d ops, %d verified, peak live %d B, heap %d B, utilization %.1f%%\n",
			r.Trace, r.Ops, r.Verified, r.PeakLive, r.HeapBytes, r.Utilization*100)
	}
	return nil
}

func runConfig() (*alloc.Config, error) {
	cfg := alloc.DefaultConfig
	switch runPolicy {
	case "best-fit":
		cfg = alloc.ConfigBestFit
	case "first-fit":
		cfg = alloc.ConfigFirstFit
	default:
		return nil, fmt.Errorf("unknown policy %q (want best-fit or first-fit)", runPolicy)
	}
	if runChunk != 0 {
		cfg.ChunkSize = runChunk
	}
	return &cfg, nil
}
