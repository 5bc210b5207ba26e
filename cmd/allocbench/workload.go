package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shivam-909/pagealloc/alloc"
	"github.com/shivam-909/pagealloc/internal/orderbook"
	manualbook "github.com/shivam-909/pagealloc/internal/orderbook/manual"
	standardbook "github.com/shivam-909/pagealloc/internal/orderbook/standard"
)

var (
	workloadOps     int
	workloadWorkers int
	workloadPrint   bool
)

func init() {
	manual := newWorkloadCmd("manual", "Run the order book with nodes in manually allocated memory",
		manualbook.New, true)
	standard := newWorkloadCmd("standard", "Run the order book with nodes on the Go heap",
		standardbook.New, false)
	for _, cmd := range []*cobra.Command{manual, standard} {
		cmd.Flags().IntVarP(&workloadOps, "ops", "n", 2500000, "Total order book operations")
		cmd.Flags().IntVarP(&workloadWorkers, "workers", "w", 1, "Concurrent workers, each with its own book")
		cmd.Flags().BoolVar(&workloadPrint, "print", false, "Print the first worker's book before releasing it")
		rootCmd.AddCommand(cmd)
	}
}

func newWorkloadCmd(name, short string, newBook func() *orderbook.Tree, manual bool) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workloadOps < 1 || workloadWorkers < 1 {
				return errors.New("--ops and --workers must be positive")
			}
			res, err := runWorkload(cmd, newBook)
			if err != nil {
				return err
			}
			label := "Standard Allocator"
			if manual {
				label = "Manual Allocator"
			}
			report(cmd.OutOrStdout(), label, res)
			if manual {
				reportStats(cmd.OutOrStdout(), alloc.Default().Stats())
			}
			return nil
		},
	}
}

type workloadResult struct {
	ops     int
	workers int
	elapsed time.Duration
}

func runWorkload(cmd *cobra.Command, newBook func() *orderbook.Tree) (workloadResult, error) {
	perWorker := workloadOps / workloadWorkers
	g, ctx := errgroup.WithContext(cmd.Context())

	start := time.Now()
	for w := range workloadWorkers {
		g.Go(func() error {
			book := newBook()
			defer book.Close()
			gen := orderbook.NewGenerator(uint64(w) + 1)

			for i := 0; i < perWorker; i++ {
				if i%4096 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				if err := gen.Act(book); err != nil {
					if errors.Is(err, orderbook.ErrNoMemory) {
						return fmt.Errorf("worker %d: %w", w, errors.Join(errOutOfMemory, err))
					}
					return fmt.Errorf("worker %d: %w", w, err)
				}
			}
			if workloadPrint && w == 0 {
				book.Fprint(cmd.OutOrStdout())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return workloadResult{}, err
	}
	return workloadResult{
		ops:     perWorker * workloadWorkers,
		workers: workloadWorkers,
		elapsed: time.Since(start),
	}, nil
}

func report(w io.Writer, label string, res workloadResult) {
	average := res.elapsed / time.Duration(res.ops)
	printer.Fprintf(w, "%s || %d OPS || %d WORKERS || TOTAL: %v || AVERAGE: %v\n",
		label, res.ops, res.workers, res.elapsed, average)
}

func reportStats(w io.Writer, st alloc.Stats) {
	printer.Fprintf(w, "pool units in use: %d/%d\n", st.PoolUnits, alloc.TotalUnits)
	printer.Fprintf(w, "page cache: %d regions, %d bytes cached, %d bytes in use\n",
		len(st.Cached), st.CachedBytes, st.InUseBytes)
	printer.Fprintf(w, "kernel calls: %d map, %d remap, %d unmap, %d failed\n",
		st.Maps, st.Remaps, st.Unmaps, st.KernelFailures)
}
