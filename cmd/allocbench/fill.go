package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivam-909/pagealloc/alloc"
)

var fillSize int

func init() {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a manually allocated slice, grow it with realloc, and verify it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fillSize < 1 {
				return errors.New("--size must be positive")
			}
			if err := fill(fillSize); err != nil {
				return err
			}
			printer.Fprintf(cmd.OutOrStdout(), "filled, grew and verified %d ints\n", fillSize)
			reportStats(cmd.OutOrStdout(), alloc.Default().Stats())
			return nil
		},
	}
	cmd.Flags().IntVarP(&fillSize, "size", "s", 100000000, "Number of ints to allocate")
	rootCmd.AddCommand(cmd)
}

func fill(n int) error {
	slice := alloc.AllocateSlice[int](n)
	if slice == nil {
		return fmt.Errorf("allocate %d ints: %w", n, errOutOfMemory)
	}
	for i := range n {
		slice[i] = i
	}

	grown := alloc.GrowSlice(slice, 2*n)
	if grown == nil {
		alloc.FreeSlice(slice)
		return fmt.Errorf("grow to %d ints: %w", 2*n, errOutOfMemory)
	}
	defer alloc.FreeSlice(grown)

	for i := range n {
		if grown[i] != i {
			return fmt.Errorf("element %d changed across growth: %d", i, grown[i])
		}
	}
	for i := n; i < 2*n; i++ {
		grown[i] = i
	}
	return nil
}
