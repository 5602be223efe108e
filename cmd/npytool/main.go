// Package main provides the npytool CLI for inspecting .npy and .npz files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/born-ml/npyio/internal/pyliteral"
	"github.com/born-ml/npyio/npy"
	"github.com/born-ml/npyio/npz"
)

const version = "v0.1.0-dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "npytool",
		Short:         "Inspect NumPy .npy and .npz files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newHeaderCommand())
	root.AddCommand(newLsCommand())
	return root
}

// newHeaderCommand creates the `npytool header` command.
func newHeaderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "header <file.npy>",
		Short: "Print the header of a .npy file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			h, err := npy.ReadHeader(f)
			if err != nil {
				return err
			}
			descr, err := pyliteral.Format(h.TypeDescriptor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "descr:         %s\n", descr)
			fmt.Fprintf(cmd.OutOrStdout(), "fortran_order: %v\n", h.FortranOrder)
			fmt.Fprintf(cmd.OutOrStdout(), "shape:         %s\n", h.Shape)
			return nil
		},
	}
}

// newLsCommand creates the `npytool ls` command.
func newLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <file.npz>",
		Short: "List the arrays stored in a .npz archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, f, err := npz.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			for _, name := range r.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
