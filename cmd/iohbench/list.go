package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/experiment"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem/bbob"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem/pbo"
)

var listFamily string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the problems of a family",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch listFamily {
		case experiment.FamilyBBOB:
			printProblems(cmd.OutOrStdout(), bbob.NewRegistry())
		case experiment.FamilyPBO:
			printProblems(cmd.OutOrStdout(), pbo.NewRegistry())
		default:
			return fmt.Errorf("unknown family: %s", listFamily)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFamily, "family", experiment.FamilyBBOB, "Problem family: bbob, pbo")
	rootCmd.AddCommand(listCmd)
}

func printProblems[T problem.Number](out io.Writer, r *problem.Registry[T]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	ids := r.IDs()
	for i, name := range r.Names() {
		fmt.Fprintf(w, "%d\t%s\n", ids[i], name)
	}
	w.Flush()

	l := r.Limits()
	fmt.Fprintf(out, "\n%s: instances %d-%d, dimensions %d-%d\n",
		r.Family(), l.MinInstance, l.MaxInstance, l.MinDim, l.MaxDim)
}
