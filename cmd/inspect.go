package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gotabular/environment/envconfig"
	"github.com/samuelfneumann/gotabular/store"
	"github.com/samuelfneumann/gotabular/table"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect DATABASE [NAME]",
	Short: "List the tables in a database or show the policy of one",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(args[0])
		if err != nil {
			return err
		}
		defer db.Close()

		if len(args) == 1 {
			return list(cmd, db)
		}
		return show(cmd, db, args[1])
	},
}

// list writes a table describing every stored table
func list(cmd *cobra.Command, db *store.DB) error {
	names, err := db.Names()
	if err != nil {
		return err
	}

	t := tablewriter.NewWriter(cmd.OutOrStdout())
	t.SetHeader([]string{"Name", "Agent", "Environment", "Episodes",
		"Entries", "Saved"})
	for _, name := range names {
		meta, err := db.Metadata(name)
		if err != nil {
			return err
		}
		q, err := db.Get(name)
		if err != nil {
			return err
		}
		t.Append([]string{
			name,
			meta.Agent,
			meta.Environment,
			humanize.Comma(int64(meta.Episodes)),
			humanize.Comma(int64(q.Len())),
			humanize.Time(meta.Saved),
		})
	}
	t.Render()
	return nil
}

// show writes the metadata and greedy policy of a stored table
func show(cmd *cobra.Command, db *store.DB, name string) error {
	out := cmd.OutOrStdout()
	meta, err := db.Metadata(name)
	if err != nil {
		return err
	}
	q, err := db.Get(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%v: %v on %v, %v episodes, seed %v, saved %v\n",
		name, meta.Agent, meta.Environment,
		humanize.Comma(int64(meta.Episodes)), meta.Seed,
		humanize.Time(meta.Saved))
	fmt.Fprintf(out, "%v entries over %v states, %v visits\n",
		humanize.Comma(int64(q.Len())),
		humanize.Comma(int64(len(q.States()))),
		humanize.Comma(int64(visits(q))))

	c := envconfig.NewConfig(envconfig.EnvName(meta.Environment), 0, 1, false)
	e, err := c.Create(meta.Seed)
	if err != nil {
		return fmt.Errorf("cannot render table: %w", err)
	}
	render(out, e, q)
	return nil
}

func visits(q *table.ActionValues) int {
	total := 0
	q.Range(func(_ table.Key, e table.Entry) bool {
		total += e.Count
		return true
	})
	return total
}
