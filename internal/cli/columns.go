package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relmap/pkg/builder"
	"github.com/matzehuels/relmap/pkg/table"
)

// columnsCommand creates the columns command for inspecting a CSV header.
func (c *CLI) columnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns [file]",
		Short: "Inspect the columns of a CSV table",
		Long: `Columns shows which required and optional columns a table carries and
which extra columns are available as grouping columns for build --groups.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(args[0])
		},
	}
}

func runColumns(input string) error {
	tbl, err := table.ReadCSVFile(input)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(input))
	printKeyValue("Rows", fmt.Sprintf("%d", len(tbl.Rows)))
	printNewlineSep()

	var missing []string
	for _, col := range builder.RequiredColumns() {
		if tbl.HasColumn(col) {
			printSuccess("%s", col)
		} else {
			printError("%s %s", col, StyleDim.Render("(missing, build will fail)"))
			missing = append(missing, col)
		}
	}

	for _, col := range []string{table.ColTopics, table.ColRelationship, table.ColRemark} {
		if tbl.HasColumn(col) {
			printInfo("%s %s", col, StyleDim.Render("(optional)"))
		}
	}

	groups := tbl.GroupColumns()
	if len(groups) > 0 {
		printNewlineSep()
		printInfo("Grouping columns: %s", strings.Join(groups, ", "))
		printNextStep("Materialize them", fmt.Sprintf("relmap build %s --groups %s", input, strings.Join(groups, ",")))
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// printNewlineSep prints an empty separator line.
func printNewlineSep() {
	fmt.Println()
}
