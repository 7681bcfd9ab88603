package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"warehouse.GO/config"
	stockService "warehouse.GO/service/stock"
)

var (
	stockImportFile  string
	stockImportActor string
)

var stockImportCmd = &cobra.Command{
	Use:   "stock:import",
	Short: "Import inventory records from CSV (warehouse_id,product_id,on_hand_qty,reorder_level)",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(stockImportFile)
		if err != nil {
			fmt.Printf("Failed to open CSV: %v\n", err)
			return
		}
		defer f.Close()

		items, parseWarnings, err := stockService.ParseStockCSV(f)
		if err != nil {
			fmt.Printf("Failed to parse CSV: %v\n", err)
			return
		}

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		res, err := stockService.ImportStock(db, items, stockImportActor)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, w := range parseWarnings {
			fmt.Printf("  [warn] %s\n", w)
		}
		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}

		fmt.Printf(`
=== Stock Import Report ===
CSV rows:  %d
Imported:  %d
Skipped:   %d
`, len(items), res.Imported, res.Skipped)
	},
}

func init() {
	stockImportCmd.Flags().StringVarP(&stockImportFile, "file", "f", "stock.csv", "CSV file path")
	stockImportCmd.Flags().StringVarP(&stockImportActor, "actor", "a", "cli", "Actor recorded in the movement journal")
	rootCmd.AddCommand(stockImportCmd)
}
