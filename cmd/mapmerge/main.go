package main

import (
	"fmt"
	"log"
	"os"

	"mapmerge/adapters/excel"
	"mapmerge/app"
	"mapmerge/internal"
	"mapmerge/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "mapmerge",
		Short: "Reconcile SWIFT mapping sheets by hierarchy path",
	}

	rootCmd.AddCommand(newMergeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMergeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge [source.xlsx] [test.xlsx]",
		Short: "Merge Source mapping attributes into blank Test cells",
		Long: `Merge rebuilds each row's hierarchy path from its (level, tag, name)
triple, joins the Test workbook to the Source workbook on (path, tag), and
fills blank Test cells from Source. Rows without a tag fall back to untagged
Source rows at the same path, level, and name.

The output workbook carries a copy of every Source sheet, the stripped Source
table, the merged table, and a per-cell differences report.

Example: mapmerge merge latest_mapping.xlsx swift_export.xlsx -o updated.xlsx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if output == "" {
				output = cfg.OutputPath
			}

			service := app.NewMergeService(excel.NewReader(), excel.NewWriter(), internal.NewDefaultLogger())
			report, err := service.Run(cmd.Context(), app.MergeRequest{
				SourcePath: args[0],
				TestPath:   args[1],
				OutputPath: output,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Run %s complete: %s\n", report.RunID, report.OutputPath)
			fmt.Printf("  source: %d sheets, %d rows; test: %d sheets, %d rows\n",
				report.SourceSheets, report.SourceRows, report.TestSheets, report.TestRows)
			fmt.Printf("  matched %d/%d rows, %d primary fills, %d fallback fills (mean %.2f, max %.0f per row)\n",
				report.MatchedRows, report.TestRows, report.PrimaryFills, report.FallbackFills,
				report.MeanFillsPerRow, report.MaxFillsPerRow)
			fmt.Printf("  %d differences recorded\n", report.Differences)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output workbook path (default from MAPMERGE_OUTPUT)")

	return cmd
}
