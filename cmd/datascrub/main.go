// Command datascrub audits, cleans, and exports CSV files from the
// command line using the same engine as the web server.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/datascrub/datascrub/internal/core"
	_ "github.com/datascrub/datascrub/internal/core/targets"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "datascrub",
		Usage: "audit, clean, and export CSV lead lists",
		Commands: []*cli.Command{
			{
				Name:      "audit",
				Usage:     "score a CSV file and report quality problems",
				ArgsUsage: "<file.csv>",
				Action:    auditAction,
			},
			{
				Name:      "clean",
				Usage:     "run cleaning steps against a CSV file",
				ArgsUsage: "<file.csv>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "remove-duplicates", Value: true, Usage: "remove fully duplicated rows"},
					&cli.BoolFlag{Name: "drop-empty", Usage: "drop rows with every cell missing"},
					&cli.BoolFlag{Name: "trim", Value: true, Usage: "trim whitespace in text cells"},
					&cli.BoolFlag{Name: "title-case", Usage: "title case columns whose name contains 'name'"},
					&cli.StringFlag{Name: "email-column", Usage: "drop rows whose value in this column is not a valid email"},
					&cli.StringFlag{Name: "preset", Usage: "use a named preset instead of step flags"},
					&cli.StringFlag{Name: "presets-file", Usage: "YAML file of presets (built-ins used when empty)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output path (default cleaned_data_<timestamp>.csv)"},
				},
				Action: cleanAction,
			},
			{
				Name:      "export",
				Usage:     "format a CSV file for a CRM platform",
				ArgsUsage: "<file.csv>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "target", Value: "universal", Usage: "export target key (see 'datascrub targets')"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output path (default datascrub_<target>.csv)"},
				},
				Action: exportAction,
			},
			{
				Name:   "targets",
				Usage:  "list available export targets",
				Action: targetsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadTable(c *cli.Context) (core.Table, string, error) {
	path := c.Args().First()
	if path == "" {
		return core.Table{}, "", fmt.Errorf("no file provided, expected a CSV path argument")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Table{}, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	t, err := core.ParseCSV(data)
	if err != nil {
		return core.Table{}, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, path, nil
}

func auditAction(c *cli.Context) error {
	t, path, err := loadTable(c)
	if err != nil {
		return err
	}

	report := core.Score(t)

	fmt.Printf("File:            %s\n", path)
	fmt.Printf("Rows:            %d\n", report.RowCount)
	fmt.Printf("Columns:         %d\n", report.ColumnCount)
	fmt.Printf("Health score:    %d/100\n", report.Score)
	fmt.Printf("Duplicate rows:  %d\n", report.DuplicateRows)
	fmt.Printf("Missing cells:   %d\n", report.MissingCells)

	if len(report.MissingPerColumn) > 0 {
		names := make([]string, 0, len(report.MissingPerColumn))
		for name := range report.MissingPerColumn {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("\nMissing values by column:")
		for _, name := range names {
			fmt.Printf("  %-30s %d\n", name, report.MissingPerColumn[name])
		}
	}
	return nil
}

func cleanAction(c *cli.Context) error {
	t, _, err := loadTable(c)
	if err != nil {
		return err
	}

	cfg, err := cleaningConfig(c, t)
	if err != nil {
		return err
	}

	before := core.Score(t)
	cleaned := core.Clean(t, cfg)
	after := core.Score(cleaned)

	out := c.String("output")
	if out == "" {
		out = core.DownloadFileName(time.Now())
	}
	data, err := core.MarshalCSV(cleaned)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	steps := cfg.StepNames()
	if len(steps) == 0 {
		fmt.Println("No cleaning steps enabled, wrote input unchanged.")
	} else {
		fmt.Printf("Steps:  %s\n", strings.Join(steps, ", "))
	}
	fmt.Printf("Rows:   %d -> %d\n", t.RowCount(), cleaned.RowCount())
	fmt.Printf("Score:  %d -> %d\n", before.Score, after.Score)
	fmt.Printf("Wrote:  %s\n", out)
	return nil
}

// cleaningConfig builds the step configuration from either --preset or
// the individual step flags.
func cleaningConfig(c *cli.Context, t core.Table) (core.CleaningConfig, error) {
	if name := c.String("preset"); name != "" {
		presets := core.DefaultPresets()
		if path := c.String("presets-file"); path != "" {
			var err error
			presets, err = core.LoadPresets(path)
			if err != nil {
				return core.CleaningConfig{}, err
			}
		}
		for _, p := range presets {
			if p.Name == name {
				return p.Config, nil
			}
		}
		return core.CleaningConfig{}, fmt.Errorf("unknown preset %q", name)
	}

	cfg := core.CleaningConfig{
		RemoveDuplicates: c.Bool("remove-duplicates"),
		DropEmptyRows:    c.Bool("drop-empty"),
		TrimWhitespace:   c.Bool("trim"),
		TitleCaseNames:   c.Bool("title-case"),
	}
	if col := c.String("email-column"); col != "" {
		if t.ColumnIndex(col) < 0 {
			return core.CleaningConfig{}, fmt.Errorf("unknown column %q, file has: %s",
				col, strings.Join(t.ColumnNames(), ", "))
		}
		cfg.ValidateEmails = true
		cfg.EmailColumn = col
	}
	return cfg, nil
}

func exportAction(c *cli.Context) error {
	t, _, err := loadTable(c)
	if err != nil {
		return err
	}

	target, ok := core.Target(c.String("target"))
	if !ok {
		return fmt.Errorf("unknown export target %q, see 'datascrub targets'", c.String("target"))
	}

	formatted := core.Format(t, target)
	out := c.String("output")
	if out == "" {
		out = core.ExportFileName(target)
	}
	data, err := core.MarshalCSV(formatted)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Printf("Formatted %d rows for %s\n", formatted.RowCount(), target.Label)
	fmt.Printf("Wrote:  %s\n", out)
	return nil
}

func targetsAction(c *cli.Context) error {
	fmt.Printf("%-12s %-20s %s\n", "KEY", "LABEL", "NOTES")
	for _, t := range core.Targets() {
		notes := ""
		if t.Placeholder {
			notes = "header mapping not implemented yet"
		}
		fmt.Printf("%-12s %-20s %s\n", t.Key, t.Label, notes)
	}
	return nil
}
