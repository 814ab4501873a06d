package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexandrarotta/microestado/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate the content catalog and print its version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cat)
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "dump the whole validated catalog as JSON")
	return cmd
}

func printCatalog(w io.Writer, cat *catalog.Bundle) {
	fmt.Fprintln(w, titleStyle.Render("catalog "+cat.Version))

	names := make([]string, 0, len(cat.Digests))
	for n := range cat.Digests {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(w, labelStyle.Render(n)+shortVersion(cat.Digests[n]))
	}

	fmt.Fprintln(w)
	counts := []struct {
		label string
		n     int
	}{
		{"roles", len(cat.Roles)},
		{"projects", len(cat.Projects)},
		{"events", len(cat.Events)},
		{"decrees", len(cat.Economy.Decrees)},
		{"industries", len(cat.Industries)},
		{"presets", len(cat.PolicyPresets)},
		{"state types", len(cat.StateTypes)},
		{"l2 industries", len(cat.L2Industries)},
		{"l2 projects", len(cat.L2Projects)},
		{"l2 events", len(cat.L2Events)},
		{"advisors", len(cat.Advisors)},
	}
	for _, c := range counts {
		fmt.Fprintln(w, labelStyle.Render(c.label)+fmt.Sprint(c.n))
	}
}
