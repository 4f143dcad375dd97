package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ArtoLabs/GovGen/internal/innovation"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the office table and innovation catalog as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		offices := polity.TribalOffices()
		officeNames := make([]string, 0, len(offices))
		for name := range offices {
			officeNames = append(officeNames, name)
		}
		sort.Strings(officeNames)
		officeList := make([]polity.OfficeConfig, 0, len(officeNames))
		for _, name := range officeNames {
			officeList = append(officeList, offices[name])
		}

		catalog := innovation.Catalog()
		innovationNames := make([]string, 0, len(catalog))
		for name := range catalog {
			innovationNames = append(innovationNames, name)
		}
		sort.Strings(innovationNames)
		innovationList := make([]innovation.Innovation, 0, len(innovationNames))
		for _, name := range innovationNames {
			innovationList = append(innovationList, catalog[name])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"offices":     officeList,
			"innovations": innovationList,
		}); err != nil {
			return fmt.Errorf("encode info: %w", err)
		}
		return nil
	},
}
