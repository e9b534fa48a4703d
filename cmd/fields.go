package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var fieldsProfile string

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List schema fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSchema()
		if err != nil {
			return err
		}

		fields := s.Fields()
		if fieldsProfile != "" {
			fields = s.Select(fieldsProfile)
		}

		for _, f := range fields {
			pattern := "-"
			if f.Regex != "" {
				pattern = f.Regex
			}
			fmt.Printf("%s\t%s\t%s\t%s\n", f.Name, f.Type, strings.Join(f.Profiles, ","), pattern)
		}
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List business profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadProfiles()
		if err != nil {
			return err
		}

		for _, key := range catalog.Keys() {
			p := catalog.Get(key)
			fmt.Printf("%s\t%s\t%d fields (%d mandatory)\n",
				key, p.DisplayName, len(p.Fields), len(p.MandatoryFields))
		}
		return nil
	},
}

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsProfile, "profile", "p", "", "only fields of this profile")
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(profilesCmd)
}
