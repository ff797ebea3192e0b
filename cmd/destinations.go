package cmd

import (
	"fmt"
	"strings"

	"github.com/blacktop/xpublish/internal/xpublish"
	"github.com/spf13/cobra"
)

type destinationStatus struct {
	xpublish.Descriptor
	Configured bool     `json:"configured"`
	Missing    []string `json:"missing,omitempty"`
}

func newDestinationsCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "destinations",
		Aliases: []string{"targets"},
		Short:   "List supported destinations and their credential status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := loadCredentials(opts.credentials)
			if err != nil {
				return err
			}

			missing := map[xpublish.Key][]string{}
			for _, a := range adapterFactory(creds) {
				missing[a.Key()] = a.Missing()
			}

			var statuses []destinationStatus
			for _, key := range xpublish.Keys() {
				desc, err := xpublish.Describe(key)
				if err != nil {
					return err
				}
				statuses = append(statuses, destinationStatus{
					Descriptor: desc,
					Configured: len(missing[key]) == 0,
					Missing:    missing[key],
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, statuses)
			}
			for _, s := range statuses {
				state := "configured"
				if !s.Configured {
					state = "missing " + strings.Join(s.Missing, ", ")
				}
				fmt.Fprintf(out, "%-9s %-12s %s\n", s.Key, s.Label, state)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
