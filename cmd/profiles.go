package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"narrator/internal/pkg/voiceprofile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List voice profiles",
	Long: `List the built-in voice profiles.
With --recommend the profile suggested for the given text file (or stdin) is printed.`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

var profilesOpts struct {
	recommend string
	format    string
}

func init() {
	rootCmd.AddCommand(profilesCmd)

	flags := profilesCmd.Flags()
	flags.StringVar(&profilesOpts.recommend, "recommend", "", "recommend a profile for this file (- for stdin)")
	flags.StringVarP(&profilesOpts.format, "format", "f", "table", "output format (table/json/yaml)")
}

func runProfiles(cmd *cobra.Command, args []string) error {
	profiles := voiceprofile.All()

	if profilesOpts.recommend != "" {
		text, err := readInput([]string{profilesOpts.recommend})
		if err != nil {
			return err
		}
		p, _ := voiceprofile.Get(voiceprofile.Recommend(text))
		profiles = []voiceprofile.Profile{p}
	}

	if profilesOpts.format != "table" {
		return writeFormatted(cmd.OutOrStdout(), profilesOpts.format, profiles)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPITCH\tRATE\tVOLUME\tDESCRIPTION")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%s\n",
			p.ID, p.NameFr, p.Adjustments.Pitch, p.Adjustments.Rate, p.Adjustments.Volume, p.DescriptionFr)
	}
	return tw.Flush()
}
