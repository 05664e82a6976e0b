package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"narrator/internal/narrator"
	"narrator/internal/pkg/prosody"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Segment text and print prosody annotations",
	Long: `Split a text file (or stdin) into sentences and print each segment
with its sentence type, tone, content type and prosody hints.
With --ssml the SSML document is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var analyzeOpts struct {
	language string
	ssml     bool
	format   string
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	flags := analyzeCmd.Flags()
	flags.StringVarP(&analyzeOpts.language, "language", "l", "", "language tag (default from config)")
	flags.BoolVar(&analyzeOpts.ssml, "ssml", false, "print the SSML document")
	flags.StringVarP(&analyzeOpts.format, "format", "f", "json", "output format (json/yaml)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	vs, err := cliVoiceSettings(analyzeOpts.language, "")
	if err != nil {
		return err
	}

	segments := narrator.BuildSegments(text, vs)
	if analyzeOpts.ssml {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), prosody.NewEngine(vs.Prosody).GenerateSSML(segments))
		return err
	}
	if segments == nil {
		segments = []prosody.TextSegment{}
	}

	return writeFormatted(cmd.OutOrStdout(), analyzeOpts.format, map[string]any{
		"language": vs.Language,
		"settings": vs.Prosody,
		"segments": segments,
	})
}
