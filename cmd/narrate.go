package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"narrator/internal/narrator"
	"narrator/internal/pkg/speech"
	"narrator/internal/pkg/voiceprofile"
)

var narrateCmd = &cobra.Command{
	Use:   "narrate [file|-]",
	Short: "Narrate text with the simulated speech engine",
	Long: `Narrate a text file (or stdin) sentence by sentence.
Each spoken segment is printed to stdout. Press Ctrl-C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNarrate,
}

var narrateOpts struct {
	language    string
	personality string
	rate        float64
	noProsody   bool
}

func init() {
	rootCmd.AddCommand(narrateCmd)

	flags := narrateCmd.Flags()
	flags.StringVarP(&narrateOpts.language, "language", "l", "", "language tag, e.g. fr-CA (default from config)")
	flags.StringVar(&narrateOpts.personality, "personality", "", "voice profile id (professionnel/conversationnel/dramatique/decontracte)")
	flags.Float64Var(&narrateOpts.rate, "rate", 0, "speech rate [0.5,2]")
	flags.BoolVar(&narrateOpts.noProsody, "no-prosody", false, "disable prosody adjustments")
}

// doneSink 在任务结束时通知命令退出
type doneSink struct {
	done chan narrator.Event
}

func (d doneSink) OnUpdate(narrator.Update) {}

func (d doneSink) OnEvent(e narrator.Event) {
	if e.Kind == narrator.EventStarted {
		return
	}
	select {
	case d.done <- e:
	default:
	}
}

func runNarrate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	text, err := readInput(args)
	if err != nil {
		return err
	}

	vs, err := cliVoiceSettings(narrateOpts.language, narrateOpts.personality)
	if err != nil {
		return err
	}
	if narrateOpts.rate > 0 {
		vs.Rate = narrateOpts.rate
	}
	if narrateOpts.noProsody {
		vs.Prosody.Enabled = false
	}

	engine := speech.NewSimulatedEngine(speech.SimulatedConfig{
		WordsPerMinute: cfg.Narration.WordsPerMinute,
		Output:         cmd.OutOrStdout(),
		CanPause:       cfg.Narration.CanPause,
	})

	sink := doneSink{done: make(chan narrator.Event, 1)}
	seq := narrator.New(engine, narrator.Options{
		Sink: narrator.MultiSink{narrator.LogSink{Logger: log.Logger}, sink},
	})
	defer seq.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ctx 取消时序列器自行停止并发出 stopped 事件
	runID, err := seq.Start(ctx, text, vs)
	if errors.Is(err, narrator.ErrEmptyText) {
		return fmt.Errorf("nothing to narrate")
	}
	if err != nil {
		return err
	}
	log.Debug().Str("run_id", runID).Int("segments", len(seq.Segments())).Msg("narrating")

	e := <-sink.done
	switch e.Kind {
	case narrator.EventError:
		return fmt.Errorf("narration failed: %s", e.Error)
	case narrator.EventStopped:
		fmt.Fprintln(cmd.ErrOrStderr(), "narration stopped")
	}
	return nil
}

// cliVoiceSettings 配置中的朗读设置叠加命令行参数
func cliVoiceSettings(language, personality string) (narrator.VoiceSettings, error) {
	vs := GetConfig().Narration.VoiceSettings()
	if language != "" {
		vs.Language = language
	}
	if personality != "" {
		id := voiceprofile.ID(personality)
		if _, ok := voiceprofile.Get(id); !ok {
			return vs, fmt.Errorf("unknown voice profile: %s", personality)
		}
		vs.Personality = id
	}
	return vs.Normalize(), nil
}
