package commands

import (
	"github.com/spf13/cobra"

	"github.com/anandkaranubc/rex-data-wrangling/internal/cli/output"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

// SinkInfo describes one registered sink.
type SinkInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	// Extension is set for file sinks.
	Extension string `json:"extension,omitempty"`
}

// NewSinksCommand creates the sinks command.
func NewSinksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sinks",
		Short: "List available report destinations",
		Long: `List every registered sink. Select one with --sink or sink.type in rex.yaml.

File sinks write <name>.<extension> into the output directory, or to stdout
when none is configured. Database sinks replace a table named after each
report.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContext(cmd).Renderer
			infos := ListSinks()

			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(infos)
			case output.ModeMarkdown:
				r.Header(1, "Sinks")
				for _, info := range infos {
					r.Println(output.FormatKeyValue(info.Name, describeSink(info)))
				}
			default:
				r.Header(1, "Sinks")
				for _, info := range infos {
					r.StatusLine(info.Name, "", describeSink(info))
				}
			}
			return nil
		},
	}
}

// ListSinks describes every registered sink, sorted by name.
func ListSinks() []SinkInfo {
	names := sink.List()
	infos := make([]SinkInfo, 0, len(names))
	for _, name := range names {
		info := SinkInfo{Name: name, Kind: "database"}
		if enc, err := sink.EncoderFor(name); err == nil {
			info.Kind = "file"
			info.Extension = enc.Extension()
		}
		infos = append(infos, info)
	}
	return infos
}

func describeSink(info SinkInfo) string {
	if info.Extension != "" {
		return info.Kind + " (." + info.Extension + ")"
	}
	return info.Kind
}
