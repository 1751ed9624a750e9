package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/vopet/internal/cli"
	"codeberg.org/snonux/vopet/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// A bare phrase is translated
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
			return p.Translate(ctx, strings.Join(args, " "))
		})
	}

	rootCmd.AddCommand(
		translateCommand(flags),
		wordsCommand(flags),
		papagoCommand(flags),
		saveCommand(flags),
		listCommand(flags),
		connectCommand(flags),
		disconnectCommand(flags),
		statusCommand(flags),
		captureCommand(flags),
		pageCommand(flags),
		batchCommand(flags),
		exportCommand(flags),
		serveCommand(flags),
		pingCommand(flags),
		modelsCommand(),
	)

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withProcessor runs fn with a processor that is closed afterwards. The
// context is cancelled on SIGINT or SIGTERM.
func withProcessor(cmd *cobra.Command, flags *cli.Flags, fn func(context.Context, *processor.Processor) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc, err := processor.NewProcessor(ctx, flags)
	if err != nil {
		return err
	}
	defer proc.Close()

	return fn(ctx, proc)
}

func translateCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text and list its words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.Translate(ctx, strings.Join(args, " "))
			})
		},
	}
	cmd.Flags().BoolVar(&flags.NoWords, "no-words", false, "Do not translate the single words")
	return cmd
}

func wordsCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "words <text>",
		Short: "Translate each word of a phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.Words(ctx, strings.Join(args, " "))
			})
		},
	}
}

func papagoCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "papago <text>",
		Short: "Print the Papago link for text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := processor.PapagoURL(flags, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		},
	}
}

func saveCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <word> [meaning]",
		Short: "Append a word to the ledger",
		Long: `Append a word to the connected CSV ledger. Without a meaning the word
is translated into the target language first.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			meaning := ""
			if len(args) == 2 {
				meaning = args[1]
			}
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.SaveWord(ctx, args[0], meaning)
			})
		},
	}
	cmd.Flags().StringVarP(&flags.Pronunciation, "pronunciation", "p", "", "Pronunciation (default: look up)")
	cmd.Flags().StringVarP(&flags.Example, "example", "e", "", "Example sentence sent to the word service")
	return cmd
}

func listCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the words in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.ListRecords(ctx)
			})
		},
	}
}

func connectCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <file.csv>",
		Short: "Use a CSV file as the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.Connect(ctx, args[0])
			})
		},
	}
}

func disconnectCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Archive and forget the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.Disconnect(ctx)
			})
		},
	}
}

func statusCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the connected ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.Status(ctx)
			})
		},
	}
}

func captureCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture <image>",
		Short: "Read and translate the text in a screenshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.Capture(ctx, args[0])
			})
		},
	}
	cmd.Flags().StringVar(&flags.Region, "region", "", "Region to read as left,top,width,height")
	return cmd
}

func pageCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page <url>",
		Short: "Show the readable text of a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.ReadPage(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&flags.NoWords, "no-words", false, "Do not translate the words of the title")
	return cmd
}

func batchCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Save every word of a batch file",
		Long: `Save every word of a batch file to the ledger. One entry per line:

  word              translate into the target language
  word = meaning    save as given
  = meaning         translate the meaning back (needs --source)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.ProcessBatch(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Resolve entries without saving them")
	return cmd
}

func exportCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as an Anki deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				_, err := p.ExportAnki(ctx)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Write a CSV import file instead of an .apkg package")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Anki deck name")
	cmd.Flags().StringVarP(&flags.OutputPath, "output", "o", "", "Output file (default: <deck-name>.apkg)")
	return cmd
}

func serveCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local service for the browser extension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProcessor(cmd, flags, func(ctx context.Context, p *processor.Processor) error {
				return p.Serve(ctx)
			})
		},
	}
}

func pingCommand(flags *cli.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the local service is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return processor.Ping(cmd.Context(), flags)
		},
	}
}

func modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list-models",
		Aliases: []string{"models"},
		Short:   "List OpenAI models usable for translation",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return processor.ListModels(cmd.Context())
		},
	}
}
