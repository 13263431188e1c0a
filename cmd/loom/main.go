// Command loom is a small demonstration CLI for the Loom transformer
// library: it builds a randomly initialized decoder and runs the greedy
// generation loop over it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loom-ml/loom/internal/generate"
	"github.com/loom-ml/loom/internal/transformer"
)

const version = "v0.1.0-dev"

func newGenerateCmd() *cobra.Command {
	var (
		vocabSize int
		maxLen    int
		modelDim  int
		numHeads  int
		numLayers int
		maxTokens int
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run greedy decoding on a randomly initialized decoder",
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelDim%numHeads != 0 {
				return fmt.Errorf("model-dim (%d) must be divisible by heads (%d)", modelDim, numHeads)
			}

			config := transformer.Config{
				VocabSize: vocabSize,
				MaxLen:    maxLen,
				ModelDim:  modelDim,
				NumHeads:  numHeads,
				HeadDim:   modelDim / numHeads,
				NumLayers: numLayers,
				Dropout:   0,
				Seed:      seed,
			}
			decoder := transformer.NewDecoder(config)

			gen := generate.NewGenerator(decoder, generate.Config{
				MaxTokens:  maxTokens,
				StartToken: 1,
				EndToken:   2,
			})

			ids := gen.Generate(nil)
			fmt.Fprintln(cmd.OutOrStdout(), ids)
			return nil
		},
	}

	cmd.Flags().IntVar(&vocabSize, "vocab", 1000, "Vocabulary size")
	cmd.Flags().IntVar(&maxLen, "max-len", 128, "Maximum sequence length")
	cmd.Flags().IntVar(&modelDim, "model-dim", 64, "Model (embedding) dimension")
	cmd.Flags().IntVar(&numHeads, "heads", 4, "Number of attention heads")
	cmd.Flags().IntVar(&numLayers, "layers", 2, "Number of decoder blocks")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 32, "Maximum tokens to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Weight initialization seed")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loom %s\n", version)
		},
	}
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "loom",
		Short:         "Transformer sequence models from scratch in Go",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.AddCommand(newGenerateCmd(), newVersionCmd())
	return rootCmd
}

func main() {
	if err := NewCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
