package cli

import (
	"fmt"

	"carbrand-quiz/internal/app"
	"carbrand-quiz/internal/domain"
	"carbrand-quiz/internal/importer"
	"github.com/spf13/cobra"
)

// NewAddQuestionCmd adds a single question to the store.
func NewAddQuestionCmd(configPath *string) *cobra.Command {
	var (
		prompt  string
		image   string
		clue    string
		answers []string
	)
	cmd := &cobra.Command{
		Use:   "add-question",
		Short: "Add a question with its clue image and accepted answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (image == "") == (clue == "") {
				return fmt.Errorf("%w: exactly one of --image or --clue is required", domain.ErrInvalidArgument)
			}
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			ref := domain.ClueRef(clue)
			if image != "" {
				if ref, err = e.clues.Import(image); err != nil {
					return err
				}
			} else if !e.clues.Exists(ref) {
				return fmt.Errorf("%w: %s", domain.ErrClueNotFound, ref)
			}

			id, err := e.service.AddQuestion(ctx, domain.Question{
				Prompt:  prompt,
				Clue:    ref,
				Answers: domain.NewAnswerSet(answers...),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added question %d with clue %s\n", id, ref)
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "question text")
	cmd.Flags().StringVar(&image, "image", "", "image file to copy into the clue library")
	cmd.Flags().StringVar(&clue, "clue", "", "existing clue file name in the clue library")
	cmd.Flags().StringSliceVar(&answers, "answer", nil, "accepted answer (repeatable)")
	_ = cmd.MarkFlagRequired("prompt")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

// NewImportCmd bulk-loads questions from a spreadsheet.
func NewImportCmd(configPath *string) *cobra.Command {
	cfg := importer.DefaultConfig()
	var checkClues bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import questions from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			cfg.FilePath = args[0]
			if checkClues {
				cfg.ClueAvailable = e.clues.Exists
			}
			result, err := importer.Import(ctx, cfg, e.questions)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d rows: %d created, %d skipped\n", result.Processed, result.Created, result.Skipped)
			for _, msg := range result.Errors {
				fmt.Fprintln(out, msg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.SheetName, "sheet", "", "sheet name (first sheet when empty)")
	cmd.Flags().StringVar(&cfg.QuestionCol, "question-col", cfg.QuestionCol, "column holding the question text")
	cmd.Flags().StringVar(&cfg.ClueCol, "clue-col", cfg.ClueCol, "column holding the clue file name")
	cmd.Flags().StringVar(&cfg.AnswersCol, "answers-col", cfg.AnswersCol, "column holding answers separated by ; or |")
	cmd.Flags().IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first data row (1-based)")
	cmd.Flags().BoolVar(&checkClues, "check-clues", true, "reject rows whose clue file is missing from the library")
	return cmd
}

// NewSeedCmd loads the sample questions into an empty store.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample questions when the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := app.SeedSamples(ctx, e.questions)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d questions\n", n)
			return nil
		},
	}
}
