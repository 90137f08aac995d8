package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"carbrand-quiz/internal/app"
	"carbrand-quiz/internal/domain"
	"github.com/spf13/cobra"
)

const (
	clueCommand = ":clue"
	quitCommand = ":quit"
)

// NewPlayCmd runs a quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, *configPath)
			if err != nil {
				return err
			}
			defer e.Close()
			return playLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), e.service, e.clues, name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "player name (prompted when empty)")
	return cmd
}

// cluePather maps a clue reference to something a terminal user can open.
type cluePather interface {
	Path(ref domain.ClueRef) (string, error)
}

func playLoop(ctx context.Context, in io.Reader, out io.Writer, service *app.GameService, clues cluePather, player string) error {
	scanner := bufio.NewScanner(in)
	if strings.TrimSpace(player) == "" {
		fmt.Fprint(out, "Enter your name: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		player = scanner.Text()
	}

	session, err := service.StartSession(ctx, player)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Welcome %s! Type %s for a clue (-%d points) or %s to stop.\n",
		session.Player(), clueCommand, domain.CluePenalty, quitCommand)

	for {
		state := session.State()
		fmt.Fprintf(out, "\nScore: %d | Questions left: %d\n%s\n> ",
			state.Score, state.QuestionsRemaining+1, state.CurrentQuestion.Prompt)

		if !scanner.Scan() {
			service.Abandon(ctx, session.ID())
			fmt.Fprintln(out, "\nSession abandoned.")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case quitCommand:
			service.Abandon(ctx, session.ID())
			fmt.Fprintln(out, "Session abandoned.")
			return nil
		case clueCommand:
			ref, err := service.RevealClue(ctx, session.ID())
			if errors.Is(err, domain.ErrClueAlreadyRevealed) {
				fmt.Fprintln(out, "Clue already revealed for this question.")
				continue
			}
			if err != nil {
				return err
			}
			location := string(ref)
			if p, err := clues.Path(ref); err == nil {
				location = p
			}
			fmt.Fprintf(out, "Clue: %s (-%d points)\n", location, domain.CluePenalty)
			continue
		}

		result, err := service.SubmitAnswer(ctx, session.ID(), line)
		if err != nil && !errors.Is(err, domain.ErrPersistence) {
			return err
		}
		if result.Correct {
			fmt.Fprintf(out, "Correct! +%d points\n", result.Delta)
		} else {
			fmt.Fprintln(out, "Wrong!")
		}
		if a, ok := session.NewAchievement(); ok {
			fmt.Fprintf(out, "Achievement unlocked: %s - %s\n", a.Name, a.Message)
		}
		if result.Ended {
			printGameOver(out, session, result)
			if err != nil {
				fmt.Fprintf(out, "Your score could not be saved: %v\n", err)
			}
			return nil
		}
	}
}

func printGameOver(out io.Writer, session *app.Session, result domain.AnswerResult) {
	fmt.Fprintln(out, "\nGame Over!")
	fmt.Fprintln(out, domain.GameOverMessage(session.Player(), result.Score))
	fmt.Fprintf(out, "Final Score: %d points\n", result.Score)
	if acc, ok := session.Accuracy(); ok {
		fmt.Fprintf(out, "Accuracy: %.1f%%\n", acc)
	}
	fmt.Fprintf(out, "Best streak: %d\n", result.BestStreak)
}

