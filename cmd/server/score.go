package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/fairway/internal/services"
)

// readAnswers decodes {"<questionId>": pick, ...}.
func readAnswers(r io.Reader) (services.AnswerSet, error) {
	raw := map[string]int{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	answers := services.AnswerSet{}
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("question id %q is not a number", k)
		}
		answers[id] = v
	}
	return answers, nil
}

func newScoreCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a completed answer set read from a JSON file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			answers, err := readAnswers(in)
			if err != nil {
				return err
			}
			outcome, err := services.ScoreStrict(services.QuestionBank(), answers)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(outcome)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "answers JSON file (default stdin)")
	return cmd
}
