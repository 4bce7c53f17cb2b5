package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"node.town/buddy/bank"
)

func runListQuestions(cmd *cobra.Command, args []string) {
	mainLogger, _, _, _, _ := createLoggers()

	difficulty, _ := cmd.Flags().GetString("difficulty")
	topics, _ := cmd.Flags().GetStringSlice("topic")
	pick, _ := cmd.Flags().GetBool("pick")

	if pick {
		var err error
		difficulty, topics, err = pickQuestions()
		if err != nil {
			mainLogger.Fatal("pick questions", "error", err.Error())
		}
	}

	filter, err := parseQuestionFilter(difficulty, topics)
	if err != nil {
		mainLogger.Fatal("invalid filter", "error", err.Error())
	}

	rows := questionRows(bank.Default(), filter)
	if len(rows) == 0 {
		mainLogger.Info("no questions match")
		return
	}
	writeQuestionTable(os.Stdout, rows)
}

type questionFilter struct {
	difficulties []bank.Difficulty
	topics       []bank.Topic
}

func parseQuestionFilter(difficulty string, topics []string) (questionFilter, error) {
	filter := questionFilter{
		difficulties: bank.Difficulties,
		topics:       bank.Topics,
	}
	if difficulty != "" {
		d, err := bank.ParseDifficulty(difficulty)
		if err != nil {
			return filter, err
		}
		filter.difficulties = []bank.Difficulty{d}
	}
	if len(topics) > 0 {
		filter.topics = nil
		for _, name := range topics {
			t, err := bank.ParseTopic(name)
			if err != nil {
				return filter, err
			}
			filter.topics = append(filter.topics, t)
		}
	}
	return filter, nil
}

func questionRows(b *bank.Bank, filter questionFilter) [][]string {
	var rows [][]string
	for _, d := range filter.difficulties {
		for _, t := range filter.topics {
			questions, _ := b.Questions(d, t)
			for i, q := range questions {
				rows = append(rows, []string{
					d.String(),
					t.Title(),
					fmt.Sprintf("%d", i+1),
					q,
				})
			}
		}
	}
	return rows
}

func writeQuestionTable(w io.Writer, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Difficulty", "Topic", "#", "Question"})
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.AppendBulk(rows)
	table.Render()
}

func pickQuestions() (string, []string, error) {
	var difficulty string
	var topics []string

	difficultyOptions := []huh.Option[string]{huh.NewOption("All", "")}
	for _, d := range bank.Difficulties {
		difficultyOptions = append(difficultyOptions, huh.NewOption(d.String(), d.String()))
	}
	var topicOptions []huh.Option[string]
	for _, t := range bank.Topics {
		topicOptions = append(topicOptions, huh.NewOption(t.Title(), t.String()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Difficulty").
				Options(difficultyOptions...).
				Value(&difficulty),
			huh.NewMultiSelect[string]().
				Title("Topics").
				Description("Leave empty for all topics").
				Options(topicOptions...).
				Value(&topics),
		),
	)
	if err := form.Run(); err != nil {
		return "", nil, err
	}
	return difficulty, topics, nil
}
