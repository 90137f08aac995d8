package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"carbrand-quiz/internal/domain"
	"github.com/xuri/excelize/v2"
)

// QuestionAdder is the store questions are written to.
type QuestionAdder interface {
	Add(ctx context.Context, q domain.Question) (int64, error)
}

// Config defines where question fields live in the source file.
type Config struct {
	FilePath      string // Path to the .xlsx or .csv file
	SheetName     string // Sheet to read; the first sheet when empty
	QuestionCol   string // Column with the question text
	ClueCol       string // Column with the clue image file name
	AnswersCol    string // Column with accepted answers separated by ; or |
	StartRow      int    // First data row (1-based)
	ClueAvailable func(domain.ClueRef) bool
}

// DefaultConfig reads question, clue, answers from columns A-C and skips one header row.
func DefaultConfig() Config {
	return Config{
		QuestionCol: "A",
		ClueCol:     "B",
		AnswersCol:  "C",
		StartRow:    2,
	}
}

// Result holds the outcome of an import.
type Result struct {
	Processed int
	Created   int
	Skipped   int
	Errors    []string
}

type columns struct {
	question, clue, answers int
}

// Import reads questions from cfg.FilePath into store.
func Import(ctx context.Context, cfg Config, store QuestionAdder) (*Result, error) {
	cols, err := resolveColumns(cfg)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if strings.EqualFold(filepath.Ext(cfg.FilePath), ".csv") {
		rows, err = readCSV(cfg.FilePath)
	} else {
		rows, err = readExcel(cfg.FilePath, cfg.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow || blankRow(row) {
			continue
		}
		result.Processed++

		q, err := parseRow(row, cols)
		if err == nil && cfg.ClueAvailable != nil && !cfg.ClueAvailable(q.Clue) {
			err = fmt.Errorf("%w: %s", domain.ErrClueNotFound, q.Clue)
		}
		if err == nil {
			_, err = store.Add(ctx, q)
		}
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, domain.ErrDuplicateClue):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

func resolveColumns(cfg Config) (columns, error) {
	var cols columns
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{cfg.QuestionCol, &cols.question},
		{cfg.ClueCol, &cols.clue},
		{cfg.AnswersCol, &cols.answers},
	} {
		n, err := excelize.ColumnNameToNumber(c.name)
		if err != nil {
			return cols, fmt.Errorf("%w: column %q: %v", domain.ErrInvalidArgument, c.name, err)
		}
		*c.dst = n - 1
	}
	return cols, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string, cols columns) (domain.Question, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	answers := strings.FieldsFunc(cell(cols.answers), func(r rune) bool { return r == ';' || r == '|' })
	q := domain.Question{
		Prompt:  cell(cols.question),
		Clue:    domain.ClueRef(cell(cols.clue)),
		Answers: domain.NewAnswerSet(answers...),
	}
	return q, q.Validate()
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
