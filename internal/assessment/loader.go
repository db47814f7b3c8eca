// internal/assessment/loader.go
// Loads the questionnaire from a JSON bank file. Questions are keyed by
// external id, so reloading an updated bank only inserts new entries.

package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

type questionBank struct {
	Version   string          `json:"version"`
	Questions []*bankQuestion `json:"questions"`
}

type bankQuestion struct {
	ID           string  `json:"id"`
	Text         string  `json:"text"`
	Category     string  `json:"category"`
	Scale        string  `json:"scale"`
	Subcategory  *string `json:"subcategory,omitempty"`
	Domain       *string `json:"domain,omitempty"`
	Keyed        *string `json:"keyed,omitempty"`
	Dimension    *string `json:"dimension,omitempty"`
	Severity     *string `json:"severity,omitempty"`
	RedFlagValue *int    `json:"red_flag_value,omitempty"`
	Flag         *string `json:"flag,omitempty"`
}

type Loader struct {
	repo Repository
	path string
}

func NewLoader(repo Repository, path string) *Loader {
	return &Loader{repo: repo, path: path}
}

// Load reads the bank file and inserts every question not already
// present. Returns the number of newly inserted questions.
func (l *Loader) Load(ctx context.Context) (int, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, fmt.Errorf("read question bank: %w", err)
	}

	var bank questionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return 0, fmt.Errorf("parse question bank: %w", err)
	}

	loaded := 0
	for order, bq := range bank.Questions {
		q, err := bq.toQuestion(order + 1)
		if err != nil {
			log.Printf("Skipping question %s: %v", bq.ID, err)
			continue
		}

		inserted, err := l.repo.InsertQuestionIfAbsent(ctx, q)
		if err != nil {
			return loaded, err
		}
		if inserted {
			loaded++
		}
	}

	log.Printf("Question bank %s: %d questions loaded, %d already present",
		l.path, loaded, len(bank.Questions)-loaded)

	return loaded, nil
}

func (bq *bankQuestion) toQuestion(displayOrder int) (*Question, error) {
	if bq.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if bq.Text == "" {
		return nil, fmt.Errorf("missing text")
	}

	category, ok := ValidCategory(bq.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", bq.Category)
	}

	scale := ResponseScale(bq.Scale)
	switch scale {
	case ScaleLikert5, ScaleAgreement5, ScaleBinary, ScaleFrequency5, ScaleFreeText:
	default:
		return nil, fmt.Errorf("unknown scale %q", bq.Scale)
	}

	var severity *Severity
	if bq.Severity != nil {
		s := Severity(*bq.Severity)
		switch s {
		case SeverityCritical, SeverityHigh, SeverityModerate, SeverityLow:
			severity = &s
		default:
			return nil, fmt.Errorf("unknown severity %q", *bq.Severity)
		}
	}

	if bq.Flag != nil {
		if _, ok := FlagByName(*bq.Flag); !ok {
			return nil, fmt.Errorf("unknown dealbreaker flag %q", *bq.Flag)
		}
	}

	return &Question{
		ExternalID:   bq.ID,
		Text:         bq.Text,
		Category:     category,
		Scale:        scale,
		Subcategory:  bq.Subcategory,
		Domain:       bq.Domain,
		Keyed:        bq.Keyed,
		Dimension:    bq.Dimension,
		Severity:     severity,
		RedFlagValue: bq.RedFlagValue,
		FlagName:     bq.Flag,
		DisplayOrder: displayOrder,
		Active:       true,
	}, nil
}
