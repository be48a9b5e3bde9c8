package recommend

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Request defaults when a field is absent from the request body.
const (
	DefaultInitialTopK = 50
	DefaultFinalTopK   = 16
)

// Categories and Tones are the two fixed enumerations exposed by the API.
var (
	Categories = []string{"All", "Fiction", "Nonfiction", "Children's Fiction", "Children's Nonfiction"}
	Tones      = []string{"All", "Happy", "Surprising", "Angry", "Suspenseful", "Sad"}
)

// toneColumns maps a tone to the emotion column used for ranking.
var toneColumns = map[string]string{
	"Happy":       "joy",
	"Surprising":  "surprise",
	"Angry":       "anger",
	"Suspenseful": "fear",
	"Sad":         "sadness",
}

type Request struct {
	Query       string `json:"query"`
	Category    string `json:"category"`
	Tone        string `json:"tone"`
	InitialTopK int    `json:"initial_top_k"`
	FinalTopK   int    `json:"final_top_k"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query for recommendations cannot be empty")
	}
	if !slices.Contains(Categories, r.Category) {
		return fmt.Errorf("invalid category %q, valid categories are: %s", r.Category, strings.Join(Categories, ", "))
	}
	if !slices.Contains(Tones, r.Tone) {
		return fmt.Errorf("invalid tone %q, valid tones are: %s", r.Tone, strings.Join(Tones, ", "))
	}
	if r.InitialTopK <= 0 {
		return errors.New("initial_top_k must be greater than 0")
	}
	if r.FinalTopK <= 0 {
		return errors.New("final_top_k must be greater than 0")
	}
	if r.FinalTopK > r.InitialTopK {
		return errors.New("final_top_k cannot be greater than initial_top_k")
	}
	return nil
}
