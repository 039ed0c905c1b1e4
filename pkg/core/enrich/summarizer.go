package enrich

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const summarizerSystemPrompt = `Du är en analytiker på en svensk företagsmäklarfirma. Du får registerdata om ett bolag och ska skriva en kort, saklig sammanfattning (max 5 meningar) av det som är relevant för en företagsvärdering: bransch, ålder, skattestatus och eventuella anmärkningar. Skriv på svenska. Spekulera inte om sådant som inte framgår av underlaget.`

// Summarizer condenses a registry snapshot into a narrative paragraph using
// Gemini directly, outside the role-routed agent manager.
type Summarizer struct {
	modelName string
	client    *genai.Client
}

func NewSummarizer(ctx context.Context) (*Summarizer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &Summarizer{
		modelName: "gemini-2.0-flash",
		client:    client,
	}, nil
}

func (s *Summarizer) Close() error {
	return s.client.Close()
}

// Summarize turns a snapshot into prose for the prompt's external-data
// section. Callers treat errors as "no enrichment", never as fatal.
func (s *Summarizer) Summarize(ctx context.Context, snap *CompanySnapshot) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(0.3)

	fullPrompt := fmt.Sprintf("%s\n\nRegisterdata:\n%s", summarizerSystemPrompt, snap.BriefText())

	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return "", fmt.Errorf("ENRICH_SUMMARY_ERROR: %v", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return snap.BriefText(), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return snap.BriefText(), nil
	}
	return out, nil
}
