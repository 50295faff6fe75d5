package main

// Manual prompt smoke test: extract one exam file, segment it, and run a
// single question through a real provider.
//
//   go run ./cmd/prompttest -exam exam.pdf -question 3 -language th

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"exam-backend/internal/analyses"
	"exam-backend/internal/extract"
	"exam-backend/internal/llm"
	"exam-backend/internal/llm/gemini"
	"exam-backend/internal/llm/groq"
	"exam-backend/internal/llm/openrouter"
	"exam-backend/internal/segment"
	"exam-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	examPath := flag.String("exam", "", "Path to exam file (pdf, docx or txt)")
	questionNum := flag.Int("question", 1, "1-based question number to analyze (0 lists all questions)")
	language := flag.String("language", cfg.DefaultLanguage, "Analysis language (th or en)")
	customPath := flag.String("custom-prompt", "", "Path to a custom system prompt file (optional)")
	outPath := flag.String("out", "", "Path to write the sanitized record JSON (optional)")
	provider := flag.String("provider", cfg.DefaultProvider, "LLM provider")
	model := flag.String("model", "", "LLM model (defaults per provider)")
	flag.Parse()

	if strings.TrimSpace(*examPath) == "" {
		exitErr("exam path is required")
	}

	mimeType, err := mimeFromExt(*examPath)
	if err != nil {
		exitErr(err.Error())
	}

	examBytes, err := os.ReadFile(*examPath)
	if err != nil {
		exitErr(fmt.Sprintf("read exam: %v", err))
	}

	text, err := extract.FromBytes(context.Background(), examBytes, mimeType, filepath.Base(*examPath))
	if err != nil {
		exitErr(fmt.Sprintf("extract exam text: %v", err))
	}

	units := segment.Split(text)
	if len(units) == 0 {
		exitErr("no questions detected; number questions like \"1.\", \"(1)\" or \"ข้อ 1\" at line starts")
	}

	if *questionNum == 0 {
		for i, u := range units {
			fmt.Printf("--- question %d (choices: %v) ---\n%s\n", i+1, u.HasChoices, u.Text)
		}
		return
	}
	if *questionNum < 1 || *questionNum > len(units) {
		exitErr(fmt.Sprintf("question %d out of range; document has %d questions", *questionNum, len(units)))
	}
	unit := units[*questionNum-1]

	customInstruction := ""
	if strings.TrimSpace(*customPath) != "" {
		data, err := os.ReadFile(*customPath)
		if err != nil {
			exitErr(fmt.Sprintf("read custom prompt: %v", err))
		}
		customInstruction = string(data)
	}

	client, err := buildClient(cfg, *provider, *model)
	if err != nil {
		exitErr(err.Error())
	}

	system, user := llm.BuildAnalysisPrompt(unit.Text, *questionNum, llm.PromptOptions{
		CustomInstruction: customInstruction,
		Language:          *language,
	})

	raw, err := client.Generate(context.Background(), llm.Request{
		System:       system,
		User:         user,
		ForceJSON:    true,
		RecordSchema: customInstruction == "",
		Temperature:  0.2,
		MaxTokens:    4096,
	})
	if err != nil {
		exitErr(fmt.Sprintf("llm generate: %v", err))
	}

	obj, err := llm.ExtractObject(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "no JSON object in response; raw output follows")
		fmt.Println(raw)
		os.Exit(1)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		exitErr(fmt.Sprintf("invalid json: %v", err))
	}
	record := analyses.Sanitize(fields, *language)

	pretty, err := prettyJSON(record)
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(pretty) == 0 || pretty[len(pretty)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

func buildClient(cfg config.Config, provider, model string) (llm.Client, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if name == "" {
		name = config.ProviderGemini
	}
	if strings.TrimSpace(model) == "" {
		model = cfg.ModelFor(name)
	}
	switch name {
	case config.ProviderGemini:
		return gemini.NewClient(cfg.GeminiAPIKey, model)
	case config.ProviderGroq:
		return groq.NewClient(cfg.GroqAPIKey, model)
	case config.ProviderOpenRouter:
		return openrouter.NewClient(cfg.OpenRouterAPIKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func mimeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf", nil
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil
	case ".txt":
		return "text/plain", nil
	default:
		return "", fmt.Errorf("unsupported exam file type: %s", filepath.Ext(path))
	}
}

func prettyJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
