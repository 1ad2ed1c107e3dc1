package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ai-studybot-be/internal/config"
	"ai-studybot-be/pkg/classifier"
	"ai-studybot-be/pkg/llm/factory"
	"ai-studybot-be/pkg/requestlog"

	"github.com/fatih/color"
)

// Interactive classifier console. Paste a link to file it, ask for a
// report to read the log back, "exit" to quit.
func main() {
	cfg := config.Load()

	llmCfg := factory.Config{
		Provider:     cfg.Ai.LLMProvider,
		Model:        cfg.Ai.LLMModel,
		ClientID:     cfg.Ai.GigaChatClientID,
		ClientSecret: cfg.Ai.GigaChatClientSecret,
	}
	if cfg.Ai.LLMProvider == "ollama" {
		llmCfg.BaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(llmCfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	logger := log.New(os.Stderr, "[CLASSIFY] ", log.LstdFlags)
	store := requestlog.NewStore(cfg.App.RequestLogPath)
	clf := classifier.NewClassifier(llmProvider, store, logger)
	reporter := classifier.NewReporter(llmProvider, store, logger)

	color.Cyan("Study material classifier (%s)", cfg.Ai.LLMProvider)
	color.Cyan("Paste a link to classify it, or ask for a report (e.g. \"report on Physics for the week\"). Type \"exit\" to quit.\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		handle(ctx, clf, reporter, input)
		cancel()
	}
}

func handle(ctx context.Context, clf *classifier.Classifier, reporter *classifier.Reporter, input string) {
	switch classifier.DetectIntent(input) {
	case classifier.IntentClassify:
		record, total, err := clf.Classify(ctx, input)
		if err != nil {
			color.Red("Classification failed: %v", err)
			return
		}
		color.Green("Saved under %s (total: %d)", record.Subject, total)
		if record.RawLabel != "" {
			color.Yellow("Model label %q was outside the taxonomy", record.RawLabel)
		}

	case classifier.IntentReport:
		summary, _, err := reporter.Report(ctx, input)
		if err != nil {
			color.Red("Report failed: %v", err)
			return
		}
		fmt.Println(summary)

	default:
		color.Yellow("Paste a link to classify it, or ask for a report over your saved materials.")
	}
}
