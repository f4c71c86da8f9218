package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/appointment-assistant/cmd/mainconfig"
	"github.com/wolfman30/appointment-assistant/internal/app/bootstrap"
	"github.com/wolfman30/appointment-assistant/internal/appointment"
	appconfig "github.com/wolfman30/appointment-assistant/internal/config"
	"github.com/wolfman30/appointment-assistant/internal/llm"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

const sampleSummary = `Thank you for providing all the necessary details. Here is the summary of your appointment:
- Full Name: John Carter
- Department: Cardiology
- Preferred Doctor: Dr. Mehta
- Date: 12/05/2024
- Time: 10:30 am
- Email: john.carter@example.com
- Mobile number: 9876543210

Do you want to confirm this appointment?`

func main() {
	input := flag.String("input", "Hi, I'd like to book a cardiology appointment.", "patient message to send")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}

	client, closers := bootstrap.BuildCompletionClient(ctx, cfg, awsCfg, logger)
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()

	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Printf("Completion provider test (%s", cfg.LLMProvider)
	if cfg.LLMFallbackProvider != "" {
		fmt.Printf(" -> %s", cfg.LLMFallbackProvider)
	}
	fmt.Println(")")
	fmt.Println(rule)

	fmt.Println("\n[1] Chat reply")
	start := time.Now()
	resp, err := client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: appointment.SystemPrompt},
			{Role: llm.RoleUser, Content: *input},
		},
		Temperature: cfg.LLMTemperature,
	})
	if err != nil {
		fmt.Printf("    ❌ chat error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("    ✅ reply (%v):\n    %s\n", time.Since(start).Round(time.Millisecond), resp.Text)
	fmt.Printf("    Tokens: in=%d, out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)

	fmt.Println("\n[2] Summary extraction")
	extractor := appointment.NewExtractor(client, appointment.NewClassifier(cfg.ExtraDepartments...), "", logger)
	fields := appointment.Fields{}
	res := extractor.Extract(ctx, appointment.FromSummary(sampleSummary), fields)
	if res.Fallback {
		fmt.Printf("    ⚠️ model extraction failed (%v); local parser used\n", res.Err)
	}
	for _, key := range appointment.FieldKeys {
		fmt.Printf("    %-10s %s\n", key+":", fields.Get(key))
	}
}
