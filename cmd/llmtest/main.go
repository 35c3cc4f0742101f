// Command llmtest exercises the configured LLM providers with a sample
// symptom utterance. Useful for verifying API keys and model access before
// deploying.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"

	"github.com/saylanihealth/sehat-ai/cmd/mainconfig"
	appconfig "github.com/saylanihealth/sehat-ai/internal/config"
	"github.com/saylanihealth/sehat-ai/internal/triage"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

const sampleUtterance = "2 ghante se seene mein bohot tez dard hai, dard 8/10 hai"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New("debug")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Println("LLM Provider Test")
	fmt.Println("=================")

	var bedrock, gemini triage.LLMClient

	if cfg.BedrockModelID != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			fmt.Printf("[bedrock] FAIL: load aws config: %v\n", err)
		} else {
			bedrock = triage.PinModel(
				triage.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)),
				cfg.BedrockModelID,
			)
			runExtraction(ctx, "bedrock", bedrock, logger)
		}
	} else {
		fmt.Println("[bedrock] skipped (BEDROCK_MODEL_ID not set)")
	}

	if cfg.GeminiAPIKey != "" {
		client, err := triage.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			fmt.Printf("[gemini] FAIL: create client: %v\n", err)
		} else {
			gemini = client
			runExtraction(ctx, "gemini", gemini, logger)
		}
	} else {
		fmt.Println("[gemini] skipped (GEMINI_API_KEY not set)")
	}

	if bedrock != nil && gemini != nil {
		chain := triage.NewFallbackLLMClient(bedrock, gemini, logger.Logger)
		runExtraction(ctx, "fallback chain", chain, logger)
	}
}

// runExtraction drives the provider through the same path the conversation
// engine uses, so a passing run here means extraction will work in the bot.
func runExtraction(ctx context.Context, name string, client triage.LLMClient, logger *logging.Logger) {
	extractor := triage.NewFieldExtractor(client, logger, nil)

	start := time.Now()
	fields := extractor.Extract(ctx, sampleUtterance)
	elapsed := time.Since(start).Round(time.Millisecond)

	if fields.Duration == "" && fields.Severity == "" && fields.SeverityScale == 0 {
		fmt.Printf("[%s] FAIL (%v): no fields extracted from %q\n", name, elapsed, sampleUtterance)
		return
	}
	fmt.Printf("[%s] OK (%v): duration=%q severity=%q scale=%d symptoms=%v\n",
		name, elapsed, fields.Duration, fields.Severity, fields.SeverityScale, fields.AdditionalSymptoms)
}
