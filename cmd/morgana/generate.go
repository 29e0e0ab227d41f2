package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/repository/corpus"
	"github.com/raglab/morgana/internal/repository/taxonomy"
	openaiTransport "github.com/raglab/morgana/internal/transport/openai"
	"github.com/raglab/morgana/internal/usecase/generate"
	"github.com/raglab/morgana/internal/usecase/sampler"
)

func buildGenerateCmd() *cobra.Command {
	var inputPath, outputPath string
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize a QA benchmark from a corpus file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, inputPath, outputPath, seed)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "documents.json", "Corpus JSON file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "benchmark_dataset.json", "Benchmark output file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed the category sampler for reproducible runs (0 = random)")
	return cmd
}

func runGenerate(cmd *cobra.Command, inputPath, outputPath string, seed int64) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	gencfg := a.cfg.Generation

	docs, err := corpus.LoadDocuments(inputPath)
	if err != nil {
		return err
	}

	tax := taxonomy.Load(gencfg.TaxonomyPath, a.logger)

	chat := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:  gencfg.APIKey,
		BaseURL: gencfg.BaseURL,
		Model:   gencfg.Model,
		Logger:  a.logger,
	})
	gateway := generate.NewGateway(chat, generate.GatewayConfig{
		Model:      gencfg.Model,
		MaxRetries: gencfg.MaxRetries,
		RetryDelay: gencfg.RetryDelay(),
		CallDelay:  gencfg.APICallDelay(),
		Logger:     a.logger,
	})

	smp := sampler.New()
	if seed != 0 {
		smp = sampler.NewWithSource(sampler.NewSeededSource(seed))
	}

	svc := generate.New(gateway, smp, tax, generate.Config{
		QuestionsPerDoc:   gencfg.QuestionsPerDoc,
		CandidatesPerCall: gencfg.CandidatesPerCall,
		RetryEmptySlot:    gencfg.RetryEmptySlot,
		MaxWorkers:        gencfg.MaxWorkers,
	}, a.logger).WithProgress(func(done, total int) {
		a.reporter.Ratio(done, total, "processing documents (%d/%d)", done, total)
	})

	a.reporter.Report(0, "starting benchmark generation for %d documents", len(docs))
	results := svc.GenerateBenchmark(cmd.Context(), docs)

	if err := corpus.SaveDocuments(outputPath, results); err != nil {
		return fmt.Errorf("save benchmark: %w", err)
	}

	pairs := 0
	for _, doc := range results {
		pairs += len(doc.GeneratedQA)
	}
	a.logger.Info("benchmark saved",
		zap.String("path", outputPath),
		zap.Int("documents", len(results)),
		zap.Int("qa_pairs", pairs),
	)
	a.reporter.Report(100, "benchmark dataset complete (%d QA pairs)", pairs)
	return nil
}
