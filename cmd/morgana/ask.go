package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/repository/corpus"
	vectorrepo "github.com/raglab/morgana/internal/repository/vector"
	openaiTransport "github.com/raglab/morgana/internal/transport/openai"
	"github.com/raglab/morgana/internal/usecase/ask"
	"github.com/raglab/morgana/internal/usecase/generate"
)

func buildAskCmd() *cobra.Command {
	var inputPath, outputPath string

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer benchmark queries with retrieval-augmented generation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAsk(cmd, inputPath, outputPath)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "benchmark_dataset.json", "Benchmark JSON file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "rag_results.json", "Results output file")
	return cmd
}

func runAsk(cmd *cobra.Command, inputPath, outputPath string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.reporter.Report(0, "loading benchmark queries")
	queries, err := corpus.LoadQueries(inputPath)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("benchmark %s holds no generated QA pairs", inputPath)
	}

	store, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	repo := vectorrepo.New(store, vectorrepo.Config{
		KeyPrefix:       a.cfg.Index.KeyPrefix,
		Collection:      a.cfg.Index.Collection,
		Dimensions:      a.cfg.Embedding.Dimensions,
		Metric:          a.cfg.Index.Metric,
		HNSWM:           a.cfg.Index.HNSWM,
		HNSWEFConstruct: a.cfg.Index.HNSWEFConstruct,
	})

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     a.cfg.Embedding.APIKey,
		BaseURL:    a.cfg.Embedding.BaseURL,
		Model:      a.cfg.Embedding.Model,
		Dimensions: a.cfg.Embedding.Dimensions,
		Logger:     a.logger,
	})

	chat := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:  a.cfg.Generation.APIKey,
		BaseURL: a.cfg.Generation.BaseURL,
		Model:   a.cfg.Retrieval.Model,
		Logger:  a.logger,
	})
	gateway := generate.NewGateway(chat, generate.GatewayConfig{
		Model:      a.cfg.Retrieval.Model,
		MaxRetries: a.cfg.Generation.MaxRetries,
		RetryDelay: a.cfg.Generation.RetryDelay(),
		CallDelay:  a.cfg.Generation.APICallDelay(),
		Logger:     a.logger,
	})

	svc := ask.New(gateway, embedder, repo, a.cfg.Retrieval.TopK, a.cfg.Retrieval.MaxWorkers, a.logger).
		WithProgress(func(done, total int) {
			a.reporter.Ratio(done, total, "answering queries (%d/%d)", done, total)
		})

	rs := svc.Run(cmd.Context(), queries)

	if err := corpus.SaveResults(outputPath, rs); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	a.logger.Info("retrieval run saved",
		zap.String("path", outputPath),
		zap.Int("results", len(rs.Results)),
	)
	a.reporter.Report(100, "answered %d of %d queries", len(rs.Results), len(queries))
	return nil
}
