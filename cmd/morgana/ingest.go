package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/repository/corpus"
	vectorrepo "github.com/raglab/morgana/internal/repository/vector"
	openaiTransport "github.com/raglab/morgana/internal/transport/openai"
	"github.com/raglab/morgana/internal/usecase/ingest"
)

func buildIngestCmd() *cobra.Command {
	var inputPath string
	var workers int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Embed the corpus and rebuild the vector index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngest(cmd, inputPath, workers)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "documents.json", "Corpus JSON file")
	cmd.Flags().IntVar(&workers, "workers", 0, "Embedding workers (0 = config default)")
	return cmd
}

func runIngest(cmd *cobra.Command, inputPath string, workers int) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.reporter.Report(0, "loading corpus")
	docs, err := corpus.LoadDocuments(inputPath)
	if err != nil {
		return err
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

	if workers <= 0 {
		workers = a.cfg.Retrieval.MaxWorkers
	}
	svc := ingest.New(embedder, repo, workers, a.logger).
		WithProgress(func(done, total int) {
			a.reporter.Ratio(done, total, "indexing documents (%d/%d)", done, total)
		})

	indexed, err := svc.Run(cmd.Context(), docs)
	if err != nil {
		return err
	}

	a.logger.Info("ingestion complete",
		zap.Int("chunks_indexed", indexed),
		zap.String("collection", a.cfg.Index.Collection),
	)
	a.reporter.Report(100, "indexed %d chunks", indexed)
	return nil
}
