package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/domain"
	"github.com/raglab/morgana/internal/repository/corpus"
	openaiTransport "github.com/raglab/morgana/internal/transport/openai"
	"github.com/raglab/morgana/internal/usecase/evaluate"
	"github.com/raglab/morgana/internal/usecase/generate"
)

func buildEvaluateCmd() *cobra.Command {
	var inputPath, outputPath, group string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "LLM-judge a retrieval results file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, inputPath, outputPath, group)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "rag_results.json", "Results JSON file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "evaluation_results.json", "Evaluation output file")
	cmd.Flags().StringVar(&group, "metrics", string(domain.MetricsAll),
		"Metric group: all_metrics, retriever_metrics, or generator_metrics")
	return cmd
}

func runEvaluate(cmd *cobra.Command, inputPath, outputPath, group string) error {
	switch domain.MetricGroup(group) {
	case domain.MetricsAll, domain.MetricsRetriever, domain.MetricsGenerator:
	default:
		return fmt.Errorf("unknown metric group %q", group)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.reporter.Report(0, "loading results")
	rs, err := corpus.LoadResults(inputPath)
	if err != nil {
		return err
	}

	chat := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:  a.cfg.Generation.APIKey,
		BaseURL: a.cfg.Generation.BaseURL,
		Model:   a.cfg.Evaluation.Model,
		Logger:  a.logger,
	})
	gateway := generate.NewGateway(chat, generate.GatewayConfig{
		Model:      a.cfg.Evaluation.Model,
		MaxRetries: a.cfg.Generation.MaxRetries,
		RetryDelay: a.cfg.Generation.RetryDelay(),
		CallDelay:  a.cfg.Generation.APICallDelay(),
		Logger:     a.logger,
	})

	svc := evaluate.New(gateway, domain.MetricGroup(group), a.cfg.Evaluation.MaxWorkers, a.logger).
		WithProgress(func(done, total int) {
			a.reporter.Ratio(done, total, "judging results (%d/%d)", done, total)
		})

	eval := svc.Run(cmd.Context(), rs)

	if err := corpus.SaveEvaluation(outputPath, eval); err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}

	a.logger.Info("evaluation saved",
		zap.String("path", outputPath),
		zap.String("metric_group", group),
		zap.Int("results", len(eval.Results)),
	)
	a.reporter.Report(100, "evaluation complete (%d results judged)", len(eval.Results))
	return nil
}
