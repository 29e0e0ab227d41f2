// Package main provides the morgana CLI, a RAG benchmark pipeline:
//
//	morgana generate   synthesize QA pairs from a corpus
//	morgana ingest     embed the corpus into the vector index
//	morgana ask        answer benchmark queries with retrieval
//	morgana evaluate   LLM-judge a results file
//
// Configuration is loaded from config/<ENV>.yaml (ENV defaults to
// local). Each stage emits PROGRESS:<pct>:<msg> lines on stdout for
// the orchestrating UI; logs go to stderr.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
