// Package corpus reads and writes the flat JSON files the pipeline
// stages exchange: the chunk corpus, the generated benchmark, the
// retrieval results, and the evaluation report.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raglab/morgana/internal/domain"
)

// LoadDocuments reads a corpus file: a JSON array of {id, content}
// records, content being a string or an array of strings.
func LoadDocuments(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorpusNotFound, path, err)
	}

	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}

	for i, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("corpus %s: record %d has no id", path, i)
		}
	}

	return docs, nil
}

// SaveDocuments writes the (augmented) corpus as indented JSON. The
// write is atomic: a temp file in the target directory is renamed over
// the destination, so a crash never leaves a truncated benchmark.
func SaveDocuments(path string, docs []domain.Document) error {
	return writeJSON(path, docs)
}

// LoadQueries flattens the generated_qa_pairs of a benchmark file into
// the query list the retrieval stage executes.
func LoadQueries(path string) ([]domain.QAPair, error) {
	docs, err := LoadDocuments(path)
	if err != nil {
		return nil, err
	}

	var queries []domain.QAPair
	for _, doc := range docs {
		queries = append(queries, doc.GeneratedQA...)
	}

	return queries, nil
}

// LoadResults reads a retrieval results file.
func LoadResults(path string) (domain.ResultSet, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return domain.ResultSet{}, fmt.Errorf("read results %s: %w", path, err)
	}

	var rs domain.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return domain.ResultSet{}, fmt.Errorf("parse results %s: %w", path, err)
	}
	return rs, nil
}

// SaveResults writes a retrieval results file.
func SaveResults(path string, rs domain.ResultSet) error {
	return writeJSON(path, rs)
}

// SaveEvaluation writes the evaluation report.
func SaveEvaluation(path string, ev domain.Evaluation) error {
	return writeJSON(path, ev)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".morgana-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
