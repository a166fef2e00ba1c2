package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/logger"
	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/problem"
)

// TraceEntry is one evaluation of one run.
// Each entry is serialized as a JSON line in trace.jsonl.
type TraceEntry struct {
	logger.Key
	Run        int     `json:"run"`
	Evaluation int     `json:"evaluation"`
	RawY       float64 `json:"rawY"`
	Y          float64 `json:"y"`
	BestY      float64 `json:"bestY"`
}

// TraceWriter writes the evaluation stream of an experiment to a JSONL
// file. It implements suite.Observer, numbering runs per problem instance
// in the order they are tracked.
//
// It uses buffered I/O for performance and is safe for concurrent use.
type TraceWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string

	key      logger.Key
	run      int
	runs     map[logger.Key]int
	tracking bool
}

// NewTraceWriter creates a new trace writer for the given experiment.
// The trace file is created at <baseDir>/experiments/<id>/trace.jsonl.
// If append is true, new entries are appended to existing file.
func NewTraceWriter(baseDir, id string, append bool) (*TraceWriter, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	dir := experimentDir(baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create experiment directory: %w", err)
	}

	path := filepath.Join(dir, "trace.jsonl")

	var file *os.File
	var err error
	if append {
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	} else {
		file, err = os.Create(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	return &TraceWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, 64*1024), // 64KB buffer
		path:   path,
		runs:   make(map[logger.Key]int),
	}, nil
}

// TrackSuite implements suite.Observer. The trace covers whatever problems
// are tracked afterwards.
func (tw *TraceWriter) TrackSuite(problem.SuiteInfo) error {
	return nil
}

// TrackProblem starts a new run of the problem.
func (tw *TraceWriter) TrackProblem(meta problem.Metadata) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	tw.key = logger.Key{ProblemID: meta.ID, Instance: meta.Instance, Dimension: meta.Dimension}
	tw.run = tw.runs[tw.key]
	tw.runs[tw.key]++
	tw.tracking = true
	return nil
}

// Log appends one entry. Entries are buffered and reach the file on
// Flush or Close.
func (tw *TraceWriter) Log(rec problem.EvaluationRecord) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.tracking {
		return &logger.NotTrackingError{Op: "Log"}
	}
	return tw.write(TraceEntry{
		Key:        tw.key,
		Run:        tw.run,
		Evaluation: rec.Evaluation,
		RawY:       rec.RawY,
		Y:          rec.TransformedY,
		BestY:      rec.BestTransformedY,
	})
}

// Write appends a trace entry to the file.
func (tw *TraceWriter) Write(entry TraceEntry) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.write(entry)
}

func (tw *TraceWriter) write(entry TraceEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal trace entry: %w", err)
	}
	if _, err := tw.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write trace entry: %w", err)
	}
	if err := tw.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// Flush writes any buffered data to the file.
func (tw *TraceWriter) Flush() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush trace writer: %w", err)
	}

	// Also sync to disk for durability
	if err := tw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync trace file: %w", err)
	}

	return nil
}

// Close flushes buffered data and closes the trace file.
func (tw *TraceWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err := tw.writer.Flush(); err != nil {
		tw.file.Close() // Try to close anyway
		return fmt.Errorf("failed to flush on close: %w", err)
	}

	if err := tw.file.Close(); err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}

	return nil
}

// Path returns the filesystem path to the trace file.
func (tw *TraceWriter) Path() string {
	return tw.path
}

// TraceReader reads trace entries from a JSONL file.
type TraceReader struct {
	file    *os.File
	scanner *bufio.Scanner
}

// NewTraceReader creates a new trace reader for the given experiment.
func NewTraceReader(baseDir, id string) (*TraceReader, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	path := filepath.Join(experimentDir(baseDir, id), "trace.jsonl")

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024) // 64KB initial, 1MB max

	return &TraceReader{
		file:    file,
		scanner: scanner,
	}, nil
}

// Read reads the next trace entry from the file.
// Returns io.EOF when no more entries are available.
func (tr *TraceReader) Read() (*TraceEntry, error) {
	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan trace line: %w", err)
		}
		return nil, io.EOF
	}

	var entry TraceEntry
	if err := json.Unmarshal(tr.scanner.Bytes(), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trace entry: %w", err)
	}

	return &entry, nil
}

// ReadAll reads all trace entries from the file.
func (tr *TraceReader) ReadAll() ([]TraceEntry, error) {
	var entries []TraceEntry

	for {
		entry, err := tr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

// Close closes the trace reader.
func (tr *TraceReader) Close() error {
	if err := tr.file.Close(); err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}
	return nil
}

// DeleteTrace removes the trace file for the given experiment.
// Returns nil if the file doesn't exist.
func DeleteTrace(baseDir, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	path := filepath.Join(experimentDir(baseDir, id), "trace.jsonl")

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete trace file: %w", err)
	}

	return nil
}
