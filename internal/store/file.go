package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileQueryLog appends query records to a JSON lines file.
type FileQueryLog struct {
	mu   sync.Mutex
	path string
}

func NewFileQueryLog(path string) *FileQueryLog {
	return &FileQueryLog{path: path}
}

func (f *FileQueryLog) Record(_ context.Context, rec QueryRecord) error {
	if rec.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open query log: %w", err)
	}
	if _, err := fh.Write(b); err != nil {
		fh.Close()
		return fmt.Errorf("write query log: %w", err)
	}
	return fh.Close()
}
