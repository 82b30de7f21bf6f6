package batch

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// batchLog is the append-only run log (batch_transcribe.log by default):
// one `[YYYY-MM-DD HH:MM:SS] message` line per lifecycle event. Safe for
// concurrent workers.
type batchLog struct {
	mu sync.Mutex
	f  *os.File
}

func openBatchLog(path string) (*batchLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open batch log %s: %w", path, err)
	}
	return &batchLog{f: f}, nil
}

func (l *batchLog) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.f, "[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))
}

func (l *batchLog) Close() error {
	return l.f.Close()
}
