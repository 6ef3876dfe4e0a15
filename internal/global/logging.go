package global

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
)

const (
	mb = 1000000
	kb = 1000

	DEFAULT_MAX_LOG_SIZE = 2.5 * mb
	DEFAULT_MAX_LOGS     = 2
)

// rollingFileWriter appends to <dir>/<name>.log until it reaches maxSize, then renames it to <name>-1.log,
// shifting older archives up by one and deleting the ones past maxLogs.
type rollingFileWriter struct {
	fileDirectory string
	fileName      string
	maxSize       int64
	maxLogs       int

	mu sync.Mutex
}

func NewRollingFileWriter(fileDir string, fileName string) (*rollingFileWriter, error) {
	absFileDir, err := filepath.Abs(fileDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(absFileDir, 0750); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}

	return &rollingFileWriter{
		fileDirectory: absFileDir,
		fileName:      fileName,
		maxSize:       DEFAULT_MAX_LOG_SIZE,
		maxLogs:       DEFAULT_MAX_LOGS,
	}, nil
}

func (w *rollingFileWriter) mainLog() string {
	return filepath.Join(w.fileDirectory, fmt.Sprintf("%s.log", w.fileName))
}

func (w *rollingFileWriter) indexedLog(fileName string, index int) string {
	return filepath.Join(w.fileDirectory, fmt.Sprintf("%s-%d.log", fileName, index))
}

// archives lists the archived logs of this writer, oldest last
func (w *rollingFileWriter) archives(prefix string) ([]string, error) {
	matches, err := fs.Glob(os.DirFS(w.fileDirectory), prefix+"-*.log")
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b string) int {
		return getLogIndex(prefix, a) - getLogIndex(prefix, b)
	})

	return lo.Map(matches, func(log string, _ int) string {
		return filepath.Join(w.fileDirectory, log)
	}), nil
}

func (w *rollingFileWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	stats, err := os.Stat(w.mainLog())
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}

	if err == nil && stats.Size() >= w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating logs: %w", err)
		}
	}

	mainLogFile, err := os.OpenFile(w.mainLog(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}
	defer mainLogFile.Close()

	return mainLogFile.Write(b)
}

func (w *rollingFileWriter) rotate() error {
	logs, err := w.archives(w.fileName)
	if err != nil {
		return err
	}

	// the main log becomes archive 1, so only maxLogs-2 old archives survive next to it and the new main log
	keep := max(w.maxLogs-2, 0)
	for _, log := range logs {
		index := getLogIndex(w.fileName, log)
		if index < 0 || keep == 0 {
			if err := os.Remove(log); err != nil {
				return err
			}
			continue
		}
		keep--

		// renamed through a mod- prefix so name-1 moving to name-2 never overwrites the old name-2
		if err := os.Rename(log, w.indexedLog("mod-"+w.fileName, index+1)); err != nil {
			return err
		}
	}

	modLogs, err := w.archives("mod-" + w.fileName)
	if err != nil {
		return err
	}
	for _, log := range modLogs {
		newFileName, _ := strings.CutPrefix(filepath.Base(log), "mod-")
		if err := os.Rename(log, filepath.Join(filepath.Dir(log), newFileName)); err != nil {
			return err
		}
	}

	if w.maxLogs < 2 {
		return os.Remove(w.mainLog())
	}

	return os.Rename(w.mainLog(), w.indexedLog(w.fileName, 1))
}

// getLogIndex returns -1 for files that do not follow the <name>-<n>.log pattern
func getLogIndex(baseFileName string, filePath string) int {
	fileName, _ := strings.CutSuffix(filepath.Base(filePath), ".log")
	indexStr, ok := strings.CutPrefix(fileName, baseFileName+"-")
	if !ok {
		return -1
	}

	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 1 {
		return -1
	}

	return index
}
