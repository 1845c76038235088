package common

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	crashDir   = "./results"
	crashDirMu sync.RWMutex
)

// SetCrashDir sets the directory crash reports are written to. The CLI points it at the
// results directory of the current run.
func SetCrashDir(dir string) {
	if dir == "" {
		return
	}
	crashDirMu.Lock()
	defer crashDirMu.Unlock()
	crashDir = dir
}

// CrashDir returns the directory crash reports are written to.
func CrashDir() string {
	crashDirMu.RLock()
	defer crashDirMu.RUnlock()
	return crashDir
}

// WriteCrashFile writes a crash report for panicVal into CrashDir and returns its path.
// If the file cannot be written the report goes to stderr and the path is empty.
func WriteCrashFile(panicVal any, stackTrace string) string {
	now := time.Now()
	dir := CrashDir()
	crashPath := filepath.Join(dir, fmt.Sprintf("crash-%s.log", now.Format("2006-01-02T15-04-05")))

	var report bytes.Buffer
	report.WriteString("=== TODO-E2E CRASH REPORT ===\n")
	fmt.Fprintf(&report, "Time: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&report, "Version: %s\n\n", GetFullVersion())

	report.WriteString("=== PANIC VALUE ===\n")
	fmt.Fprintf(&report, "%v\n\n", panicVal)

	report.WriteString("=== STACK TRACE ===\n")
	report.WriteString(stackTrace)
	report.WriteString("\n")

	report.WriteString("=== ALL GOROUTINES ===\n")
	report.WriteString(allGoroutineStacks())
	report.WriteString("\n")

	report.WriteString("=== SYSTEM INFO ===\n")
	fmt.Fprintf(&report, "NumGoroutine: %d\n", runtime.NumGoroutine())
	fmt.Fprintf(&report, "GOOS: %s\n", runtime.GOOS)
	fmt.Fprintf(&report, "GOARCH: %s\n", runtime.GOARCH)
	report.WriteString("=== END CRASH REPORT ===\n")

	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: Failed to create crash directory: %v\n%s", err, report.String())
		return ""
	}
	// Written unbuffered and synced; the process exits right after
	file, err := os.OpenFile(crashPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: Failed to create crash file: %v\n%s", err, report.String())
		return ""
	}
	if _, err := file.Write(report.Bytes()); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: Failed to write crash file: %v\n%s", err, report.String())
	}
	file.Sync()
	file.Close()

	fmt.Fprintf(os.Stderr, "\n!!! FATAL CRASH - Report saved to: %s !!!\nPanic: %v\n", crashPath, panicVal)
	return crashPath
}

// allGoroutineStacks returns the stacks of every goroutine, growing the buffer up to 64MB.
func allGoroutineStacks() string {
	buf := make([]byte, 64*1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) || len(buf) >= 64*1024*1024 {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}

// RecoverWithCrashFile recovers a panic, writes a crash report and exits with status 1.
// Usage: defer common.RecoverWithCrashFile()
func RecoverWithCrashFile() {
	if r := recover(); r != nil {
		buf := make([]byte, 8192)
		n := runtime.Stack(buf, false)
		WriteCrashFile(r, string(buf[:n]))
		os.Exit(1)
	}
}
