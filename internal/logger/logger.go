package logger

import (
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelSuccess LogLevel = "SUCCESS"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelDebug   LogLevel = "DEBUG"
	LevelNotice  LogLevel = "NOTICE"
)

var (
	errorLogger  *stdlog.Logger
	errorLogFile *os.File
	mu           sync.Mutex
)

// OpenErrorLog mirrors warnings and errors into the file at path.
func OpenErrorLog(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open error log %s: %w", path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if errorLogFile != nil {
		errorLogFile.Close()
	}
	errorLogFile = file
	errorLogger = stdlog.New(file, "", 0)
	return nil
}

// CloseLogFile should be called during shutdown to properly close the error log
func CloseLogFile() {
	mu.Lock()
	defer mu.Unlock()
	if errorLogFile != nil {
		errorLogFile.Close()
		errorLogFile = nil
		errorLogger = nil
	}
}

var colorMap = map[string]func(a ...interface{}) string{
	string(LevelInfo):    color.New(color.FgBlue).SprintFunc(),
	string(LevelSuccess): color.New(color.FgGreen).SprintFunc(),
	string(LevelWarning): color.New(color.FgYellow).SprintFunc(),
	string(LevelError):   color.New(color.FgRed).SprintFunc(),
	string(LevelDebug):   color.New(color.FgCyan).SprintFunc(),
	string(LevelNotice):  color.New(color.FgMagenta).SprintFunc(),

	"green": color.New(color.FgGreen).SprintFunc(),
	"white": color.New(color.FgWhite).SprintFunc(),
	"blue":  color.New(color.FgBlue).SprintFunc(),
}

func GetColorFunc(colorName string) func(a ...interface{}) string {
	if fn, ok := colorMap[colorName]; ok {
		return fn
	}
	return colorMap["white"]
}

func logMessage(level LogLevel, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	colorFunc := GetColorFunc(string(level))
	fmt.Println(colorFunc(fmt.Sprintf("[%s] ", level)) + message)

	// Only errors and warnings go to the error log
	if level == LevelError || level == LevelWarning {
		mu.Lock()
		if errorLogger != nil {
			errorLogger.Printf("[%s] %s: %s", level, timestamp, message)
		}
		mu.Unlock()
	}
}

func Infof(format string, args ...interface{}) {
	logMessage(LevelInfo, format, args...)
}

func Successf(format string, args ...interface{}) {
	logMessage(LevelSuccess, format, args...)
}

func Warnf(format string, args ...interface{}) {
	logMessage(LevelWarning, format, args...)
}

func Errorf(format string, args ...interface{}) {
	logMessage(LevelError, format, args...)
}

func Debugf(format string, args ...interface{}) {
	logMessage(LevelDebug, format, args...)
}

func Noticef(format string, args ...interface{}) {
	logMessage(LevelNotice, format, args...)
}

func Whitef(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Println(GetColorFunc("white")("[WHITE] ") + message)
}

func Bluef(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Println(GetColorFunc("blue")("[MOTD] ") + message)
}

func ChanMsgf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Println(GetColorFunc("green")("[CHAN] ") + message)
}
