package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// logrusLogger wraps logrus.Logger for human-readable CLI output
type logrusLogger struct {
	logger *logrus.Logger
	fields logrus.Fields
	output *logOutput
}

// logOutput is shared by a logger and every logger derived from it
type logOutput struct {
	mu   sync.Mutex
	file *os.File
}

func (o *logOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.file == nil {
		return nil
	}
	err := o.file.Close()
	o.file = nil
	return err
}

// NewLogrusLogger creates a text logger backed by logrus
func NewLogrusLogger(config *Config) (Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := config.Level
	if level == "" {
		level = InfoLevel
	}
	parsed, err := logrus.ParseLevel(string(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	l.SetLevel(parsed)

	out, file, err := openOutput(config.outputPath())
	if err != nil {
		return nil, err
	}
	l.SetOutput(out)

	return &logrusLogger{logger: l, fields: logrus.Fields{}, output: &logOutput{file: file}}, nil
}

// openOutput returns the writer for path and, for log files, the file to
// close on shutdown
func openOutput(path string) (io.Writer, *os.File, error) {
	switch path {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, f, nil
}

// Close closes the log file, if any. Later writes are dropped by logrus.
func (l *logrusLogger) Close() error {
	return l.output.Close()
}

func (l *logrusLogger) entry(fields map[string]interface{}) *logrus.Entry {
	return l.logger.WithFields(l.fields).WithFields(fields)
}

func (l *logrusLogger) LogInfo(msg string, fields map[string]interface{}) {
	l.entry(fields).Info(msg)
}

func (l *logrusLogger) LogError(err error, msg string, fields ...map[string]interface{}) error {
	var extra map[string]interface{}
	if len(fields) > 0 {
		extra = fields[0]
	}
	l.entry(extra).WithError(err).Error(msg)
	return err
}

func (l *logrusLogger) LogErrorf(err error, format string, args ...interface{}) error {
	l.entry(nil).WithError(err).Errorf(format, args...)
	return err
}

func (l *logrusLogger) LogFatal(err error, context string) {
	l.entry(nil).WithError(err).Fatal(context)
}

func (l *logrusLogger) LogDebug(message string, fields map[string]interface{}) {
	l.entry(fields).Debug(message)
}

func (l *logrusLogger) LogWarn(message string, fields map[string]interface{}) {
	l.entry(fields).Warn(message)
}

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{
		logger: l.logger,
		fields: logrus.Fields(mergeFields(l.fields, fields)),
		output: l.output,
	}
}

func (l *logrusLogger) WithRequestID(requestID string) Logger {
	return l.WithFields(map[string]interface{}{
		"requestID": requestID,
	})
}
