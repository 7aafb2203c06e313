package logger

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLoggerService struct {
	logger *zap.Logger
	fields map[string]interface{}
}

// NewLogger creates a new Logger instance. The text format is served by
// logrus, everything else by zap.
func NewLogger(config *Config) (Logger, error) {
	if config.Format == FormatText {
		return NewLogrusLogger(config)
	}

	var zapConfig zap.Config
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level := config.Level
	if level == "" {
		level = InfoLevel
	}
	zapLevel, err := zapcore.ParseLevel(string(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if config.Format != "" {
		zapConfig.Encoding = config.Format
	}
	zapConfig.OutputPaths = []string{config.outputPath()}

	zapLogger, err := zapConfig.Build(
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &zapLoggerService{
		logger: zapLogger,
		fields: make(map[string]interface{}),
	}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLoggerService{logger: zap.NewNop(), fields: map[string]interface{}{}}
}

func (l *zapLoggerService) LogInfo(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, l.convertFields(fields)...)
}

func (l *zapLoggerService) LogError(err error, msg string, fields ...map[string]interface{}) error {
	if err != nil {
		var extra map[string]interface{}
		if len(fields) > 0 {
			extra = fields[0]
		}
		l.logger.Error(msg, append(l.convertFields(extra), zap.Error(err))...)
	}
	return err
}

func (l *zapLoggerService) LogErrorf(err error, format string, args ...interface{}) error {
	if err != nil {
		l.logger.Error(fmt.Sprintf(format, args...), append(l.convertFields(nil), zap.Error(err))...)
	}
	return err
}

func (l *zapLoggerService) LogFatal(err error, context string) {
	l.logger.Fatal(context, append(l.convertFields(nil), zap.Error(err))...)
}

func (l *zapLoggerService) LogDebug(message string, fields map[string]interface{}) {
	l.logger.Debug(message, l.convertFields(fields)...)
}

func (l *zapLoggerService) LogWarn(message string, fields map[string]interface{}) {
	l.logger.Warn(message, l.convertFields(fields)...)
}

func (l *zapLoggerService) WithFields(fields map[string]interface{}) Logger {
	return &zapLoggerService{
		logger: l.logger,
		fields: mergeFields(l.fields, fields),
	}
}

func (l *zapLoggerService) WithRequestID(requestID string) Logger {
	return l.WithFields(map[string]interface{}{
		"requestID": requestID,
	})
}

func (l *zapLoggerService) convertFields(fields map[string]interface{}) []zap.Field {
	zapFields := make([]zap.Field, 0, len(l.fields)+len(fields))
	for k, v := range l.fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

// Close flushes zap's buffers
func (l *zapLoggerService) Close() error {
	// syncing a console descriptor fails on some platforms; nothing was lost
	_ = l.logger.Sync()
	return nil
}

// Close releases the output held by l. Loggers without an output to
// release are left alone.
func Close(l Logger) error {
	if c, ok := l.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
