package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tokamak-network/dao-action-builder/logging/colors"
)

// GlobalLogger describes a Logger that is disabled by default and is replaced by the CLI once the project
// configuration is known. Each package should derive its own sub-logger from it when it needs to log.
var GlobalLogger = NewLogger(zerolog.Disabled, false)

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// contextField is a key-value pair attached to every event of a sub-logger.
type contextField struct {
	key   string
	value string
}

// Logger describes a custom logging object that can log events to any arbitrary channel and can handle specialized
// output to console as well
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// consoleEnabled describes whether colorized, unstructured output is sent to stderr.
	consoleEnabled bool

	// writers describes a list of io.Writer objects where log output will go, in addition to the console.
	writers []io.Writer

	// fields are the context key-value pairs inherited from NewSubLogger calls.
	fields []contextField

	// multiLogger outputs logs to every writer in either structured or unstructured format.
	multiLogger zerolog.Logger

	// consoleLogger outputs colorized, unstructured logs to console.
	consoleLogger zerolog.Logger
}

// NewLogger will create a new Logger object with a specific log level. The Logger can output to console, if enabled,
// and output logs to any number of arbitrary io.Writer channels
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	l := &Logger{
		level:          level,
		consoleEnabled: consoleEnabled,
		writers:        writers,
	}
	l.rebuild()
	return l
}

// rebuild recreates the underlying zerolog loggers from the current level, writers and context fields. Loggers
// without any output are disabled so that no events are built for them.
func (l *Logger) rebuild() {
	multiLogger := zerolog.Nop()
	if len(l.writers) > 0 {
		multiLogger = zerolog.New(zerolog.MultiLevelWriter(l.writers...)).Level(l.level).With().Timestamp().Logger()
	}

	consoleLogger := zerolog.Nop()
	if l.consoleEnabled {
		consoleWriter := setupDefaultFormatting(zerolog.ConsoleWriter{Out: os.Stderr}, l.level)
		consoleLogger = zerolog.New(consoleWriter).Level(l.level)
	}

	for _, field := range l.fields {
		multiLogger = multiLogger.With().Str(field.key, field.value).Logger()
		consoleLogger = consoleLogger.With().Str(field.key, field.value).Logger()
	}

	l.multiLogger = multiLogger
	l.consoleLogger = consoleLogger
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have their own unique logger so that parsing of logs is "grep-able" based on some key
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	fields := make([]contextField, 0, len(l.fields)+1)
	fields = append(fields, l.fields...)
	fields = append(fields, contextField{key: key, value: value})

	subLogger := &Logger{
		level:          l.level,
		consoleEnabled: l.consoleEnabled,
		writers:        l.writers,
		fields:         fields,
	}
	subLogger.rebuild()
	return subLogger
}

// AddWriter will add a writer to the list of channels where log output will be sent. Unstructured writers receive
// uncolored, human-readable lines.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat) {
	// Check to see if the writer is already in the array of writers
	for _, w := range l.writers {
		if w == writer {
			return
		}
		if cw, ok := w.(zerolog.ConsoleWriter); ok && cw.Out == writer {
			return
		}
	}

	if format == UNSTRUCTURED {
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: true}
	}
	l.writers = append(l.writers, writer)
	l.rebuild()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist, this
// function is a no-op
func (l *Logger) RemoveWriter(writer io.Writer) {
	for i, w := range l.writers {
		cw, isConsoleWriter := w.(zerolog.ConsoleWriter)
		if w == writer || (isConsoleWriter && cw.Out == writer) {
			l.writers = append(l.writers[:i:i], l.writers[i+1:]...)
			l.rebuild()
			return
		}
	}
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.emit(zerolog.TraceLevel, args)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.emit(zerolog.DebugLevel, args)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.emit(zerolog.InfoLevel, args)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.emit(zerolog.WarnLevel, args)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	l.emit(zerolog.ErrorLevel, args)
}

// Panic is a wrapper function that will log a panic event and then panic with the uncolored message.
func (l *Logger) Panic(args ...any) {
	msg := l.emit(zerolog.PanicLevel, args)
	panic(msg)
}

// emit builds the console and multi-writer events for the provided level, chains any error and structured info and
// sends them. Returns the uncolored message.
func (l *Logger) emit(level zerolog.Level, args []any) string {
	consoleMsg, plainMsg, err, info := buildMsgs(args...)

	// WithLevel does not exit or panic for fatal/panic levels, the caller decides.
	consoleLog := l.consoleLogger.WithLevel(level)
	multiLog := l.multiLogger.WithLevel(level)

	// Stack traces are attached in debug mode, or always when panicking.
	withStack := l.level <= zerolog.DebugLevel || level == zerolog.PanicLevel
	for _, event := range []*zerolog.Event{consoleLog, multiLog} {
		if err != nil {
			event.Err(err)
			if withStack {
				event.Stack()
			}
		}
		if info != nil {
			event.Any("info", info)
		}
	}

	multiLog.Msg(plainMsg)
	consoleLog.Msg(consoleMsg)
	return plainMsg
}

// buildMsgs describes a function that takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string will be a colorized-string that can be used for
// console logging while the second string will be a non-colorized one that can be used for file/structured logging.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	consoleOutput := make([]string, 0, len(args))
	plainOutput := make([]string, 0, len(args))
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			colorCtx = t
		case StructuredLogInfo:
			// Only one structured log info can be provided for each log message
			info = t
		case error:
			// Only one error can be provided for each log message
			err = t
		default:
			consoleOutput = append(consoleOutput, colorCtx(t))
			plainOutput = append(plainOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(plainOutput, ""), err, info
}

// setupDefaultFormatting will update the console logger's formatting to the project standard
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	writer.FormatLevel = func(i any) string {
		levelStr, _ := i.(string)
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		switch parsed {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	// Above debug level, the module field is noise on the console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
