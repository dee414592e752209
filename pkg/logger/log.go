package logger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type LogStatus int

const (
	VERBOSE LogStatus = iota
	DEBUG
	INFO
	SUCCESS
	NEW
	REMOVE
	STOP
	WARNING
	ERROR
	FATAL
)

var minStatus = INFO

func (e LogStatus) String() string {
	return []string{
		"V",
		"D",
		"I",
		"✓",
		"+",
		"-",
		"X",
		"!",
		"!!",
		"PANIC",
	}[e]
}

func (e LogStatus) Color() *color.Color {
	return []*color.Color{
		color.New(color.FgWhite, color.Italic),                //Verbose
		color.New(color.FgWhite, color.Italic),                //Debug
		color.New(color.FgWhite),                              //Info
		color.New(color.FgHiGreen),                            //Success
		color.New(color.FgGreen, color.Italic),                //New
		color.New(color.FgYellow, color.Italic),               //Remove
		color.New(color.FgHiYellow),                           //Stop
		color.New(color.FgYellow, color.Underline),            //Warning
		color.New(color.FgHiRed, color.Bold),                  //Error
		color.New(color.FgHiRed, color.Bold, color.Underline), //PANIC
	}[e]
}

func (e LogStatus) Level() int { return int(e) }

// ParseLevel converts a level name (e.g. "debug", "WARNING") in to
// the matching LogStatus. Unknown names yield INFO and false.
func ParseLevel(name string) (LogStatus, bool) {
	switch strings.ToUpper(name) {
	case "VERBOSE":
		return VERBOSE, true
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARNING", "WARN":
		return WARNING, true
	case "ERROR":
		return ERROR, true
	}

	return INFO, false
}

// SetMinLoggingLevel changes the minimum level a message must be
// emitted at for it to be printed.
func SetMinLoggingLevel(level int) {
	Log.Lock()
	defer Log.Unlock()
	minStatus = LogStatus(level)
}

type Logger interface {
	Emit(LogStatus, string, ...interface{})
	Verbosef(string, ...interface{})
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})

	// Fatalf and Printf exist so a Logger can be handed to libraries (goose)
	// which expect a standard-library shaped logger.
	Fatalf(string, ...interface{})
	Printf(string, ...interface{})
}

type loggerImpl struct {
	name string
}

func (l *loggerImpl) Emit(status LogStatus, message string, interpolations ...interface{}) {
	Log.Emit(status, l.name, message, interpolations...)
}

func (l *loggerImpl) Verbosef(m string, a ...interface{}) { l.Emit(VERBOSE, m, a...) }
func (l *loggerImpl) Debugf(m string, a ...interface{})   { l.Emit(DEBUG, m, a...) }
func (l *loggerImpl) Infof(m string, a ...interface{})    { l.Emit(INFO, m, a...) }
func (l *loggerImpl) Warnf(m string, a ...interface{})    { l.Emit(WARNING, m, a...) }
func (l *loggerImpl) Errorf(m string, a ...interface{})   { l.Emit(ERROR, m, a...) }
func (l *loggerImpl) Fatalf(m string, a ...interface{})   { l.Emit(FATAL, m, a...) }
func (l *loggerImpl) Printf(m string, a ...interface{})   { l.Emit(INFO, m, a...) }

var Log = &loggerMgr{Mutex: &sync.Mutex{}}

type loggerMgr struct {
	*sync.Mutex
	offset int
}

func (l *loggerMgr) GetLogger(name string) Logger {
	return &loggerImpl{name: name}
}

func (l *loggerMgr) Emit(status LogStatus, name string, message string, interpolations ...interface{}) {
	l.Lock()
	defer l.Unlock()
	if status < minStatus {
		return
	}

	if len(name) > l.offset {
		l.offset = len(name)
	}

	padding := strings.Repeat(" ", l.offset-len(name))
	msg := fmt.Sprintf("[%s] %s(%s) %s", name, padding, status, fmt.Sprintf(message, interpolations...))
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	status.Color().Print(msg)
}

func Get(name string) Logger {
	return Log.GetLogger(name)
}
