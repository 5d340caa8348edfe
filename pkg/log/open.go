package log

import (
	"fmt"
	"log/slog"
)

// Open builds the logger for a command: events go to a FileLogger at path
// when path is set and to console when console is non-nil. The returned
// close function closes the file and is safe to call when there is none.
func Open(path string, console *slog.Logger) (Logger, func() error, error) {
	var loggers []Logger
	closeFn := func() error { return nil }

	if path != "" {
		fl, err := NewFileLogger(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open transaction log: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = fl.Close
	}
	if console != nil {
		loggers = append(loggers, NewSlogAdapter(console))
	}

	switch len(loggers) {
	case 0:
		return NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	}
	return NewMultiLogger(loggers...), closeFn, nil
}
