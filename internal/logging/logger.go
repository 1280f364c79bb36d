package logging

import (
	"io"
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup installs a JSON logger on stdout as the process default. Request
// details stored in the context are added to every record.
func Setup(level slog.Level) {
	slog.SetDefault(slog.New(NewContextHandler(jsonHandler(os.Stdout, level))))
}

// AttachDatabase extends the default logger so ERROR records are also
// persisted to system_logs. The caller must Stop the returned handler on
// shutdown to flush what is still buffered.
func AttachDatabase(db *gorm.DB, level slog.Level) *PGHandler {
	pg := NewPGHandler(db)
	slog.SetDefault(slog.New(NewContextHandler(NewMultiHandler(
		jsonHandler(os.Stdout, level),
		pg,
	))))
	return pg
}

func jsonHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
