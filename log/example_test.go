package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/areport/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithFormat(log.FormatText), log.WithTimeLayout("none"))
	logger.Info("template loaded", slog.Int("sheets", 2))
	// Output:
	// level=INFO msg="template loaded" sheets=2
}

func Example_reportAttributes() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelTrace))

	logger.Trace("region", log.Path("Report", "table"), log.Cell(3, 1), log.Extent(2, 1))
	// Output:
	// level=TRACE msg=region path=Report/table cell.row=3 cell.col=1 extent.height=2 extent.width=1
}
