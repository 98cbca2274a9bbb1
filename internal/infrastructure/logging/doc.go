// Package logging provides structured logging using uber/zap.
//
// Production loggers write sampled JSON; development loggers write
// coloured console lines at debug. Every entry carries service=spatialos.
//
// Broken physics invariants are reported through Defect, which uses
// zap's DPanic level: it panics in development and logs in production.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Error("Failed to load catalog", zap.Error(err))
package logging
