// Package logger provides structured logging for atlas using zerolog.
//
// It supports JSON and console output, level configuration from settings
// or environment, and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("facade")
//	log.Debug("facade built", logger.Fields(logger.FieldFacade, "LoginPage"))
package logger
