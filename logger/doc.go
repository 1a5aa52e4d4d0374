// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get(logger.ComponentPlanner)
//	log.Info("plan computed", logger.Fields(logger.FieldPlanID, id))
package logger
