// Package logger provides structured logging setup and context
// propagation for the application.
package logger
