// Package config provides configuration helpers for go-pathsense commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the pathsense binaries.
const (
	DefaultDashboardPort = "8090"
	DefaultModelPath     = "models/yolov8n.onnx"
	DefaultCameraDevice  = 0
	DefaultLogLevel      = "info"
)

// ModelPath returns the detection model path from MODEL_PATH env var.
// Falls back to the bundled default if not set.
func ModelPath() string {
	if p := os.Getenv("MODEL_PATH"); p != "" {
		return p
	}
	return DefaultModelPath
}

// CameraDevice returns the capture device index from CAMERA_DEVICE env var.
func CameraDevice() int {
	if v := os.Getenv("CAMERA_DEVICE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return DefaultCameraDevice
}

// DashboardPort returns the dashboard port from DASHBOARD_PORT env var.
func DashboardPort() string {
	if p := os.Getenv("DASHBOARD_PORT"); p != "" {
		return p
	}
	return DefaultDashboardPort
}

// PostgresDSN returns the history store DSN from POSTGRES_DSN env var.
// An empty value disables history recording.
func PostgresDSN() string {
	return os.Getenv("POSTGRES_DSN")
}

// LogLevel returns the log level from LOG_LEVEL env var.
func LogLevel() string {
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		return l
	}
	return DefaultLogLevel
}
