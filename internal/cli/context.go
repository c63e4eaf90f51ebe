// Package cli provides the command-line interface for the radar application.
package cli

import (
	"github.com/job-radar/radar/internal/app"
)

// Global reference shared by the commands. Set once in PersistentPreRunE.
var globalApp *app.Application

// SetApp stores the Application for command access
func SetApp(a *app.Application) {
	globalApp = a
}

// GetApp retrieves the Application
func GetApp() *app.Application {
	return globalApp
}
