// Package application provides application initialization and dependency wiring.
// It creates the CRM store, session manager, API handlers, page renderer and
// HTTP server, and prepares the directories the server writes to, keeping the
// main package focused on CLI parsing and orchestration.
package application
