// Package app assembles the daemon from its parts: configuration, logging,
// SQLite storage, the planner, the Telegram bot, and the reminder loop.
package app
