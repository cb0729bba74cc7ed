// Package telegram is the chat surface for serve mode. It long-polls the
// Telegram Bot API, answers /today and /tomorrow for a single configured
// chat, and delivers the reminder service's outbound messages.
package telegram
