// Package reminder runs the serve-mode notification loop: a daily cron job
// that regenerates the schedule each morning, plus one-shot timers that ping
// the user shortly before each scheduled block begins. Outbound messages go
// through a Sender and are rate limited.
package reminder
