// Package telegram runs the calendar bot: subscriber commands, the daily
// broadcast, and the Markdown formatting of event batches.
package telegram
