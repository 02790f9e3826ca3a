// Package logtail shows the progress of a silenced build: a Monitor follows
// the growing build log and redraws its newest line in place on the
// terminal, and LastLines recovers the end of the log for failure reports.
package logtail
