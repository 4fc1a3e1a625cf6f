// Package logtail reads the tail of marquee's log file.
//
// While the banner owns the terminal every log record goes to
// <log_dir>/marquee.log. The "marquee logs" command uses Read to show the
// most recent lines, optionally narrowed to one transition with
// Contains("transition_id=<id>"). Filtering happens before the line limit is
// applied, so asking for 20 lines of one transition returns that
// transition's last 20 lines rather than whatever matched in the file's last
// 20 lines.
//
// Lines are kept in a fixed-size ring, so memory use is bounded by the line
// limit regardless of log size. Lines longer than 1 MiB fail the read.
package logtail
