// Package logtail reads the tail of the JSON log file.
//
// When log_file is configured the app logger writes one logrus JSON object
// per line. Read scans the file once and keeps the last maxLines entries
// that pass a Filter in a ring buffer, so memory stays proportional to
// maxLines rather than file size. Filters match on request_id, component
// and minimum severity, which makes it easy to follow one request from
// "request queued" through its completion:
//
//	entries, err := logtail.Read(path, 200, logtail.Filter{RequestID: id})
//
// Lines that are not JSON are returned verbatim only when the filter is
// empty.
package logtail
