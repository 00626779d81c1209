// Package recognizer turns a span of recorded speech into timed phones by
// running an external phone recognizer.
//
// The recognizer executable receives
//
//	--input PATH --start SS.CC --end SS.CC [--dialog FILE]
//
// and writes one line per phone to stdout:
//
//	start<TAB>end<TAB>phone
//
// Times are absolute seconds with two decimals. Lines of the form
// "progress<TAB>0.42" report completion of the request; blank lines and lines
// starting with '#' are ignored.
package recognizer
