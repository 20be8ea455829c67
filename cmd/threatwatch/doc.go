// Command threatwatch follows a log file and reports lines that match
// threat signatures.
//
// Usage:
//
//	threatwatch [flags] [log-file]   follow the file and open the query menu
//	threatwatch scan <log-file>      classify the file once and print totals
//	threatwatch signatures           list the effective signature set
package main
