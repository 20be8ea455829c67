// Package console is the line-mode query surface: a numbered menu on stdin
// and stdout for terminals that cannot host the interactive UI, for pipes,
// and for users who pass --plain. It also holds the go-pretty table
// renderers shared with the scan and signatures commands.
package console
