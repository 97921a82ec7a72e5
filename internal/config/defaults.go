package config

// DefaultReportOutput is the change report path relative to the working directory.
const DefaultReportOutput = "changes.json"

// DefaultHistoryPath is the annotation ledger path relative to the repository root.
const DefaultHistoryPath = "history.json"

// DefaultMissingAuthorsPath is where annotation lines lacking an author are collected.
const DefaultMissingAuthorsPath = "missing_authors.json"

// DefaultHeaderExtensions restricts header updates to Ada sources.
var DefaultHeaderExtensions = []string{".ada", ".adb", ".ads"}

// DefaultCommentLeader is the comment token that opens every annotation line.
const DefaultCommentLeader = "--"

// DefaultChangeIDPrefix is the ticket prefix expected inside commit messages.
const DefaultChangeIDPrefix = "atvcm"
