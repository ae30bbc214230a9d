// Package entry holds the minimal run model the submission engine consumes.
//
// An Entry is a bag of named fields (title, file, path, label, ...). A Task groups
// the entries of one run into accepted and failed sets and exposes the plugin set
// that is active for the run, which decides who owns staged temp files.
package entry
