// Package notify delivers significant property changes to people.
//
// The reconcile core only builds Notification payloads; this package owns the
// channels. LogDispatcher writes them to the structured log and
// EmailDispatcher sends them over SMTP as a plain text body. EmailDispatcher
// implements reconcile.BatchDispatcher, so a whole plan arrives as one digest
// email.
package notify
