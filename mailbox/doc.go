// Package mailbox provides the shared concurrency primitives named in spec
// §5: bounded and unbounded MPMC mailboxes built on buffered Go channels,
// plus a one-shot broadcast event.
package mailbox
