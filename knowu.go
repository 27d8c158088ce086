// Package knowu collects a browser-environment fingerprint and delivers it to a
// collection endpoint.
//
// A fingerprint is gathered by running every registered probe concurrently
// against a host platform and combining their results into one timestamped
// record. Delivery is a single JSON POST, either on demand (Client.Send) or once
// when the host reports that the document has loaded (Config.SendOnLoad).
//
// Probes never fail: a capability the host lacks is recorded as null, a list
// signal as an empty list.
package knowu
