// Package component implements the deferred component payload mechanism:
// message components (buttons, select menus) carry only an opaque uuid in
// their custom id, and the behavior they trigger is stored server-side under
// that key. Activation looks the key up and either enqueues the stored task
// or runs the stored mechanic; a key stored with no payload is deliberately
// inert. Payloads are retained after activation so controls embedded in
// shared guild messages stay usable by every member, repeatedly.
package component
