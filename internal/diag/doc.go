// Package diag defines the host-side diagnostic model: what rules report and
// what the host hands back after post-processing.
//
// A rule emits Report values through a Reporter. The host stamps each report
// with the rule id and its configured Severity, producing a Message. Messages
// for one physical file arrive grouped per virtual file; Flatten joins them.
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt.
package diag
