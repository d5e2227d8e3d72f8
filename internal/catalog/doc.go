// Package catalog provides an HTTP client for the media library API.
//
// # Overview
//
// The API serves two ordered collections per side (source and destination).
// Each /list response carries the ordered item ids together with a parallel
// array of creation dates. Pairing the two arrays is the job of Zip; a length
// mismatch is reported as ErrMisaligned and callers degrade to an empty date
// index instead of failing.
//
// # API Endpoints
//
//   - GET /list?directory=<position>&folder=<collection>[&filter=<f>]
//   - GET /info?id=<id>&directory=<position>
//   - GET /tree[?position=<position>]
//
// FetchList returns both arrays of one /list response as sent. The payload
// is atomic, so ids and dates always describe the same listing; a mismatch
// between them is left for ListResponse.Entries to report.
//
// # Timestamps
//
// A Timestamp holds either epoch milliseconds or an ISO-8601 string. The
// server sends epoch seconds by default; the client multiplies numeric values
// by 1000 unless constructed with EpochMillis. Strings are parsed lazily by
// Timestamp.Time so a malformed date only affects its own entry.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json header
//   - Include User-Agent: diptych/0.1 header
//   - Have a 10-second timeout
//   - Decode with bytedance/sonic
//
// Example error messages:
//   - "execute request: dial tcp: connection refused"
//   - "api /list?directory=source returned status 500"
//   - "decode response: ..."
//
// # Thread Safety
//
// The Client struct is safe for concurrent use.
package catalog
