// Package trello provides an HTTP client for a Trello-compatible task-board API.
//
// The client covers boards, lists, cards, checklists and check items. Every
// operation is a single request (SetItemCompletion is two: the API addresses
// check item updates through the owning card, so the card id is looked up
// first). There is no caching and no retry; callers decide what to do with a
// failure.
//
// Authentication uses the key and token query parameters on every request.
// Errors never include the query string, so credentials do not leak into
// logs or user-facing messages:
//
//   - "execute request GET /1/checklists/abc/checkItems: dial tcp: connection refused"
//   - "api DELETE /1/checklists/abc returned status 404: invalid id"
//   - "decode response: unexpected EOF"
//
// HTTP failures are returned as *APIError so callers can inspect the status.
package trello
