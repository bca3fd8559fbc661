// Package claude decodes chat-export archives: plain JSON exports holding an
// array of chats, and zipped multi-user exports (users.json plus
// conversations.json) that are re-split into per-user bundles.
package claude
