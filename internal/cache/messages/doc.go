// Package messages provides the cache persistence layer for DM voice
// messages.
//
// Messages are immutable after creation and keyed by the generator-assigned
// message id; a conversation is addressed by its unordered participant
// pair, and rows come back ascending by timestamp because conversations
// render chronologically top-to-bottom.
package messages
