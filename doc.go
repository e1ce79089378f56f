// Package painelserver implements the painel-api service, the backend of the
// support operator panel for a real-estate chat assistant.
//
// The service provides:
//   - Conversation listing with category tabs, search and unread counters
//   - Per-conversation message history with operator sends via webhook
//   - A realtime reconciler keeping both caches consistent with the hosted
//     backend's change feed
//   - Conversation status transitions gating the automated agent
//   - WhatsApp user and platform operator management
//   - Operator authentication against the hosted auth provider
package painelserver
