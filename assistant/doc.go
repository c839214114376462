// Package assistant implements the routing core of the Saj assistant: a
// fixed decision graph that classifies each incoming message and answers it
// through one of three paths: casual chat, retrieval-augmented generation
// over graded passages, or a fallback answer from the full reference
// document.
//
// The graph topology is fixed at construction time. Each node reads and
// writes fields of a per-request State, and conditional edges select the
// next node from classification results. All LLM and vector-store calls are
// behind small collaborator interfaces so the core stays independent of any
// particular backend.
package assistant
