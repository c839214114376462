// Package chains implements the assistant's LLM-backed collaborators on top
// of langchaingo: intent detection, question rephrasing, per-passage
// relevance grading, the two answer generators and the smalltalk responder.
// Each chain is a pure function of its inputs and safe to call concurrently.
package chains
